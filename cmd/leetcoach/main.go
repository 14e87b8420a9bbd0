package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"leetcoach/internal/chat"
	"leetcoach/internal/cli"
	"leetcoach/internal/config"
	"leetcoach/internal/hook"
	"leetcoach/internal/hook/handlers"
	"leetcoach/internal/llm"
	"leetcoach/internal/llm/openrouter"
	"leetcoach/internal/logger"
	"leetcoach/internal/prompt"
	"leetcoach/internal/tool"
	"leetcoach/internal/tool/builtin"
)

var version = "dev"

var (
	configPath   string
	apiKey       string
	baseURL      string
	model        string
	reasoning    string
	mode         string
	instructions string
	title        string
	descPath     string
	solutionPath string
	language     string
	verbose      bool
	noColor      bool
	noReasoning  bool
	autoAccept   bool
	checkModel   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "leetcoach",
		Short:         "A Leetcode coach in your terminal",
		Long:          "Streams hints, complexity analysis and, on request, full solutions for the problem you are working on from any OpenRouter model.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default: ./leetcoach.yaml, ~/.config/leetcoach/leetcoach.yaml, /etc/leetcoach/leetcoach.yaml)")
	pf.StringVar(&apiKey, "api-key", "", "OpenRouter API key (default $OPENROUTER_API_KEY)")
	pf.StringVar(&baseURL, "base-url", "", "API base URL (default $OPENROUTER_BASE_URL or "+openrouter.DefaultBaseURL+")")
	pf.StringVar(&model, "model", "", "Model id, e.g. deepseek/deepseek-r1 (default $OPENROUTER_MODEL)")
	pf.BoolVar(&verbose, "verbose", false, "Enable verbose output (debug mode)")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newAskCmd(), newChatCmd(), newModelsCmd(), newMCPCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// addCoachFlags registers the flags shared by ask, chat and mcp
func addCoachFlags(cmd *cobra.Command, withProblem bool) {
	f := cmd.Flags()
	f.StringVar(&reasoning, "reasoning", "", "Reasoning effort: low, medium or high")
	f.StringVar(&instructions, "instructions", "", "Custom instructions appended to the system prompt")
	f.BoolVar(&checkModel, "check-model", false, "Look up the model's endpoints before the first turn")
	if !withProblem {
		return
	}
	f.StringVar(&mode, "mode", "", "learn (hints only) or agent (may suggest code)")
	f.StringVarP(&title, "title", "t", "", "Problem title")
	f.StringVarP(&descPath, "description", "d", "", "File holding the problem description")
	f.StringVarP(&solutionPath, "solution", "s", "", "Your solution file; accepted suggestions are written here")
	f.StringVar(&language, "language", "", "Solution language (default: from the solution file extension)")
	f.BoolVar(&noReasoning, "no-reasoning", false, "Do not print the model's reasoning")
	f.BoolVar(&autoAccept, "auto-accept", false, "Apply suggestions without asking")
}

// app is everything a command needs after flags and config are resolved
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	renderer  *cli.Renderer
	client    *openrouter.Client
	mode      prompt.Mode
	reasoning llm.ReasoningEffort
	stdin     *bufio.Reader
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = logger.LevelDebug
	}
	log := logger.NewLogger(os.Stderr, level)
	log.SetColorMode(!cfg.Log.NoColor)

	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	m, err := prompt.ParseMode(cfg.Coach.Mode)
	if err != nil {
		return nil, err
	}
	effort, err := llm.ParseReasoningEffort(cfg.Coach.Reasoning)
	if err != nil {
		return nil, err
	}

	opts := []openrouter.Option{openrouter.WithAttribution(cfg.OpenRouter.AppTitle, cfg.OpenRouter.AppURL)}
	if cfg.OpenRouter.BaseURL != "" {
		opts = append(opts, openrouter.WithBaseURL(cfg.OpenRouter.BaseURL))
	}
	client := openrouter.NewClient(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model, opts...)
	log.Debug("Using %s at %s", client.Model(), client.BaseURL())

	renderer := cli.NewRenderer(os.Stdout, log)
	renderer.SetColorMode(!cfg.Log.NoColor)
	renderer.SetShowReasoning(!noReasoning)

	return &app{
		cfg:       cfg,
		log:       log,
		renderer:  renderer,
		client:    client,
		mode:      m,
		reasoning: effort,
		stdin:     bufio.NewReader(os.Stdin),
	}, nil
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.LoadWithDefaults()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// applyFlags lets explicitly set flags override the config file
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, dst *string, val string) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = val
		}
	}
	set("api-key", &cfg.OpenRouter.APIKey, apiKey)
	set("base-url", &cfg.OpenRouter.BaseURL, baseURL)
	set("model", &cfg.OpenRouter.Model, model)
	set("reasoning", &cfg.Coach.Reasoning, reasoning)
	set("mode", &cfg.Coach.Mode, mode)
	set("instructions", &cfg.Coach.CustomInstructions, instructions)

	if verbose {
		cfg.Log.Level = "debug"
	}
	if noColor {
		cfg.Log.NoColor = true
	}
	if autoAccept {
		cfg.Hooks.AutoAccept = true
	}
	if checkModel {
		cfg.Coach.CheckModel = true
	}
}

func (a *app) chatConfig() chat.Config {
	return chat.Config{
		Model:              a.cfg.OpenRouter.Model,
		Mode:               a.mode,
		Reasoning:          a.reasoning,
		CustomInstructions: a.cfg.Coach.CustomInstructions,
	}
}

// verifyModel checks the model when asked to, and always in agent mode
func (a *app) verifyModel(ctx context.Context) error {
	if !a.cfg.Coach.CheckModel && a.mode != prompt.ModeAgent {
		return nil
	}
	resp, err := a.client.CheckModel(ctx, "", a.mode == prompt.ModeAgent)
	if err != nil {
		return fmt.Errorf("model check failed: %w", err)
	}
	if a.reasoning != llm.ReasoningNone && !resp.SupportsReasoning() {
		a.log.Warn("%s does not list reasoning support; the effort setting may be ignored", a.client.Model())
	}
	return nil
}

func (a *app) pageSource() chat.PageSource {
	return func() (prompt.PageData, error) {
		return prompt.LoadPage(title, descPath, solutionPath, language)
	}
}

// newSession wires the registry, hooks and renderer into a chat session
func (a *app) newSession() *chat.Session {
	registry := tool.NewRegistry()
	hooks := hook.NewManager()

	if a.mode == prompt.ModeAgent {
		registry.Register(builtin.NewSuggestTool(solutionPath))
		if a.cfg.Hooks.AutoAccept {
			hooks.Register(&hook.HandlerFunc{
				HandlerName: "auto_accept",
				On:          []hook.HookPoint{hook.BeforeSuggestionApply},
				Fn: func(ctx context.Context, data *hook.HookData) (*hook.Feedback, error) {
					a.renderer.PreviewSuggestion(data.GetString("original"), data.GetString("suggested"))
					return hook.AllowFeedback(), nil
				},
			})
		} else {
			hooks.Register(handlers.NewSuggestionConfirmHandlerWithIO(a.stdin, os.Stdout, a.renderer))
		}
	}
	if len(a.cfg.Hooks.ToolConfirm) > 0 {
		hooks.Register(handlers.NewToolConfirmHandlerWithIO(a.stdin, os.Stdout, a.cfg.Hooks.ToolConfirm...))
	}
	hooks.Register(&hook.HandlerFunc{
		HandlerName: "applied_notice",
		On:          []hook.HookPoint{hook.AfterSuggestionApply},
		Fn: func(ctx context.Context, data *hook.HookData) (*hook.Feedback, error) {
			a.log.Info("Wrote suggestion to %s", data.GetString("path"))
			return hook.AllowFeedback(), nil
		},
	})

	return chat.NewSession(a.client, a.pageSource(), a.chatConfig(),
		chat.WithTools(registry),
		chat.WithHooks(hooks),
		chat.WithExecutionContext(chat.NewExecutionContext(a.log)),
	)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
