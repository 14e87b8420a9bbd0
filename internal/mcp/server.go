package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"leetcoach/internal/chat"
	"leetcoach/internal/llm"
	"leetcoach/internal/logger"
	"leetcoach/internal/prompt"
)

const AskCoachTool = "ask_coach"

// AskInput is the ask_coach argument object
type AskInput struct {
	Question    string `json:"question" jsonschema:"What the user wants to know about the problem"`
	Title       string `json:"title,omitempty" jsonschema:"Problem title, e.g. 1. Two Sum"`
	Description string `json:"description,omitempty" jsonschema:"Problem statement (HTML or text)"`
	Code        string `json:"code,omitempty" jsonschema:"The user's current code"`
	Language    string `json:"language,omitempty" jsonschema:"Language of the code, e.g. python"`
}

type AskOutput struct {
	Answer    string `json:"answer"`
	Reasoning string `json:"reasoning,omitempty"`
}

// Server exposes the coach to MCP clients. Every call is an independent
// single-turn learn-mode session.
type Server struct {
	streamer llm.Streamer
	cfg      chat.Config
	log      *logger.Logger
	server   *mcp.Server
}

func NewServer(streamer llm.Streamer, cfg chat.Config, version string, log *logger.Logger) *Server {
	cfg.Mode = prompt.ModeLearn
	s := &Server{
		streamer: streamer,
		cfg:      cfg,
		log:      log,
		server:   mcp.NewServer(&mcp.Implementation{Name: "leetcoach", Version: version}, nil),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        AskCoachTool,
		Description: "Ask the Leetcode coach for hints, complexity analysis or similar problems about a coding problem.",
	}, s.ask)

	return s
}

// Run serves over stdin/stdout until the client disconnects or ctx ends
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("MCP server ready on stdio (model %s)", s.streamer.Model())
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCP returns the underlying server for custom transports
func (s *Server) MCP() *mcp.Server {
	return s.server
}

func (s *Server) ask(ctx context.Context, req *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(in.Question) == "" {
		return errorResult("question is required"), AskOutput{}, nil
	}

	page := prompt.PageData{
		Title:         in.Title,
		Description:   in.Description,
		EditorContent: in.Code,
		Language:      in.Language,
	}
	if page.Title == "" {
		page.Title = "an unnamed problem"
	}

	session := chat.NewSession(s.streamer, chat.StaticPage(page), s.cfg,
		chat.WithExecutionContext(chat.NewExecutionContext(s.log)))
	s.log.Debug("ask_coach session %s for %q", session.ID(), page.Title)

	turn, err := session.Send(ctx, in.Question, &llm.Callbacks{
		OnMalformedFrame: func(payload string, err error) {
			s.log.Debug("dropped malformed frame: %v", err)
		},
	})
	if err != nil {
		s.log.Warn("ask_coach failed: %v", err)
		return errorResult(err.Error()), AskOutput{}, nil
	}

	out := AskOutput{Answer: turn.Content, Reasoning: turn.Reasoning}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: out.Answer}},
	}, out, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("ask_coach: %s", msg)}},
	}
}
