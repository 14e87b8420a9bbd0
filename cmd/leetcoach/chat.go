package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"leetcoach/internal/chat"
	"leetcoach/internal/cli"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the coach one question about a problem",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}
	addCoachFlags(cmd, true)
	return cmd
}

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive coaching session",
		Args:  cobra.NoArgs,
		RunE:  runChat,
	}
	addCoachFlags(cmd, true)
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := a.verifyModel(ctx); err != nil {
		return err
	}

	session := a.newSession()
	defer session.Close()

	_, err = session.Send(ctx, strings.Join(args, " "), a.renderer.Callbacks())
	return reportTurnError(a.renderer, err)
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	checkCtx, cancel := signalContext()
	err = a.verifyModel(checkCtx)
	cancel()
	if err != nil {
		return err
	}

	page, err := a.pageSource()()
	if err != nil {
		return err
	}
	a.log.SessionStart(page.Title, a.client.Model(), string(a.mode))

	session := a.newSession()
	defer session.Close()

	fmt.Fprintln(os.Stdout, "Type a question, /reset to start over, /exit to quit.")
	for {
		a.renderer.Prompt()
		line, err := a.stdin.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			fmt.Fprintln(os.Stdout)
			return nil
		}

		switch text := strings.TrimSpace(line); text {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			if err := session.Reset(); err != nil {
				a.renderer.Toast(err)
			}
			continue
		default:
			sendTurn(a, session, text)
		}
	}
}

// sendTurn runs one turn with its own interrupt scope so Ctrl-C cancels the
// stream without leaving the REPL
func sendTurn(a *app, session *chat.Session, text string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	_, err := session.Send(ctx, text, a.renderer.Callbacks())
	if err != nil {
		a.log.Debug("turn failed: %v", err)
		_ = reportTurnError(a.renderer, err)
	}
}

// errReported marks a failure the user has already seen
var errReported = errors.New("already reported")

// reportTurnError shows err as a toast unless the stream callbacks already
// did, and marks it reported
func reportTurnError(r *cli.Renderer, err error) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, chat.ErrStreamFailed) {
		r.Toast(err)
	}
	return fmt.Errorf("%w: %w", errReported, err)
}
