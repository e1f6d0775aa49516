package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chatre7/AI-Guardrail/internal/chat"
	"github.com/chatre7/AI-Guardrail/internal/setup"
)

// stdoutEmitter prints fragments as they arrive and the terminal message on
// its own line.
type stdoutEmitter struct {
	blocked bool
}

func (e *stdoutEmitter) Start(requestID string, model string) error { return nil }

func (e *stdoutEmitter) Fragment(text string) error {
	fmt.Print(text)
	return nil
}

func (e *stdoutEmitter) Done(stopReason string) error {
	fmt.Println()
	return nil
}

func (e *stdoutEmitter) Rejected(message string) error {
	e.blocked = true
	fmt.Println(message)
	return nil
}

func (e *stdoutEmitter) Terminated(message string) error {
	e.blocked = true
	fmt.Printf("\n%s\n", message)
	return nil
}

func (e *stdoutEmitter) Failed(message string) error {
	fmt.Fprintf(os.Stderr, "\n%s\n", message)
	return nil
}

func main() {
	prompt := flag.String("prompt", "", "Prompt to send")
	stdin := flag.Bool("stdin", false, "Read the prompt from stdin")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(zerolog.WarnLevel)
	logger := log.Logger

	_ = godotenv.Load()

	text := strings.TrimSpace(*prompt)
	if *stdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read stdin")
		}
		text = strings.TrimSpace(string(data))
	}

	if text == "" {
		fmt.Fprintln(os.Stderr, "Usage: chat -prompt '<text>' | chat -stdin")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	emitter := &stdoutEmitter{}
	if err := deps.Orchestrator.Run(ctx, chat.Params{Prompt: text, MaxTokens: 2000}, emitter); err != nil {
		os.Exit(1)
	}

	if emitter.blocked {
		os.Exit(1)
	}
}
