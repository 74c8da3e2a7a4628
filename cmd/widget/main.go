package main

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"serenity-chat/client"
	"serenity-chat/domain"
	"serenity-chat/fallback"
	"serenity-chat/internal"
	"serenity-chat/observability"
	"serenity-chat/projection"
	"serenity-chat/runtime"
	"serenity-chat/services"
	"serenity-chat/sink"
)

// Exit codes to provide meaningful status to the operating system or service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const welcomeMessage = "Hello! I'm Serenity, your mental wellness companion. How are you feeling today?"

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Widget terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the pipeline lifecycle, and
// centralizes error reporting so defers execute before the program exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.WidgetConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Pipeline components
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	responder, err := fallback.NewResponder(fallback.DefaultRules(), fallback.DefaultGenericPool(), rnd)
	if err != nil {
		return exitConfig, fmt.Errorf("fallback responder: %w", err)
	}

	stats := observability.NewStats()
	replyClient := client.NewReplyClient(config.EndpointURL, config.RequestTimeout, responder, logger, stats)
	store := runtime.NewStore(welcomeMessage)

	orchestrator := runtime.NewOrchestrator(logger, store, replyClient, stats, runtime.Options{
		RevealInterval: config.RevealInterval,
		RevealStep:     config.RevealStep,
		BufferSize:     config.BufferSize,
		SinkTimeout:    config.SinkTimeout,
	})

	console := sink.NewConsole(os.Stdout, config.Colours)
	transcript := projection.NewTranscript()
	orchestrator.Add(console, transcript)

	chat := services.NewChatService(orchestrator)

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
		}
	}()

	// 4. Input loop
	fmt.Printf("Serenity: %s\n", welcomeMessage)
	lines := readLines(os.Stdin)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received")
			orchestrator.Stop()
			printSummary(transcript.Messages())
			return exitOK, nil
		case err := <-errChan:
			orchestrator.Stop()
			return exitRuntime, err
		case line, ok := <-lines:
			if !ok {
				orchestrator.Stop()
				printSummary(transcript.Messages())
				return exitOK, nil
			}
			// The send action refuses blank input; nothing is created.
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := chat.Send(line); err != nil {
				logger.Warn("Send rejected", "error", err)
			}
		}
	}
}

// readLines feeds stdin into a channel so the main loop can also watch
// for shutdown signals.
func readLines(f *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// printSummary renders the session transcript on exit.
func printSummary(messages []domain.Message) {
	if len(messages) == 0 {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Role", "Complete", "Chars", "Preview"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, m := range messages {
		preview := m.Displayed
		if len(preview) > 48 {
			preview = preview[:48] + "..."
		}
		table.Append([]string{
			strconv.FormatInt(m.ID, 10),
			string(m.Role),
			strconv.FormatBool(m.Complete),
			strconv.Itoa(len(m.FullText)),
			preview,
		})
	}

	fmt.Println("\nSession transcript:")
	table.Render()
}
