package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/svgren/svgfetch/internal/config"
	"github.com/svgren/svgfetch/internal/download"
	"github.com/svgren/svgfetch/internal/http"
)

// Exit statuses.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitCancelled = 130
)

func main() {
	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
		cancel()
	}()

	code := run(ctx, config.DefaultSettings(), os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes one fetch with the given settings and returns the process
// exit status. Snippet lines go to stdout, everything else to stderr.
func run(ctx context.Context, settings *config.Settings, args []string, stdout, stderr io.Writer) int {
	// Command line flags
	flags := flag.NewFlagSet("svgfetch", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		verboseFlag = flags.Bool("verbose", false, "Show verbose output")
		timeoutFlag = flags.Duration("timeout", settings.RequestTimeout, "Timeout for each HTTP request (0 disables it)")
		strictFlag  = flags.Bool("strict", false, "Exit with status 1 if any manifest entry was not downloaded")
	)

	flags.Usage = func() {
		fmt.Fprintln(stderr, "svgfetch - Download the svgren test images")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  svgfetch [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintf(stderr, "Reads %s, downloads every file from %s into %s\n", settings.ManifestPath, settings.BaseURL, settings.OutputDir)
		fmt.Fprintln(stderr, "and prints a snippet for main.cpp of the svgren iOS test app.")
		fmt.Fprintln(stderr)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}
	if flags.NArg() > 0 {
		flags.Usage()
		return exitUsage
	}

	level := zerolog.InfoLevel
	if *verboseFlag {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().
		Logger()

	settings.RequestTimeout = *timeoutFlag

	client := http.NewClient(http.Options{
		Timeout:   settings.RequestTimeout,
		UserAgent: settings.UserAgent,
		Logger:    &logger,
	})

	fetcher := download.New(settings, client, stdout, func(event download.ProgressEvent) {
		logEvent(logger, event)
	})

	summary, err := fetcher.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn().Msg("Download cancelled.")
			return exitCancelled
		}
		logger.Error().Err(err).Msg("Fetch failed")
		return exitFailure
	}

	printSummary(stderr, summary)

	if *strictFlag && summary.Failed() > 0 {
		return exitFailure
	}
	return exitOK
}

func logEvent(logger zerolog.Logger, event download.ProgressEvent) {
	var e *zerolog.Event
	switch event.Level {
	case download.LevelError:
		e = logger.Error()
	case download.LevelWarning:
		e = logger.Warn()
	case download.LevelVerbose:
		e = logger.Debug()
	case download.LevelSuccess:
		e = logger.Info().Bool("ok", true)
	default:
		e = logger.Info()
	}
	e.Msg(event.Message)
}

// printSummary writes a closing report to w, which is never stdout: stdout
// keeps only the snippet.
func printSummary(w io.Writer, summary *download.Summary) {
	r := lipgloss.NewRenderer(w)
	rule := r.NewStyle().Foreground(lipgloss.Color("#6C757D")).Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	ok := r.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	bad := r.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, ok.Render(fmt.Sprintf("Downloaded %d/%d files (%s)",
		summary.Downloaded, summary.Entries, humanize.Bytes(uint64(summary.Bytes)))))
	for _, failure := range summary.Failures {
		msg := failure.Err.Error()
		if failure.Name != "" {
			msg = fmt.Sprintf("line %d (%s): %v", failure.Entry.Line, failure.Name, failure.Err)
		}
		fmt.Fprintln(w, bad.Render("  ✗ "+msg))
	}
}
