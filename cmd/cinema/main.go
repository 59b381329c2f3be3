package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/chart"
	"github.com/iliyamo/cinema-seat-booking/internal/config"
	"github.com/iliyamo/cinema-seat-booking/internal/logger"
	"github.com/iliyamo/cinema-seat-booking/internal/service"
	"github.com/iliyamo/cinema-seat-booking/internal/tui"
)

const appName = "cinema"

var (
	version = "dev"
	commit  = "none"
)

func printUsage(out *os.File) {
	fmt.Fprintf(out, "Usage: %s [--plain] [--version]\n", appName)
}

func printVersion() {
	fmt.Printf("%s %s", appName, version)
	if commit != "none" && commit != "" {
		fmt.Printf(" (%s)", commit)
	}
	fmt.Println()
}

// handleArgs reports whether the program should start and with plain
// (uncoloured) output.
func handleArgs(args []string) (run, plain bool) {
	for _, arg := range args {
		switch arg {
		case "-h", "--help", "help":
			printUsage(os.Stdout)
			return false, false
		case "-v", "--version", "version":
			printVersion()
			return false, false
		case "--plain":
			plain = true
		default:
			fmt.Fprintf(os.Stderr, "Unknown argument: %s\n", arg)
			printUsage(os.Stderr)
			os.Exit(2)
		}
	}
	return true, plain
}

func main() {
	run, plain := handleArgs(os.Args[1:])
	if !run {
		return
	}
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs only go to a file.
	log := zap.NewNop()
	if cfg.LogFile != "" {
		if log, err = logger.New(cfg.Env, cfg.LogFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	defer func() { _ = log.Sync() }()

	opts := tui.Options{Styles: chart.DefaultStyles(), Log: log, Publisher: service.NopPublisher{}}
	if plain {
		opts.Styles = chart.PlainStyles()
	}
	if cfg.QueueEnabled {
		opts.Publisher = service.NewAMQPPublisher(cfg.AMQPURL, log)
	}
	if cfg.Venue.Title != "" {
		v, err := service.NewVenue(cfg.Venue.Title, cfg.Venue.Rows, cfg.Venue.SeatsPerRow,
			service.WithPublisher(opts.Publisher), service.WithLogger(log))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		opts.Venue = v
	}

	if _, err := tea.NewProgram(tui.New(opts)).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
