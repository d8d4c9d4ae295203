package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"InfiniteBoard/internal/board"
	"InfiniteBoard/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "infiniteboard",
	Short: "InfiniteBoard - an infinite canvas whiteboard",
	Long: `InfiniteBoard is a zoomable whiteboard with freehand drawing, erasing
and draggable text, image and video cards.

Examples:
  infiniteboard                       # Open the desktop board
  infiniteboard serve --addr :8080    # Serve the board to browsers on the LAN
  infiniteboard discover              # List boards advertised on the LAN`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return setupLogging(cfg.Log)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDesktop(cmd.Context())
	},
}

func init() {
	// Fyne fails to parse the locale when LANG=C.
	if lang := os.Getenv("LANG"); lang == "" || lang == "C" {
		os.Setenv("LANG", "en_US.UTF-8")
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func setupLogging(l config.Log) error {
	level, err := l.SlogLevel()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	board.SetLogger(logger.With("component", "board"))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
