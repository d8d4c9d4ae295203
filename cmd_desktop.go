package main

import (
	"context"

	"github.com/spf13/cobra"

	"InfiniteBoard/internal/render"
	"InfiniteBoard/internal/ui"
)

var desktopUploadDir string

var desktopCmd = &cobra.Command{
	Use:   "desktop",
	Short: "Open the desktop board",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDesktop(cmd.Context())
	},
}

func init() {
	desktopCmd.Flags().StringVar(&desktopUploadDir, "upload-dir", "", "directory image and video cards are copied into")
	rootCmd.AddCommand(desktopCmd)
}

func runDesktop(ctx context.Context) error {
	dir := cfg.Server.UploadDir
	if desktopUploadDir != "" {
		dir = desktopUploadDir
	}
	return ui.RunApp(ctx, ui.Options{
		Title:      "InfiniteBoard",
		Size:       cfg.Canvas.Size(),
		Tool:       cfg.Canvas.Tool(),
		Strategy:   render.StrategyByName(cfg.Canvas.Strategy),
		UploadDir:  dir,
		WheelScale: cfg.Canvas.WheelScale,
	})
}
