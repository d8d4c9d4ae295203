package main

import (
	"context"
	"fmt"
	"log/slog"
	stdnet "net"

	"github.com/spf13/cobra"

	"InfiniteBoard/internal/net"
	"InfiniteBoard/internal/render"
)

var (
	serveAddr      string
	serveUploadDir string
	serveNoMDNS    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board to browsers on the local network",
	Long: `Serve the board over HTTP. Every browser that opens the share link gets
its own board; uploaded files are stored in the upload directory. Unless
--no-mdns is given the server is advertised over mDNS as ` + net.ServiceType + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&serveUploadDir, "upload-dir", "", "directory uploads are stored in")
	serveCmd.Flags().BoolVar(&serveNoMDNS, "no-mdns", false, "do not advertise the server over mDNS")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveUploadDir != "" {
		cfg.Server.UploadDir = serveUploadDir
	}
	if serveNoMDNS {
		cfg.Server.Advertise = false
	}

	ln, err := stdnet.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	}

	if link, err := net.ShareURL(ln.Addr()); err == nil {
		fmt.Println("Share this link:", link)
	} else {
		slog.Warn("could not build share link", "err", err)
	}

	if cfg.Server.Advertise {
		port, err := net.Port(ln.Addr())
		if err != nil {
			ln.Close()
			return err
		}
		zone, err := net.Advertise(cfg.Server.Instance, port)
		if err != nil {
			// The board still works without discovery.
			slog.Warn("mDNS advertisement failed", "err", err)
		} else {
			defer zone.Shutdown()
			slog.Info("advertising", "service", net.ServiceType, "port", port)
		}
	}

	srv := net.NewServer(net.Options{
		Size:           cfg.Canvas.Size(),
		Tool:           cfg.Canvas.Tool(),
		Strategy:       render.StrategyByName(cfg.Canvas.Strategy),
		UploadDir:      cfg.Server.UploadDir,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
	})
	return srv.Serve(ctx, ln)
}
