package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/mailfacts/internal/pipeline"
	"github.com/ppiankov/mailfacts/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API for mail-client plugins",
	Long: `Serve exposes analysis over HTTP:

  GET  /api/v1/health
  POST /api/v1/analyze   {"subject": "...", "body": "...", "html": false}

The response is the same JSON report written by 'mailfacts analyze --json'.
Requests are rate limited per client address (server.requests_per_second,
server.burst_size).

Example:
  mailfacts serve
  mailfacts serve --addr 0.0.0.0:8085`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction cache")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCommonFlags(cmd, cfg)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "✓ Listening on http://%s\n", cfg.Server.Addr)

	s := server.New(cfg.Server, pipeline.NewPipeline(cfg))
	if err := s.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Server stopped\n")
	return nil
}
