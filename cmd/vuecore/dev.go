package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vuecore/vuecore/internal/rconfig"
	"github.com/vuecore/vuecore/pkg/devserver"
)

func devCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the dev-preview server",
		Long: `Start the dev-preview server.

Serves a preview page at "/" and pushes a reload notification to every
connected tab over a websocket at "/__reload" whenever a watched
template is recompiled.

Examples:
  vuecore dev
  vuecore dev --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to run on (default from vuecore.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "host to bind to (default from vuecore.json)")

	return cmd
}

func runDev(port int, host string) error {
	cfg, err := rconfig.Load(".")
	if err != nil {
		cfg = rconfig.New()
	}
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}

	printBanner()
	fmt.Println("  dev")
	fmt.Println()

	srv := devserver.New(devserver.Config{
		Address:   cfg.DevAddress(),
		StaticDir: cfg.OutputPath(),
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		srv.Shutdown(context.Background())
	}()

	info("serving at http://%s", cfg.DevAddress())
	return srv.ListenAndServe()
}
