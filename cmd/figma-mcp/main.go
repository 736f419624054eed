package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DeusData/figma-mcp/internal/config"
	"github.com/DeusData/figma-mcp/internal/figma"
	"github.com/DeusData/figma-mcp/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version":
			fmt.Println("figma-mcp", version)
			os.Exit(0)
		case "install":
			os.Exit(runInstall(os.Args[2:]))
		case "uninstall":
			os.Exit(runUninstall(os.Args[2:]))
		case "cli":
			os.Exit(runCLI(os.Args[2:]))
		}
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("config err=%v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config err=%v", err)
	}
	setupLogging(cfg)
	srv := tools.NewServer(newClient(cfg), version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("server.start", "version", version, "transport", cfg.Server.Transport)
	var runErr error
	switch cfg.Server.Transport {
	case config.TransportHTTP:
		runErr = serveHTTP(ctx, srv.MCPServer(), cfg.Server.HTTPAddr)
	default:
		runErr = srv.MCPServer().Run(ctx, &mcp.StdioTransport{})
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatalf("server err=%v", runErr)
	}
	slog.Info("server.stop")
}

// setupLogging installs a text handler on stderr at the configured level.
// Stdout belongs to the stdio transport.
func setupLogging(cfg *config.Config) {
	level, _ := config.ParseLevel(cfg.Log.Level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func newClient(cfg *config.Config) *figma.Client {
	return figma.New(cfg.Token,
		figma.WithBaseURL(cfg.API.BaseURL),
		figma.WithUserAgent(cfg.API.UserAgent),
		figma.WithMaxResponseBytes(cfg.API.MaxResponseBytes),
		figma.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)
}
