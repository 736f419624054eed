package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/DeusData/figma-mcp/internal/config"
	"github.com/DeusData/figma-mcp/internal/tools"
)

// runCLI invokes a single tool outside of MCP:
//
//	figma-mcp cli <tool> ['<json arguments>']
func runCLI(args []string) int {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printCLIHelp(os.Stdout, tools.NewDispatcher(nil))
		return 0
	}

	tool := args[0]
	cfg, err := config.Load(config.Path())
	if err == nil {
		err = cfg.ValidateSettings()
	}
	if err == nil && cfg.Token == "" && !offlineTools[tool] {
		err = config.ErrNoToken
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	setupLogging(cfg)
	d := tools.NewDispatcher(newClient(cfg))

	var raw json.RawMessage
	if len(args) > 1 {
		raw = json.RawMessage(args[1])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := d.Call(ctx, tool, raw)
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "error (%s): %s\n", res.Err.Kind, res.Err.Message)
		return 1
	}
	fmt.Println(res.Text)
	return 0
}

// offlineTools never reach the Figma API and run without a token.
var offlineTools = map[string]bool{
	"parse_figma_url": true,
}

func printCLIHelp(w io.Writer, d *tools.Dispatcher) {
	fmt.Fprintln(w, "Usage: figma-mcp cli <tool> ['<json arguments>']")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available tools:")
	for _, t := range d.Tools() {
		fmt.Fprintf(w, "  %-20s %s\n", t.Name, t.Description)
	}
}
