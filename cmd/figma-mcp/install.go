package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	mcpServerKey = "figma-mcp"
	tokenEnv     = "FIGMA_ACCESS_TOKEN"
)

// installConfig holds settings for the install/uninstall commands.
type installConfig struct {
	dryRun bool

	// token is written into the server entry's environment when set.
	token string
}

func parseInstallArgs(args []string) installConfig {
	cfg := installConfig{}
	for _, a := range args {
		switch a {
		case "--dry-run":
			cfg.dryRun = true
		case "--with-token":
			cfg.token = os.Getenv(tokenEnv)
			if cfg.token == "" {
				cfg.token = os.Getenv("FIGMA_API_KEY")
			}
		}
	}
	return cfg
}

// editor is an MCP host configured through a JSON file with an mcpServers map.
type editor struct {
	name       string
	configPath string
}

func editors() []editor {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []editor{
		{name: "Cursor", configPath: filepath.Join(home, ".cursor", "mcp.json")},
		{name: "Windsurf", configPath: filepath.Join(home, ".codeium", "windsurf", "mcp_config.json")},
	}
}

func runInstall(args []string) int {
	cfg := parseInstallArgs(args)

	binaryPath, err := detectBinaryPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("\nfigma-mcp %s install\n", version)
	fmt.Printf("Binary: %s\n\n", binaryPath)

	if claude := findCLI("claude"); claude != "" {
		fmt.Printf("[Claude Code] detected (%s)\n", claude)
		registerClaudeCode(claude, binaryPath, cfg)
	} else {
		fmt.Println("[Claude Code] not found, skipping MCP registration")
	}
	fmt.Println()

	for _, e := range editors() {
		installEditorMCP(binaryPath, e.configPath, e.name, cfg)
	}

	if cfg.token == "" {
		fmt.Printf("\nNo token written. Export %s where the editor starts the server, or rerun with --with-token.\n", tokenEnv)
	}
	fmt.Println("\nDone. Restart Claude Code / Cursor / Windsurf to activate.")
	return 0
}

func runUninstall(args []string) int {
	cfg := parseInstallArgs(args)

	fmt.Printf("\nfigma-mcp %s uninstall\n\n", version)

	if claude := findCLI("claude"); claude != "" {
		fmt.Printf("[Claude Code] detected (%s)\n", claude)
		runOrPreview(claude, claudeRemoveArgs(), cfg, "MCP server deregistered")
	}

	for _, e := range editors() {
		removeEditorMCP(e.configPath, e.name, cfg)
	}

	fmt.Println("\nDone. The binary and config file were NOT removed.")
	return 0
}

// detectBinaryPath resolves the current binary's real path.
func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("detect binary: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve symlink: %w", err)
	}
	return resolved, nil
}

// --- Claude Code ---

func claudeRemoveArgs() []string {
	return []string{"mcp", "remove", "-s", "user", mcpServerKey}
}

// claudeAddArgs builds the `claude mcp add` argument list.
func claudeAddArgs(binaryPath string, cfg installConfig) []string {
	args := []string{"mcp", "add", "--scope", "user"}
	if cfg.token != "" {
		args = append(args, "-e", tokenEnv+"="+cfg.token)
	}
	return append(args, mcpServerKey, "--", binaryPath)
}

func registerClaudeCode(claude, binaryPath string, cfg installConfig) {
	if !cfg.dryRun {
		// Fails when not registered yet.
		_ = runExternal(claude, claudeRemoveArgs()...)
	}
	runOrPreview(claude, claudeAddArgs(binaryPath, cfg), cfg, "MCP server registered (scope: user)")
}

// runOrPreview runs an external command, or prints it with secrets masked
// on a dry run.
func runOrPreview(bin string, args []string, cfg installConfig, success string) {
	if cfg.dryRun {
		fmt.Printf("  [dry-run] Would run: %s %s\n", bin, strings.Join(redactToken(args), " "))
		return
	}
	if err := runExternal(bin, args...); err != nil {
		fmt.Printf("  ! %s %s: %v\n", filepath.Base(bin), strings.Join(args[:2], " "), err)
		return
	}
	fmt.Printf("  ok %s\n", success)
}

func redactToken(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if strings.HasPrefix(a, tokenEnv+"=") {
			a = tokenEnv + "=***"
		}
		out[i] = a
	}
	return out
}

// findCLI locates an executable on PATH, then in the usual per-user and
// package-manager bin directories.
func findCLI(name string) string {
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	for _, dir := range fallbackBinDirs() {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func fallbackBinDirs() []string {
	dirs := []string{"/usr/local/bin"}
	if runtime.GOOS == "darwin" {
		dirs = append(dirs, "/opt/homebrew/bin")
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "bin"), filepath.Join(home, ".npm", "bin"))
	}
	return dirs
}

func runExternal(bin string, args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// --- Editor JSON configs ---

// serverEntry is the mcpServers value written for this binary.
func serverEntry(binaryPath string, cfg installConfig) map[string]any {
	entry := map[string]any{"command": binaryPath}
	if cfg.token != "" {
		entry["env"] = map[string]any{tokenEnv: cfg.token}
	}
	return entry
}

// mcpConfig is an editor config file held as generic JSON so keys this
// binary does not know survive a rewrite.
type mcpConfig struct {
	root    map[string]any
	servers map[string]any
}

// readMCPConfig loads path. A missing file yields os.ErrNotExist.
func readMCPConfig(path string) (*mcpConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := &mcpConfig{root: make(map[string]any)}
	if err := json.Unmarshal(data, &c.root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.root == nil {
		c.root = make(map[string]any)
	}
	c.servers, _ = c.root["mcpServers"].(map[string]any)
	if c.servers == nil {
		c.servers = make(map[string]any)
	}
	return c, nil
}

func (c *mcpConfig) write(path string) error {
	c.root["mcpServers"] = c.servers
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	out, err := json.MarshalIndent(c.root, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// installEditorMCP upserts the server entry, keeping every other server.
// An unreadable config is replaced.
func installEditorMCP(binaryPath, configPath, editorName string, cfg installConfig) {
	if configPath == "" {
		return
	}
	fmt.Printf("[%s] MCP config: %s\n", editorName, configPath)

	if cfg.dryRun {
		fmt.Printf("  [dry-run] Would upsert %s in %s\n", mcpServerKey, configPath)
		return
	}

	c, err := readMCPConfig(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Printf("  ! %v, overwriting\n", err)
		}
		c = &mcpConfig{root: make(map[string]any), servers: make(map[string]any)}
	}
	c.servers[mcpServerKey] = serverEntry(binaryPath, cfg)

	if err := c.write(configPath); err != nil {
		fmt.Printf("  ! %v\n", err)
		return
	}
	fmt.Printf("  ok MCP server registered in %s\n", configPath)
}

// removeEditorMCP drops the server entry. Missing or unreadable configs and
// configs without the entry are left untouched.
func removeEditorMCP(configPath, editorName string, cfg installConfig) {
	if configPath == "" {
		return
	}
	c, err := readMCPConfig(configPath)
	if err != nil {
		return
	}
	if _, ok := c.servers[mcpServerKey]; !ok {
		return
	}
	fmt.Printf("[%s] MCP config: %s\n", editorName, configPath)

	if cfg.dryRun {
		fmt.Printf("  [dry-run] Would remove %s from %s\n", mcpServerKey, configPath)
		return
	}

	delete(c.servers, mcpServerKey)
	if err := c.write(configPath); err != nil {
		fmt.Printf("  ! %v\n", err)
		return
	}
	fmt.Printf("  ok Removed %s from %s\n", mcpServerKey, configPath)
}
