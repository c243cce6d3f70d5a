// cmd/parallel/main.go
//
// Entry point for the Parallel workspace client.
//
// Flow:
// 1. Resolve configuration (flags > environment > ~/.parallel/config.yaml)
// 2. Open the session logbook
// 3. Optionally log in with --email/--password
// 4. Run the TUI

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/parallelhq/parallel-cli/internal/api"
	"github.com/parallelhq/parallel-cli/internal/config"
	"github.com/parallelhq/parallel-cli/internal/logbook"
	"github.com/parallelhq/parallel-cli/internal/tui"
)

func main() {
	var (
		apiURL   string
		email    string
		password string
		mockRepo bool
	)
	flags := pflag.NewFlagSet("parallel", pflag.ContinueOnError)
	flags.StringVar(&apiURL, "api-url", "", "backend base URL (overrides config and PARALLEL_API_URL)")
	flags.StringVar(&email, "email", "", "log in with this email before starting")
	flags.StringVar(&password, "password", "", "password for --email")
	flags.BoolVar(&mockRepo, "mock-repo", false, "start with the mock GitHub repository enabled")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "parallel: %v\n", err)
		os.Exit(2)
	}

	homeDir, err := config.DefaultHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "parallel: %v\n", err)
		os.Exit(1)
	}
	if err := config.InitParallelDir(homeDir); err != nil {
		fmt.Fprintf(os.Stderr, "parallel: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(homeDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parallel: %v\n", err)
		os.Exit(1)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "parallel: %v\n", err)
		os.Exit(1)
	}
	defer lb.Close()
	lb.Info("client starting · api %s", cfg.APIURL)

	client := api.New(cfg.APIURL, api.WithLogger(lb))

	if mockRepo {
		api.EnableMockRepo()
		lb.Info("mock repository enabled by flag")
	}

	if email != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := client.Login(ctx, email, password)
		cancel()
		if err != nil {
			// Not fatal: the client still runs against fallback data.
			fmt.Fprintf(os.Stderr, "parallel: login failed: %v (continuing offline)\n", err)
			lb.Warn("login failed: %v", err)
		} else {
			lb.Info("logged in as %s", email)
		}
	}

	app := tui.NewApp(cfg, client, lb)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "parallel: %v\n", err)
		os.Exit(1)
	}
	app.Teardown()
}
