package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/agent-racer/authsync/internal/app"
	"github.com/agent-racer/authsync/internal/config"
	"github.com/agent-racer/authsync/internal/lifecycle"
	"github.com/agent-racer/authsync/internal/scope"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfgPath := flag.String("config", "authsync.yaml", "Path to the YAML config (missing file means defaults)")
	logPath := flag.String("log", "", "Write debug logs to this file")
	user := flag.String("user", os.Getenv("USER"), "Name used when signing in")
	flag.Parse()

	if err := run(*cfgPath, *logPath, *user); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, logPath, user string) error {
	// The alternate screen owns stdout, so logs go to a file or nowhere.
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "authsync")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	mem := cfg.NewClient()
	src := lifecycle.NewManual()
	defer src.Close()

	sc, err := scope.New(mem, src, cfg.ScopeOptions()...)
	if err != nil {
		return fmt.Errorf("start auth scope: %w", err)
	}
	defer sc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []app.Option{app.WithRedactor(cfg.Display.Redactor())}
	if user != "" {
		opts = append(opts, app.WithUser(user))
	}
	if w, err := config.Watch(ctx, cfgPath, config.DefaultDebounce); err != nil {
		log.Printf("config hot reload disabled: %v", err)
	} else {
		defer w.Close()
		opts = append(opts, app.WithConfigChanges(w.Changes()))
	}

	m := app.New(sc, mem, src, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
