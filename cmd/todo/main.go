package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/idilsaglam/todosync/internal/cli"
	"github.com/idilsaglam/todosync/internal/config"
	"github.com/idilsaglam/todosync/internal/logging"
	"github.com/idilsaglam/todosync/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "config file (default ~/.todo/config.toml)")
	var o config.Overrides
	flag.StringVar(&o.BaseURL, "base-url", "", "todo service root URL")
	flag.StringVar(&o.Layout, "layout", "", "inline, modal or table")
	flag.StringVar(&o.Theme, "theme", "", "classic, neon or mono")
	flag.StringVar(&o.OnFailure, "on-failure", "", "keep or refetch after a failed edit/delete")
	flag.StringVar(&o.LogFile, "log-file", "", `log file, "-" for stderr`)
	flag.StringVar(&o.LogLevel, "log-level", "", "debug, info, warn or error")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	os.Exit(run(*configPath, o, flag.Args()))
}

func run(configPath string, o config.Overrides, args []string) int {
	p := ui.Stdio()

	cfg, err := config.Load(configPath, o)
	if err != nil {
		p.Fail(err.Error())
		return 2
	}
	ui.SetTheme(cfg.Theme)

	logger, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		p.Fail(err.Error())
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("starting",
		zap.Strings("args", args),
		zap.String("base_url", cfg.BaseURL),
		zap.String("config", cfg.Path),
	)

	code := cli.Run(ctx, args, cli.Options{
		Config:     cfg,
		Logger:     logger,
		ConfigPath: configPath,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
