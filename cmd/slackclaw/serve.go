package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roelfdiedericks/slackclaw/internal/config"
	"github.com/roelfdiedericks/slackclaw/internal/credential"
	"github.com/roelfdiedericks/slackclaw/internal/gateway"
	httpserver "github.com/roelfdiedericks/slackclaw/internal/http"
	. "github.com/roelfdiedericks/slackclaw/internal/logging"
	"github.com/roelfdiedericks/slackclaw/internal/mcpserver"
	"github.com/roelfdiedericks/slackclaw/internal/metrics"
	"github.com/roelfdiedericks/slackclaw/internal/session"
	"github.com/roelfdiedericks/slackclaw/internal/tools"
	"github.com/roelfdiedericks/slackclaw/internal/user"
)

// ServeCmd runs the tool server.
type ServeCmd struct {
	Transport string `help:"Transport: http or stdio (overrides config)."`
	Host      string `help:"Listen host (overrides config)."`
	Port      int    `help:"Listen port (overrides config)."`
	LogLevel  string `help:"Log level: trace, debug, info, warn, error."`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if c.Transport != "" {
		cfg.Server.Transport = c.Transport
	}
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	setupLogging(cfg, g.Debug)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore()
	m := metrics.New()
	m.TrackSessions(store.Len)

	svc := tools.NewService(tools.Deps{
		Sessions:    store,
		Credentials: credential.NewResolver(),
		Dial: gateway.SlackFactory(gateway.SlackOptions{
			APIURL:  cfg.Slack.APIURL,
			Timeout: cfg.Timeout(),
		}),
		Metrics: m,
		Options: tools.Options{
			DefaultReply:     cfg.Slack.DefaultReply,
			ScanLimit:        cfg.Slack.AutoReplyScanLimit,
			ProbeConcurrency: cfg.Slack.ProbeConcurrency,
		},
	})
	reg := tools.NewRegistry()
	tools.RegisterDefaults(reg, svc)

	mcpSrv := mcpserver.New(mcpserver.Config{Version: version}, reg)

	L_info("slackclaw %s starting", version)

	if cfg.Server.Transport == config.TransportStdio {
		return mcpSrv.RunStdio(ctx)
	}

	srv, err := httpserver.NewServer(&httpserver.ServerConfig{
		Listen:  cfg.Listen(),
		MCPPath: cfg.Server.MCPPath,
		Auth:    user.NewCredentials(cfg.Auth.Username, cfg.Auth.PasswordHash),
	}, httpserver.Deps{
		Tools:    reg,
		MCP:      mcpSrv.Handler(),
		Metrics:  m.Handler(),
		Sessions: store.Len,
	})
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}
	L_info("slackclaw ready", "url", "http://"+srv.Addr()+cfg.Server.MCPPath)

	<-ctx.Done()
	SetShuttingDown()
	L_info("slackclaw shutting down", "sessions", store.Len())
	return srv.Stop()
}

func loadConfig(g *Globals) (*config.Config, error) {
	cfg, path, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if path != "" {
		L_debug("config: using file", "path", path)
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config, debug bool) {
	level := ParseLevel(cfg.Logging.Level)
	if debug && level < LevelDebug {
		level = LevelDebug
	}
	Init(&Config{
		Level:      level,
		TimeFormat: "15:04:05",
		ShowCaller: cfg.Logging.Caller,
		Output:     os.Stderr,
	})
}
