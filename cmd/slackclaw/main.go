package main

import (
	"github.com/alecthomas/kong"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

// Globals are flags shared by every command.
type Globals struct {
	Config string `help:"Path to config file (.json, .toml or .yaml)." type:"path" short:"c"`
	Debug  bool   `help:"Enable debug logging."`
}

// CLI is the command tree.
type CLI struct {
	Globals

	Serve        ServeCmd        `cmd:"" default:"withargs" help:"Serve the Slack tools over MCP (default command)."`
	Version      VersionCmd      `cmd:"" help:"Print the version."`
	HashPassword HashPasswordCmd `cmd:"" help:"Hash a password for auth.passwordHash."`
	CheckToken   CheckTokenCmd   `cmd:"" help:"Resolve a bot credential and verify it with auth.test."`
	InitConfig   InitConfigCmd   `cmd:"" help:"Write a config file with the built-in defaults."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("slackclaw"),
		kong.Description("Slack bot tools for MCP agents."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
