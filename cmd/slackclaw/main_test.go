package main

import (
	"testing"

	"github.com/alecthomas/kong"
)

func parse(t *testing.T, args ...string) (*CLI, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("slackclaw"), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}
	_, err = parser.Parse(args)
	return &cli, err
}

func TestParseServeFlags(t *testing.T) {
	cli, err := parse(t, "--config", "/tmp/x.toml", "serve", "--transport", "stdio", "--port", "9001", "--debug")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cli.Serve.Transport != "stdio" || cli.Serve.Port != 9001 || !cli.Debug || cli.Config != "/tmp/x.toml" {
		t.Errorf("unexpected parse: %+v", cli)
	}
}

func TestParseCommands(t *testing.T) {
	cli, err := parse(t, "check-token", "env:SLACK_BOT_TOKEN")
	if err != nil || cli.CheckToken.Credential != "env:SLACK_BOT_TOKEN" {
		t.Errorf("check-token: %v %+v", err, cli.CheckToken)
	}

	cli, err = parse(t, "hash-password")
	if err != nil || cli.HashPassword.Algo != "bcrypt" {
		t.Errorf("hash-password default algo: %v %q", err, cli.HashPassword.Algo)
	}

	if _, err := parse(t, "hash-password", "--algo", "md5"); err == nil {
		t.Error("unknown algo should be rejected")
	}
	if _, err := parse(t, "check-token"); err == nil {
		t.Error("check-token without credential should be rejected")
	}
}
