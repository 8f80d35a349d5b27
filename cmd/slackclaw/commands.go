package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/roelfdiedericks/slackclaw/internal/config"
	"github.com/roelfdiedericks/slackclaw/internal/credential"
	"github.com/roelfdiedericks/slackclaw/internal/gateway"
	"github.com/roelfdiedericks/slackclaw/internal/paths"
	"github.com/roelfdiedericks/slackclaw/internal/user"
)

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Printf("slackclaw %s\n", version)
	return nil
}

// HashPasswordCmd prints a password hash for auth.passwordHash.
type HashPasswordCmd struct {
	Algo string `help:"Hash algorithm." enum:"bcrypt,argon2id" default:"bcrypt"`
}

func (c *HashPasswordCmd) Run(g *Globals) error {
	password, err := readPassword()
	if err != nil {
		return err
	}
	hash, err := user.HashPassword(password, c.Algo)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

// readPassword prompts twice without echo on a terminal, or reads one line
// from piped stdin.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(os.Stderr, "Confirm: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

// CheckTokenCmd verifies a credential against the Slack API.
type CheckTokenCmd struct {
	Credential string `arg:"" help:"Bot token (xoxb-...) or env:VAR_NAME."`
}

func (c *CheckTokenCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	setupLogging(cfg, g.Debug)

	secret, err := credential.NewResolver().Resolve(c.Credential)
	if err != nil {
		return fmt.Errorf("credential %s: %w", credential.Redact(c.Credential), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	gw := gateway.NewSlack(secret, gateway.SlackOptions{APIURL: cfg.Slack.APIURL, Timeout: cfg.Timeout()})
	info, err := gw.AuthTest(ctx)
	if err != nil {
		return fmt.Errorf("auth.test: %w", err)
	}

	fmt.Printf("team:    %s (%s)\n", info.Team, info.TeamID)
	fmt.Printf("bot:     %s (user %s, bot %s)\n", info.User, info.UserID, info.BotID)
	fmt.Printf("url:     %s\n", info.URL)
	return nil
}

// InitConfigCmd writes the default configuration.
type InitConfigCmd struct {
	Path  string `arg:"" optional:"" help:"Destination (default ~/.slackclaw/slackclaw.json); extension selects the format."`
	Force bool   `help:"Overwrite an existing file."`
}

func (c *InitConfigCmd) Run(g *Globals) error {
	path := c.Path
	if path == "" {
		p, err := paths.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := config.Save(path, config.Default(), c.Force); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
