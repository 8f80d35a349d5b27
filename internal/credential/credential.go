// Package credential turns raw bot credentials into usable Slack bot tokens.
//
// A raw credential is either the token itself or an indirection of the form
// "env:NAME", resolved against the process environment each time it is used.
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	// EnvPrefix marks a credential that names an environment variable.
	EnvPrefix = "env:"

	// BotTokenPrefix is the shape every resolved secret must have.
	BotTokenPrefix = "xoxb-"
)

// ErrInvalidShape is returned when the resolved secret is not a bot token.
var ErrInvalidShape = errors.New("expected a Slack bot token starting with " + BotTokenPrefix)

// EnvVarMissingError is returned when an env: reference names an unset or
// empty variable.
type EnvVarMissingError struct {
	Name string
}

func (e *EnvVarMissingError) Error() string {
	return "env_var_missing:" + e.Name
}

// Ref is a classified raw credential: either Env or Direct.
type Ref interface {
	isRef()
}

// Env references an environment variable holding the secret.
type Env struct {
	Name string
}

// Direct carries the secret itself.
type Direct struct {
	Secret string
}

func (Env) isRef()    {}
func (Direct) isRef() {}

// Parse classifies a raw credential. It never fails; shape is checked on
// resolution.
func Parse(raw string) Ref {
	if name, ok := strings.CutPrefix(raw, EnvPrefix); ok {
		return Env{Name: name}
	}
	return Direct{Secret: raw}
}

// LookupFunc looks up an environment variable (os.LookupEnv by default).
type LookupFunc func(name string) (string, bool)

// Resolver resolves raw credentials. It performs no network I/O.
type Resolver struct {
	lookup LookupFunc
}

// NewResolver creates a resolver reading the process environment.
func NewResolver() *Resolver {
	return &Resolver{lookup: os.LookupEnv}
}

// NewResolverWithLookup creates a resolver with a custom environment lookup.
func NewResolverWithLookup(lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Resolver{lookup: lookup}
}

// Resolve returns the validated bot token for raw.
func (r *Resolver) Resolve(raw string) (string, error) {
	var secret string

	switch ref := Parse(raw).(type) {
	case Env:
		val, ok := r.lookup(ref.Name)
		if !ok || val == "" {
			return "", &EnvVarMissingError{Name: ref.Name}
		}
		secret = val
	case Direct:
		secret = ref.Secret
	default:
		return "", fmt.Errorf("unhandled credential reference %T", ref)
	}

	if !strings.HasPrefix(secret, BotTokenPrefix) {
		return "", ErrInvalidShape
	}
	return secret, nil
}

// Redact renders a credential for logs: env references are shown as-is,
// secrets keep their prefix and last four characters.
func Redact(raw string) string {
	if ref, ok := Parse(raw).(Env); ok {
		return EnvPrefix + ref.Name
	}
	if len(raw) <= len(BotTokenPrefix)+4 {
		return "***"
	}
	prefix := raw[:len(BotTokenPrefix)]
	return prefix + "***" + raw[len(raw)-4:]
}
