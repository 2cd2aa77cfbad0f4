// Package web parses web command configuration and launches the service.
package web

import (
	"context"
	"flag"
	"fmt"
	"strings"

	entrypoint "github.com/sazzer/newlanding/internal/platform/cmd"
	"github.com/sazzer/newlanding/internal/services/web"
)

// Version is the build version reported by the API, set at link time with
// -ldflags "-X github.com/sazzer/newlanding/internal/cmd/web.Version=v1.2.3".
var Version = "dev"

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string `env:"NEWLANDING_WEB_HTTP_ADDR" envDefault:"localhost:8000"`
	PublicURL           string `env:"NEWLANDING_WEB_PUBLIC_URL" envDefault:"http://localhost:8000"`
	SessionDBPath       string `env:"NEWLANDING_WEB_SESSION_DB"`
	TrustForwardedProto bool   `env:"NEWLANDING_WEB_TRUST_FORWARDED_PROTO" envDefault:"false"`

	AppName string `env:"NEWLANDING_WEB_APP_NAME" envDefault:"newlanding"`
	// AppVersion overrides the link-time Version when set.
	AppVersion string `env:"NEWLANDING_WEB_APP_VERSION"`

	Auth0Domain       string `env:"AUTH0_DOMAIN"`
	Auth0ClientID     string `env:"AUTH0_CLIENTID"`
	Auth0Audience     string `env:"AUTH0_AUDIENCE"`
	Auth0ClientSecret string `env:"AUTH0_CLIENT_SECRET"`
}

// ParseConfig parses the process environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := bindFlags(fs, &cfg); err != nil {
		return Config{}, err
	}
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg.withBuildVersion(), nil
}

// ParseConfigWithEnv parses an explicit environment map and flags into Config.
func ParseConfigWithEnv(fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	var cfg Config
	if err := bindFlags(fs, &cfg); err != nil {
		return Config{}, err
	}
	if err := entrypoint.ParseConfigMapFromArgs(&cfg, environ, fs, args); err != nil {
		return Config{}, err
	}
	return cfg.withBuildVersion(), nil
}

// bindFlags registers the command flags on cfg. Values left unset on the
// command line keep what the environment provides.
func bindFlags(fs *flag.FlagSet, cfg *Config) error {
	if fs == nil {
		return fmt.Errorf("flag parser is required")
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", "", "HTTP listen address (NEWLANDING_WEB_HTTP_ADDR)")
	fs.StringVar(&cfg.PublicURL, "public-url", "", "Externally visible base URL used for the login callback (NEWLANDING_WEB_PUBLIC_URL)")
	fs.StringVar(&cfg.SessionDBPath, "session-db", "", "SQLite session database path, empty keeps sessions in memory (NEWLANDING_WEB_SESSION_DB)")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", false, "Honor X-Forwarded-Proto from a reverse proxy (NEWLANDING_WEB_TRUST_FORWARDED_PROTO)")
	return nil
}

func (c Config) withBuildVersion() Config {
	if strings.TrimSpace(c.AppVersion) == "" {
		c.AppVersion = Version
	}
	return c
}

// Validate reports every required identity provider setting that is missing.
func (c Config) Validate() error {
	var missing []string
	for _, required := range []struct {
		name  string
		value string
	}{
		{name: "AUTH0_DOMAIN", value: c.Auth0Domain},
		{name: "AUTH0_CLIENTID", value: c.Auth0ClientID},
		{name: "AUTH0_AUDIENCE", value: c.Auth0Audience},
	} {
		if strings.TrimSpace(required.value) == "" {
			missing = append(missing, required.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, cfg.serverConfig())
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}

func (c Config) serverConfig() web.Config {
	return web.Config{
		HTTPAddr:            c.HTTPAddr,
		PublicURL:           c.PublicURL,
		Auth0Domain:         c.Auth0Domain,
		Auth0ClientID:       c.Auth0ClientID,
		Auth0ClientSecret:   c.Auth0ClientSecret,
		Auth0Audience:       c.Auth0Audience,
		SessionDBPath:       c.SessionDBPath,
		TrustForwardedProto: c.TrustForwardedProto,
		AppName:             c.AppName,
		AppVersion:          c.AppVersion,
	}
}
