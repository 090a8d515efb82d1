// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// GamePlaceholder is substituted with the game name in Config.Route.
const GamePlaceholder = "{game}"

// HTTPConfig holds the transport settings used by the upload client.
type HTTPConfig struct {
	// Timeout is the request timeout. Zero means no timeout: a hung request
	// keeps the progress indicator visible until the context is cancelled.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with uploads (e.g. "refcard-panel/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries enables retrying on HTTP 429. Zero sends exactly one request.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// TrustPolicy selects how response markup reaches the results container.
type TrustPolicy string

const (
	// TrustTrusted injects the response body verbatim. The endpoint must be
	// trusted: any script in the body reaches the results container.
	TrustTrusted TrustPolicy = "trusted"

	// TrustSanitized strips active content before rendering.
	TrustSanitized TrustPolicy = "sanitized"
)

// PanelConfig holds settings shared by every panel instance.
type PanelConfig struct {
	// Trust selects the rendering policy for response markup.
	Trust TrustPolicy `json:"trust" yaml:"trust" mapstructure:"trust"`

	// OutDir is where generated cards are saved. Empty means results are
	// written to stdout only.
	OutDir string `json:"out_dir" yaml:"out_dir" mapstructure:"out_dir"`
}

// GameConfig names one game variant. Each game gets its own panel and endpoint.
type GameConfig struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`
}

// HistoryConfig controls the optional submission log.
type HistoryConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Dir     string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// LogConfig selects the developer log level and handler format.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings for the CLI.
type Config struct {
	// Server is the base URL of the conversion server.
	Server string `json:"server" yaml:"server" mapstructure:"server"`

	// Route is the endpoint template; GamePlaceholder is replaced per game.
	Route string `json:"route" yaml:"route" mapstructure:"route"`

	Games   []GameConfig  `json:"games" yaml:"games" mapstructure:"games"`
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Panel   PanelConfig   `json:"panel" yaml:"panel" mapstructure:"panel"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Server: "http://localhost:8080",
		Route:  "/api/" + GamePlaceholder,
		Games: []GameConfig{
			{Name: "fs2020", Description: "Microsoft Flight Simulator 2020"},
			{Name: "sws", Description: "Star Wars Squadrons"},
		},
		HTTP: HTTPConfig{
			UserAgent: "refcard-panel/0.1",
		},
		Panel: PanelConfig{
			Trust: TrustTrusted,
		},
		History: HistoryConfig{
			Dir: ".refcard",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration after it has been decoded.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server, validation.Required, is.URL),
		validation.Field(&c.Route,
			validation.Required,
			validation.By(func(v interface{}) error {
				if !strings.HasPrefix(v.(string), "/") {
					return fmt.Errorf("must start with /")
				}
				return nil
			}),
		),
		validation.Field(&c.Games, validation.Required),
		validation.Field(&c.HTTP),
		validation.Field(&c.Panel),
		validation.Field(&c.Log),
	)
}

// Validate checks a single game entry.
func (g GameConfig) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Name, validation.Required, is.Alphanumeric),
	)
}

// Validate checks the transport settings.
func (h HTTPConfig) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&h.MaxRetries, validation.Min(0)),
	)
}

// Validate checks the panel settings.
func (p PanelConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Trust, validation.In(TrustTrusted, TrustSanitized)),
	)
}

// Validate checks the log settings.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}

// Game returns the configured game with the given name.
func (c Config) Game(name string) (GameConfig, bool) {
	for _, g := range c.Games {
		if g.Name == name {
			return g, true
		}
	}
	return GameConfig{}, false
}

// Endpoint returns the upload endpoint for game.
func (c Config) Endpoint(game string) Endpoint {
	return Endpoint{Route: strings.ReplaceAll(c.Route, GamePlaceholder, game)}
}

// Endpoint is the single server route a panel submits to. It is bound when
// the panel is constructed and never changes.
type Endpoint struct {
	Route string `json:"route" yaml:"route"`
}

// URL resolves the route against the server base URL.
func (e Endpoint) URL(base string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing server URL %q: %w", base, err)
	}
	r, err := url.Parse(e.Route)
	if err != nil {
		return "", fmt.Errorf("parsing route %q: %w", e.Route, err)
	}
	return b.ResolveReference(r).String(), nil
}
