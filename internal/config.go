package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/scribe/internal/models"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Editor    EditorConfig      `yaml:"editor"`
	Workspace WorkspaceConfig   `yaml:"workspace"`
	Catalog   CatalogConfig     `yaml:"catalog"`
	Events    EventsConfig      `yaml:"events"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Editor.Validate(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if err := c.Workspace.Validate(); err != nil {
		return fmt.Errorf("workspace: %w", err)
	}
	if err := c.Catalog.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// EditorConfig holds the limits of the editing core.
type EditorConfig struct {
	HistoryLimit      int         `yaml:"history_limit"`
	RecentLimit       int         `yaml:"recent_limit"`
	ClipboardCapacity int         `yaml:"clipboard_capacity"`
	DefaultKind       models.Kind `yaml:"default_kind"`
	MinPasswordLength int         `yaml:"min_password_length"`
}

// Validate validates the editor configuration.
func (c *EditorConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HistoryLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.RecentLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.ClipboardCapacity, validation.Required, validation.Min(1)),
		validation.Field(&c.DefaultKind, validation.Required,
			validation.In(models.KindPlain, models.KindMarkdown, models.KindCode)),
		validation.Field(&c.MinPasswordLength, validation.Required, validation.Min(1)),
	)
}

// WorkspaceConfig holds the directory documents are opened from and saved to.
type WorkspaceConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the workspace configuration.
func (c *WorkspaceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CatalogConfig holds the SQLite DSN of the search catalog. The default keeps
// it in memory for the lifetime of the process.
type CatalogConfig struct {
	DSN string `yaml:"dsn"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DSN, validation.Required),
	)
}

// EventsConfig holds SSE settings.
type EventsConfig struct {
	SaveIndicator time.Duration `yaml:"save_indicator"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SaveIndicator, validation.Required, validation.Min(100*time.Millisecond)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Editor: EditorConfig{
			HistoryLimit:      50,
			RecentLimit:       10,
			ClipboardCapacity: 20,
			DefaultKind:       models.KindPlain,
			MinPasswordLength: 4,
		},
		Workspace: WorkspaceConfig{
			Path: "./workspace",
		},
		Catalog: CatalogConfig{
			DSN: "file:scribe?mode=memory&cache=shared",
		},
		Events: EventsConfig{
			SaveIndicator: 2 * time.Second,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
