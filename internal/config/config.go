package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("hotel-console version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Endpoints      EndpointsConfig `mapstructure:"endpoints"`
	OAuth          OAuthConfig     `mapstructure:"oauth"`
	Logging        LoggingConfig   `mapstructure:"logging"`
	UI             UIConfig        `mapstructure:"ui"`
	RequestTimeout time.Duration   `mapstructure:"request_timeout"`
	// LandingURL seeds the console's location, the way a browser lands on the
	// OAuth2 callback route after the provider redirect.
	LandingURL string `mapstructure:"landing_url"`
}

// EndpointsConfig holds the base URLs of every backend the console talks to.
type EndpointsConfig struct {
	Auth         EndpointConfig `mapstructure:"auth"`
	Hotels       EndpointConfig `mapstructure:"hotels"`
	Rooms        EndpointConfig `mapstructure:"rooms"`
	Bookings     EndpointConfig `mapstructure:"bookings"`
	Availability EndpointConfig `mapstructure:"availability"`
}

type EndpointConfig struct {
	BaseURL string            `json:"base_url" mapstructure:"base_url"`
	Headers map[string]string `json:"headers" mapstructure:"headers"`
}

type OAuthConfig struct {
	Provider string `mapstructure:"provider"` // only google is served by the auth service today
	// CallbackURL is where the auth service sends the browser back to.
	// The loopback listener binds its host and path.
	CallbackURL     string `mapstructure:"callback_url"`
	DisableListener bool   `mapstructure:"disable_listener"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	Color             bool   `mapstructure:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

type UIConfig struct {
	DefaultView string `mapstructure:"default_view"`
	AltScreen   bool   `mapstructure:"alt_screen"`
}

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultAuthBaseURL    = "http://localhost:8080/api/v1"
	DefaultCallbackURL    = "http://localhost:5173/auth/callback"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoints.auth.base_url", DefaultAuthBaseURL)
	v.SetDefault("endpoints.hotels.base_url", "http://localhost:8082/api/hotels")
	v.SetDefault("endpoints.rooms.base_url", "http://localhost:8083/api/rooms")
	v.SetDefault("endpoints.bookings.base_url", "http://localhost:8084/api/bookings")
	v.SetDefault("endpoints.availability.base_url", "http://localhost:8084/api/availability")

	v.SetDefault("oauth.provider", "google")
	v.SetDefault("oauth.callback_url", DefaultCallbackURL)

	v.SetDefault("request_timeout", DefaultRequestTimeout)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_path", "hotel-console.log")
	v.SetDefault("logging.append_to_file", true)
	// the TUI owns stdout
	v.SetDefault("logging.disable_console", true)

	v.SetDefault("ui.default_view", "hotels")
	v.SetDefault("ui.alt_screen", true)
}

// InitFlags registers the flags Load understands on the given flag set.
func InitFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to a config file (default ./config.yaml or /etc/hotel-console/config.yaml)")
	flags.String("landing-url", "", "URL the console starts on, e.g. an OAuth2 callback URL with its query string")
	flags.String("view", "", "Initial view once signed in")
	flags.Bool("no-listener", false, "Do not start the loopback OAuth2 callback listener")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
}

// Load reads configuration from defaults, an optional YAML file, HOTEL_CONSOLE_*
// environment variables and the flags registered by InitFlags, in increasing priority.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HOTEL_CONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configFile := ""
	if flags != nil {
		configFile, _ = flags.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/hotel-console")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config must exist, the search paths are optional
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if flags != nil {
		applyFlags(&cfg, flags)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyFlags(cfg *Config, flags *pflag.FlagSet) {
	if landing, _ := flags.GetString("landing-url"); landing != "" {
		cfg.LandingURL = landing
	}
	if view, _ := flags.GetString("view"); view != "" {
		cfg.UI.DefaultView = view
	}
	if noListener, _ := flags.GetBool("no-listener"); noListener {
		cfg.OAuth.DisableListener = true
	}
	if level, _ := flags.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
}

// Validate checks that every URL the console depends on parses as absolute.
func (c *Config) Validate() error {
	urls := map[string]string{
		"endpoints.auth.base_url":         c.Endpoints.Auth.BaseURL,
		"endpoints.hotels.base_url":       c.Endpoints.Hotels.BaseURL,
		"endpoints.rooms.base_url":        c.Endpoints.Rooms.BaseURL,
		"endpoints.bookings.base_url":     c.Endpoints.Bookings.BaseURL,
		"endpoints.availability.base_url": c.Endpoints.Availability.BaseURL,
		"oauth.callback_url":              c.OAuth.CallbackURL,
	}
	for key, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q, please adjust the config or set HOTEL_CONSOLE_%s", key, raw, envName(key))
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

func envName(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}
