// Package config loads harness settings from an optional TOML file, .env and
// HARNESS_* environment variables, in that order of precedence (last wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/infrastructure/browser"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration that decodes from strings like "500ms"
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds everything needed to open a session and drive widgets
type Config struct {
	Driver            string `toml:"driver" validate:"required,oneof=playwright chromedp rod selenium simulated"`
	BaseURL           string `toml:"base_url" validate:"omitempty,url"`
	Headless          bool   `toml:"headless"`
	SelectorAttribute string `toml:"selector_attribute" validate:"required"`
	ViewportWidth     int    `toml:"viewport_width" validate:"gte=0"`
	ViewportHeight    int    `toml:"viewport_height" validate:"gte=0"`

	WaitTimeout  Duration `toml:"wait_timeout" validate:"gte=0"`
	TypeSettle   Duration `toml:"type_settle" validate:"gte=0"`
	SelectSettle Duration `toml:"select_settle" validate:"gte=0"`
	SelectPause  Duration `toml:"select_pause" validate:"gte=0"`
	CancelPause  Duration `toml:"cancel_pause" validate:"gte=0"`
	ResetPause   Duration `toml:"reset_pause" validate:"gte=0"`
	PollInterval Duration `toml:"poll_interval" validate:"gte=0"`

	// ActionTimeout bounds the visibility wait before click and type,
	// NavigationTimeout bounds page loads
	ActionTimeout     Duration `toml:"action_timeout" validate:"gte=0"`
	NavigationTimeout Duration `toml:"navigation_timeout" validate:"gte=0"`

	JournalDir       string `toml:"journal_dir"`
	ChromeDriverPath string `toml:"chromedriver_path"`
	ChromeBinaryPath string `toml:"chrome_binary_path"`
	ChromeDriverPort int    `toml:"chromedriver_port" validate:"gte=0,lte=65535"`

	LogLevel string `toml:"log_level" validate:"oneof=trace debug info warn error"`
}

// Default - returns a config for a headless playwright session
func Default() *Config {
	t := entities.DefaultTimings()
	opts := browser.DefaultOptions()
	return &Config{
		Driver:            browser.BackendPlaywright,
		Headless:          true,
		SelectorAttribute: entities.DefaultSelectorAttribute,
		ViewportWidth:     1280,
		ViewportHeight:    720,
		WaitTimeout:       Duration(t.WaitTimeout),
		TypeSettle:        Duration(t.TypeSettle),
		SelectSettle:      Duration(t.SelectSettle),
		SelectPause:       Duration(t.SelectPause),
		CancelPause:       Duration(t.CancelPause),
		ResetPause:        Duration(t.ResetPause),
		ActionTimeout:     Duration(opts.ActionTimeout),
		NavigationTimeout: Duration(opts.NavigationTimeout),
		ChromeDriverPort:  opts.ChromeDriverPort,
		LogLevel:          "info",
	}
}

// Load - builds config from defaults, the TOML file at path (optional), .env and the environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"HARNESS_DRIVER":             &c.Driver,
		"HARNESS_BASE_URL":           &c.BaseURL,
		"HARNESS_SELECTOR_ATTRIBUTE": &c.SelectorAttribute,
		"HARNESS_JOURNAL_DIR":        &c.JournalDir,
		"HARNESS_CHROMEDRIVER_PATH":  &c.ChromeDriverPath,
		"HARNESS_CHROME_BINARY_PATH": &c.ChromeBinaryPath,
		"HARNESS_LOG_LEVEL":          &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("HARNESS_HEADLESS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HARNESS_HEADLESS: %w", err)
		}
		c.Headless = b
	}

	ints := map[string]*int{
		"HARNESS_VIEWPORT_WIDTH":    &c.ViewportWidth,
		"HARNESS_VIEWPORT_HEIGHT":   &c.ViewportHeight,
		"HARNESS_CHROMEDRIVER_PORT": &c.ChromeDriverPort,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	durations := map[string]*Duration{
		"HARNESS_WAIT_TIMEOUT":  &c.WaitTimeout,
		"HARNESS_TYPE_SETTLE":   &c.TypeSettle,
		"HARNESS_SELECT_SETTLE": &c.SelectSettle,
		"HARNESS_SELECT_PAUSE":  &c.SelectPause,
		"HARNESS_CANCEL_PAUSE":  &c.CancelPause,
		"HARNESS_RESET_PAUSE":   &c.ResetPause,
		"HARNESS_POLL_INTERVAL": &c.PollInterval,

		"HARNESS_ACTION_TIMEOUT":     &c.ActionTimeout,
		"HARNESS_NAVIGATION_TIMEOUT": &c.NavigationTimeout,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(key); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	return nil
}

// Validate - checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Timings - returns the harness timings
func (c *Config) Timings() entities.Timings {
	return entities.Timings{
		TypeSettle:   time.Duration(c.TypeSettle),
		SelectSettle: time.Duration(c.SelectSettle),
		SelectPause:  time.Duration(c.SelectPause),
		CancelPause:  time.Duration(c.CancelPause),
		ResetPause:   time.Duration(c.ResetPause),
		WaitTimeout:  time.Duration(c.WaitTimeout),
		PollInterval: time.Duration(c.PollInterval),
	}.WithDefaults()
}

// BrowserOptions - returns options for browser.NewSession
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Headless:          c.Headless,
		ViewportWidth:     c.ViewportWidth,
		ViewportHeight:    c.ViewportHeight,
		SelectorAttribute: c.SelectorAttribute,
		ActionTimeout:     time.Duration(c.ActionTimeout),
		NavigationTimeout: time.Duration(c.NavigationTimeout),
		ChromeDriverPath:  c.ChromeDriverPath,
		ChromeBinaryPath:  c.ChromeBinaryPath,
		ChromeDriverPort:  c.ChromeDriverPort,
	}
}
