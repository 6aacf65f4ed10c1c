// Package config loads the watcher configuration from a YAML file, with
// environment overrides for the SMTP settings so credentials can stay out
// of the file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// SLOTWATCH_SMTP_PASSWORD.
const EnvPrefix = "slotwatch"

// Duration wraps time.Duration so YAML values can be written as "15m".
type Duration time.Duration

// UnmarshalYAML decodes a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// SMTPConfig holds the mail transport settings. Every field can be
// overridden from the environment.
type SMTPConfig struct {
	Host     string `yaml:"host" envconfig:"SMTP_HOST"`
	Port     int    `yaml:"port" envconfig:"SMTP_PORT"`
	Username string `yaml:"username" envconfig:"SMTP_USERNAME"`
	Password string `yaml:"password" envconfig:"SMTP_PASSWORD"`
}

// MailConfig holds sender and recipients.
type MailConfig struct {
	From string   `yaml:"from"`
	To   []string `yaml:"to"`
}

// Config is the full watcher configuration.
type Config struct {
	// BaseURL is the calendar URL prefix; the target date is appended.
	BaseURL string `yaml:"base_url"`
	// Marker is the anchor text meaning "slot available".
	Marker string `yaml:"marker"`
	// Selector is the CSS selector for booking links.
	Selector string `yaml:"selector"`
	// Weekdays are the days to watch, by English name.
	Weekdays []string `yaml:"weekdays"`

	Interval     Duration `yaml:"interval"`
	FetchTimeout Duration `yaml:"fetch_timeout"`
	Database     string   `yaml:"database"`
	// Debug suppresses mail dispatch, logging the message instead.
	Debug bool `yaml:"debug"`

	// Courts maps court numbers to their people capacity.
	Courts map[int]int `yaml:"courts"`

	SMTP SMTPConfig `yaml:"smtp"`
	Mail MailConfig `yaml:"mail"`
}

// defaults mirror the reference deployment.
func defaults() *Config {
	return &Config{
		Marker:       "frei",
		Selector:     "td > a",
		Weekdays:     []string{"Friday", "Saturday", "Sunday"},
		Interval:     Duration(15 * time.Minute),
		FetchTimeout: Duration(30 * time.Second),
		Database:     "data/slots.db",
		Courts:       map[int]int{1: 10, 2: 10, 3: 10, 4: 10, 5: 8},
		SMTP:         SMTPConfig{Port: 587},
	}
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg.SMTP); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if _, err := c.WeekdayList(); err != nil {
		return err
	}
	if c.Debug {
		return nil
	}
	if c.SMTP.Host == "" {
		return fmt.Errorf("smtp.host is required unless debug is set")
	}
	if c.Mail.From == "" || len(c.Mail.To) == 0 {
		return fmt.Errorf("mail.from and mail.to are required unless debug is set")
	}
	return nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekdayList resolves the configured weekday names.
func (c *Config) WeekdayList() ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(c.Weekdays))
	for _, name := range c.Weekdays {
		wd, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		days = append(days, wd)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("at least one weekday is required")
	}
	return days, nil
}
