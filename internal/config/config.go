// Package config holds the run configuration: where organizations come
// from, how far back to search, the keyword rules, and the mail
// provider settings.  Values are layered defaults, then an optional
// YAML file, then JOBMAIL_* environment variables.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGmail = "gmail"
	ProviderIMAP  = "imap"
)

type Config struct {
	Organizations OrganizationsConfig `yaml:"organizations"`
	Search        SearchConfig        `yaml:"search"`
	Keywords      KeywordsConfig      `yaml:"keywords"`
	Report        ReportConfig        `yaml:"report"`
	Provider      string              `yaml:"provider"`
	Gmail         GmailConfig         `yaml:"gmail"`
	IMAP          IMAPConfig          `yaml:"imap"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// OrganizationsConfig locates the list of organizations to check.
type OrganizationsConfig struct {
	// Path to an .xlsx, .csv or SQLite file.
	Path string `yaml:"path"`

	// Column holding the organization names.
	Column string `yaml:"column"`

	// Spreadsheet sheet; the first sheet when empty.
	Sheet string `yaml:"sheet"`

	// SQLite table.
	Table string `yaml:"table"`
}

type SearchConfig struct {
	// How many days back to search.
	WindowDays int `yaml:"window_days"`

	// Upper bound on messages enriched per organization.
	MaxMessages int `yaml:"max_messages"`

	// Legal-entity words removed from names before searching.
	LegalSuffixes []string `yaml:"legal_suffixes"`
}

// KeywordsConfig is the categorization rule set.  All matching is on
// lower-cased text, so entries should be lower case.
type KeywordsConfig struct {
	Submission []string `yaml:"submission"`
	Interview  []string `yaml:"interview"`
	Rejection  []string `yaml:"rejection"`

	// Each group matches when every word in it occurs in the body.
	Acknowledgement [][]string `yaml:"acknowledgement"`

	// Words that, together with the organization name, mark a
	// message as application related.
	Related []string `yaml:"related"`
}

type ReportConfig struct {
	PreviewChars int `yaml:"preview_chars"`
	BodyChars    int `yaml:"body_chars"`
}

type GmailConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
}

type IMAPConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Mailbox  string `yaml:"mailbox"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load returns the defaults overridden by environment variables.
func Load() *Config {
	c := Default()
	c.applyEnvVars()
	return c
}

// LoadFromFile reads the YAML file at path over the defaults, then
// applies environment variables.  Keys absent from the file keep
// their defaults.
func LoadFromFile(path string) (*Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}

	c.applyEnvVars()
	return c, nil
}

// Validate reports settings that would make a run meaningless.
func (c *Config) Validate() error {
	if c.Organizations.Path == "" {
		return errors.New("no organizations file configured")
	}
	if c.Search.WindowDays < 0 {
		return errors.Errorf("search window must not be negative, got %d days", c.Search.WindowDays)
	}
	if c.Search.MaxMessages < 1 {
		return errors.Errorf("max messages must be at least 1, got %d", c.Search.MaxMessages)
	}
	switch c.Provider {
	case ProviderGmail:
	case ProviderIMAP:
		if c.IMAP.Addr == "" || c.IMAP.Username == "" {
			return errors.New("imap provider needs an address and a username")
		}
	default:
		return errors.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Organizations.Column = "Company_Name"
	c.Organizations.Table = "applications"

	c.Search.WindowDays = 30
	c.Search.MaxMessages = 5
	c.Search.LegalSuffixes = []string{
		"inc", "llc", "corp", "corporation", "ltd", "limited", "group",
	}

	c.Keywords = DefaultKeywords()

	c.Report.PreviewChars = 150
	c.Report.BodyChars = 500

	c.Provider = ProviderGmail
	c.Gmail.CredentialsFile = "credentials.json"
	c.Gmail.TokenFile = "token.json"
	c.IMAP.Mailbox = "INBOX"

	c.Logging.Level = "info"
}

func (c *Config) applyEnvVars() {
	if v := os.Getenv("JOBMAIL_ORGANIZATIONS"); v != "" {
		c.Organizations.Path = v
	}
	if v := os.Getenv("JOBMAIL_COLUMN"); v != "" {
		c.Organizations.Column = v
	}
	if v := os.Getenv("JOBMAIL_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.WindowDays = n
		}
	}
	if v := os.Getenv("JOBMAIL_MAX_MESSAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.MaxMessages = n
		}
	}
	if v := os.Getenv("JOBMAIL_PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("JOBMAIL_GMAIL_CREDENTIALS"); v != "" {
		c.Gmail.CredentialsFile = v
	}
	if v := os.Getenv("JOBMAIL_GMAIL_TOKEN"); v != "" {
		c.Gmail.TokenFile = v
	}
	if v := os.Getenv("JOBMAIL_IMAP_ADDR"); v != "" {
		c.IMAP.Addr = v
	}
	if v := os.Getenv("JOBMAIL_IMAP_USERNAME"); v != "" {
		c.IMAP.Username = v
	}
	if v := os.Getenv("JOBMAIL_IMAP_PASSWORD"); v != "" {
		c.IMAP.Password = v
	}
	if v := os.Getenv("JOBMAIL_IMAP_MAILBOX"); v != "" {
		c.IMAP.Mailbox = v
	}
	if v := os.Getenv("JOBMAIL_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}
