package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/kubev2v/vcenter-toolkit/internal/util"
)

const (
	// CredentialsFile is the name of the file holding saved vCenter credentials.
	CredentialsFile = "credentials.json"
	// DefaultConfigDir is where vcops keeps its credentials and audit history.
	DefaultConfigDir = ".vcops"
	// DefaultHistoryDB is the SQLite file holding saved audit runs.
	DefaultHistoryDB = "history.db"
	// DefaultTaskTimeout bounds power transitions and reconfigure tasks.
	DefaultTaskTimeout = 5 * time.Minute
	// DefaultPollInterval is the base interval for power-state polling.
	DefaultPollInterval = 2 * time.Second
)

var singleConfig *Config = nil

// Config carries the environment-driven settings shared by every command.
// Flags override these values per invocation.
type Config struct {
	URL      string `envconfig:"VCOPS_URL" default:""`
	Username string `envconfig:"VCOPS_USERNAME" default:""`
	Password string `envconfig:"VCOPS_PASSWORD" default:""`
	Insecure bool   `envconfig:"VCOPS_INSECURE" default:"false"`
	LogLevel string `envconfig:"VCOPS_LOG_LEVEL" default:"info"`

	ConfigDir    string        `envconfig:"VCOPS_CONFIG_DIR" default:""`
	TaskTimeout  time.Duration `envconfig:"VCOPS_TASK_TIMEOUT" default:"5m"`
	PollInterval time.Duration `envconfig:"VCOPS_POLL_INTERVAL" default:"2s"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
		if singleConfig.ConfigDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				home = util.GetEnv("HOME", ".")
			}
			singleConfig.ConfigDir = filepath.Join(home, DefaultConfigDir)
		}
	}
	return singleConfig, nil
}

// Credentials is the on-disk shape of a saved vCenter login.
type Credentials struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Insecure bool   `json:"insecure,omitempty"`
}

// Validate checks the credentials are complete enough to attempt a login.
func (c *Credentials) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("no vCenter URL provided (flag --url, env VCOPS_URL or %s)", CredentialsFile)
	}
	if _, err := url.Parse(c.URL); err != nil {
		return fmt.Errorf("invalid vCenter URL %q: %w", c.URL, err)
	}
	if c.Username == "" {
		return fmt.Errorf("no username provided")
	}
	if c.Password == "" {
		return fmt.Errorf("no password provided")
	}
	return nil
}

// CredentialsPath returns the path of the saved credentials file.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.ConfigDir, CredentialsFile)
}

// HistoryDBPath returns the path of the audit history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.ConfigDir, DefaultHistoryDB)
}

// LoadCredentials reads saved credentials from the config dir. A missing file
// is returned as os.ErrNotExist for callers that treat it as optional.
func (c *Config) LoadCredentials() (*Credentials, error) {
	data, err := os.ReadFile(c.CredentialsPath())
	if err != nil {
		return nil, err
	}
	creds := &Credentials{}
	if err := json.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", c.CredentialsPath(), err)
	}
	return creds, nil
}

// SaveCredentials persists credentials to the config dir, creating it when
// needed. The file is written user-readable only.
func (c *Config) SaveCredentials(creds *Credentials) error {
	if err := os.MkdirAll(c.ConfigDir, 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.CredentialsPath(), data, 0o600)
}
