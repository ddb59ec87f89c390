package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

const (
	configFileName = ".notion2gcal.toml"
	defaultKeyFile = "config.txt"
	defaultDBFile  = ".notion2gcal.db"

	keyNotionAPI  = "NOTION_API"
	keyDatabaseID = "DATABASE_ID"
	keyScopes     = "SCOPES"
)

type Config struct {
	General GeneralConfig `toml:"general"`
	Google  GoogleConfig  `toml:"google"`
	Notion  NotionConfig  `toml:"notion"`
	CalDAV  CalDAVConfig  `toml:"caldav"`

	// Dir is where the settings file was found; the key file, the
	// database and credentials.json are resolved against it.
	Dir string `toml:"-"`
}

type GeneralConfig struct {
	Provider       string `toml:"provider"`
	CalendarID     string `toml:"calendar_id"`
	MaxResults     int64  `toml:"max_results"`
	LookbackDays   int    `toml:"lookback_days"`
	RetryAttempts  int    `toml:"retry_attempts"`
	RetryDelay     string `toml:"retry_delay"`
	VerbosityLevel int    `toml:"verbosity_level"`
	LogFile        string `toml:"log_file"`
	KeyFile        string `toml:"key_file"`
	Database       string `toml:"database"`

	// RequestsPerSecond caps calendar API calls; 0 disables the limit.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

type GoogleConfig struct {
	Account         string `toml:"account"`
	ClientID        string `toml:"client_id"`
	ClientSecret    string `toml:"client_secret"`
	CredentialsFile string `toml:"credentials_file"`
}

type NotionConfig struct {
	TitleProperty string `toml:"title_property"`
	DateProperty  string `toml:"date_property"`
	PageSize      int    `toml:"page_size"`
}

type CalDAVConfig struct {
	ServerURL string `toml:"server_url"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

func defaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			Provider:       "google",
			CalendarID:     "primary",
			MaxResults:     50,
			RetryAttempts:  3,
			RetryDelay:     "5s",
			VerbosityLevel: 2,
			KeyFile:        defaultKeyFile,
			Database:       defaultDBFile,

			RequestsPerSecond: 5,
		},
		Google: GoogleConfig{
			Account:         "default",
			CredentialsFile: "credentials.json",
		},
		Notion: NotionConfig{
			TitleProperty: "Name",
			DateProperty:  "Date",
			PageSize:      100,
		},
	}
}

// readConfig looks for the settings file in the current dir, then in
// `$HOME/.config/notion2gcal/`. A missing file is not an error: defaults apply.
func readConfig(filename string) (*Config, error) {
	config := defaultConfig()

	candidates := []string{"", filepath.Join(os.Getenv("HOME"), ".config", "notion2gcal")}
	for _, dir := range candidates {
		path := filepath.Join(dir, filename)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, &SyncError{Kind: KindConfig, Op: "parse " + path, Err: err}
		}
		config.Dir = dir
		break
	}

	if _, err := config.General.retryDelay(); err != nil {
		return nil, &SyncError{Kind: KindConfig, Op: "parse retry_delay", Err: err}
	}
	return config, nil
}

func (g GeneralConfig) retryDelay() (time.Duration, error) {
	if g.RetryDelay == "" {
		return 0, nil
	}
	return time.ParseDuration(g.RetryDelay)
}

func (g GeneralConfig) retryPolicy() RetryPolicy {
	delay, _ := g.retryDelay()
	return RetryPolicy{Attempts: g.RetryAttempts, Delay: delay}
}

func (c *Config) path(name string) string {
	if filepath.IsAbs(name) || c.Dir == "" {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// KeyFile holds the flat KEY=value secrets file. Missing file or keys are
// logged and leave the value absent; callers check the second return of Get.
type KeyFile struct {
	path   string
	values map[string]string
	logger *zap.Logger
}

func readKeyFile(path string, logger *zap.Logger) *KeyFile {
	values, err := godotenv.Read(path)
	if err != nil {
		logger.Warn("❗️ Unable to read key file", zap.String("path", path), zap.Error(err))
		values = map[string]string{}
	}
	return &KeyFile{path: path, values: values, logger: logger}
}

func (k *KeyFile) Get(key string) (string, bool) {
	value, ok := k.values[key]
	if !ok || value == "" {
		k.logger.Warn("❗️ Missing key", zap.String("key", key), zap.String("path", k.path))
		return "", false
	}
	return value, true
}

// Require is Get for values a command cannot run without.
func (k *KeyFile) Require(key string) (string, error) {
	value, ok := k.Get(key)
	if !ok {
		return "", &SyncError{Kind: KindConfig, Op: "read " + k.path, Err: fmt.Errorf("%w: %s", ErrMissingKey, key)}
	}
	return value, nil
}

// scopes reads SCOPES as a comma or space separated list, defaulting to
// full calendar access.
func (k *KeyFile) scopes() []string {
	raw, ok := k.Get(keyScopes)
	if !ok {
		return []string{calendar.CalendarScope}
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return []string{calendar.CalendarScope}
	}
	return fields
}

// newOAuthConfig prefers the downloaded credentials.json and falls back to
// client_id/client_secret from the settings file.
func newOAuthConfig(config *Config, scopes []string) (*oauth2.Config, error) {
	if data, err := os.ReadFile(config.path(config.Google.CredentialsFile)); err == nil {
		oauthConfig, err := google.ConfigFromJSON(data, scopes...)
		if err != nil {
			return nil, &SyncError{Kind: KindConfig, Op: "parse " + config.Google.CredentialsFile, Err: err}
		}
		return oauthConfig, nil
	}

	if config.Google.ClientID == "" || config.Google.ClientSecret == "" {
		return nil, &SyncError{
			Kind: KindConfig,
			Op:   "oauth config",
			Err:  fmt.Errorf("no %s and no client_id/client_secret in %s", config.Google.CredentialsFile, configFileName),
		}
	}
	return &oauth2.Config{
		ClientID:     config.Google.ClientID,
		ClientSecret: config.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       scopes,
	}, nil
}

func openDB(filename string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}
	if err := dbInit(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
