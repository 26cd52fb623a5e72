package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendNone   = ""
	BackendFile   = "file"
	BackendGitHub = "github"
	BackendSQL    = "sql"
)

// Defaults
const (
	DefaultPort     = 8080
	DefaultDataFile = "menus_famille.csv"
	DefaultAuthFile = "auth.secret"
	DefaultTimezone = "Europe/Paris"
	DefaultBranch   = "main"
	DefaultAPIURL   = "https://api.github.com"
	DefaultSQLTable = "menu_files"
	DefaultTimeout  = 15 * time.Second
)

type Config struct {
	Port     int     `yaml:"port"`
	EditMode bool    `yaml:"edit_mode"`
	AuthFile string  `yaml:"auth_file"`
	Timezone string  `yaml:"timezone"`
	Storage  Storage `yaml:"storage"`
}

type Storage struct {
	Backend string `yaml:"backend"`
	// Path is the name of the stored table within the backend
	Path   string       `yaml:"path"`
	File   FileConfig   `yaml:"file"`
	GitHub GitHubConfig `yaml:"github"`
	SQL    SQLConfig    `yaml:"sql"`
}

type FileConfig struct {
	Dir string `yaml:"dir"`
}

type GitHubConfig struct {
	Owner   string        `yaml:"owner"`
	Repo    string        `yaml:"repo"`
	Branch  string        `yaml:"branch"`
	Token   string        `yaml:"token"`
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SQLConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

// Default returns the configuration used when nothing else is set.
// No storage backend is selected, so the menu store starts disabled.
func Default() *Config {
	dir := "."
	if cwd, err := os.Getwd(); err == nil {
		dir = cwd
	}
	return &Config{
		Port:     DefaultPort,
		AuthFile: DefaultAuthFile,
		Timezone: DefaultTimezone,
		Storage: Storage{
			Path: DefaultDataFile,
			File: FileConfig{Dir: dir},
			GitHub: GitHubConfig{
				Branch:  DefaultBranch,
				APIURL:  DefaultAPIURL,
				Timeout: DefaultTimeout,
			},
			SQL: SQLConfig{
				Driver: "sqlite",
				Table:  DefaultSQLTable,
			},
		},
	}
}

// Load reads .env (if present), then the optional YAML file at path, then
// environment variables, each layer overriding the previous one.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvInt("PORT", c.Port)
	c.EditMode = getEnvBool("EDIT_MODE", c.EditMode)
	c.AuthFile = getEnv("AUTH_FILE", c.AuthFile)
	c.Timezone = getEnv("TIMEZONE", c.Timezone)

	s := &c.Storage
	s.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", s.Backend))
	s.Path = getEnv("DATA_FILE", s.Path)
	s.File.Dir = getEnv("DATA_DIR", s.File.Dir)

	s.GitHub.Owner = getEnv("GITHUB_OWNER", s.GitHub.Owner)
	s.GitHub.Repo = getEnv("GITHUB_REPO", s.GitHub.Repo)
	s.GitHub.Branch = getEnv("GITHUB_BRANCH", s.GitHub.Branch)
	s.GitHub.Token = getEnv("GITHUB_TOKEN", s.GitHub.Token)
	s.GitHub.APIURL = getEnv("GITHUB_API_URL", s.GitHub.APIURL)

	s.SQL.Driver = getEnv("SQL_DRIVER", s.SQL.Driver)
	s.SQL.DSN = getEnv("SQL_DSN", s.SQL.DSN)
	s.SQL.Table = getEnv("SQL_TABLE", s.SQL.Table)
}

// Validate reports incomplete settings for the selected backend
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}

	s := c.Storage
	switch s.Backend {
	case BackendNone:
	case BackendFile:
		if s.File.Dir == "" {
			errs = append(errs, errors.New("file backend requires DATA_DIR"))
		}
	case BackendGitHub:
		if s.GitHub.Owner == "" || s.GitHub.Repo == "" {
			errs = append(errs, errors.New("github backend requires GITHUB_OWNER and GITHUB_REPO"))
		}
		if s.GitHub.Token == "" {
			errs = append(errs, errors.New("github backend requires GITHUB_TOKEN"))
		}
	case BackendSQL:
		if s.SQL.Driver != "sqlite" && s.SQL.Driver != "pgx" {
			errs = append(errs, fmt.Errorf("unsupported sql driver %q (sqlite or pgx)", s.SQL.Driver))
		}
		if s.SQL.DSN == "" {
			errs = append(errs, errors.New("sql backend requires SQL_DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", s.Backend))
	}
	if s.Backend != BackendNone && s.Path == "" {
		errs = append(errs, errors.New("DATA_FILE cannot be empty"))
	}

	return errors.Join(errs...)
}

// Location returns the configured time zone, UTC when it cannot be loaded
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v == "1" || strings.EqualFold(v, "true")
}
