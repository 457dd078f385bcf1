package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/sptest/pkg/sptest"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConnectionConfig mirrors the connection section of sptest.yaml.
type ConnectionConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Username        string `yaml:"username"`
	Database        string `yaml:"database"`
	Encrypt         string `yaml:"encrypt,omitempty"`
	TrustServerCert bool   `yaml:"trust_server_cert,omitempty"`
	AppName         string `yaml:"app_name,omitempty"`
}

// ProjectConfig is the sptest.yaml file layout. The password is never read
// from the project file; it comes from the environment only.
type ProjectConfig struct {
	Connection ConnectionConfig  `yaml:"connection"`
	Params     map[string]string `yaml:"params"`
	FixtureDir string            `yaml:"fixture_dir"`
}

const ConfigFileName = "sptest.yaml"

// Environment variable names, matching the harness's established surface.
const (
	EnvHost     = "DB_HOST"
	EnvPort     = "DB_PORT"
	EnvDatabase = "DB_NAME"
	EnvUser     = "DB_USER"
	EnvPassword = "DB_PASSWORD"
	EnvEncrypt  = "DB_ENCRYPT"
)

// Load reads sptest.yaml from the given directory.
func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a ConnectionConfig from environment variables, layered on
// top of an optional project config (env wins on collision). The caller is
// expected to have run godotenv.Load() already so a .env file participates.
//
// The result is not validated here; callers run Validate() right before the
// first connection attempt so a missing setting fails fast with a
// configuration error.
func FromEnv(project *ProjectConfig) *sptest.ConnectionConfig {
	cc := &sptest.ConnectionConfig{}
	if project != nil {
		cc.Host = project.Connection.Host
		cc.Port = project.Connection.Port
		cc.Username = project.Connection.Username
		cc.Database = project.Connection.Database
		cc.Encrypt = project.Connection.Encrypt
		cc.TrustServerCert = project.Connection.TrustServerCert
		cc.AppName = project.Connection.AppName
	}

	if v := os.Getenv(EnvHost); v != "" {
		cc.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cc.Port = port
		}
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		cc.Database = v
	}
	if v := os.Getenv(EnvUser); v != "" {
		cc.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		cc.Password = v
	}
	if v := os.Getenv(EnvEncrypt); v != "" {
		cc.Encrypt = v
	}

	if cc.AppName == "" {
		cc.AppName = "sptest"
	}
	return cc
}
