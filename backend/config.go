package backend

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/20after4/configdir"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"github.com/dweymouth/sonicbridge/backend/labels"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

const (
	ConfigFile = "config.toml"
	envFile    = ".env"
)

type ServerConnection struct {
	ServerType mediaprovider.ServerType
	Hostname   string
	Username   string
	LegacyAuth bool
}

type ServerConfig struct {
	ServerConnection
	ID            uuid.UUID
	Nickname      string
	Default       bool
	MusicFolderID string
}

type HTTPConfig struct {
	TimeoutSeconds int
	RetryMax       int
	SkipSSLVerify  bool
	ClientName     string
	// DeviceID identifies this installation to Jellyfin servers.
	DeviceID string
}

type LabelsConfig struct {
	BatchSize       int
	TimeoutSeconds  int
	CacheTTLSeconds int
}

type LogConfig struct {
	Level   string
	Console bool
}

type Config struct {
	Servers []*ServerConfig
	HTTP    HTTPConfig
	Labels  LabelsConfig
	Log     LogConfig
}

func DefaultConfig(appName string) *Config {
	return &Config{
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
			RetryMax:       2,
			ClientName:     appName,
			DeviceID:       uuid.NewString(),
		},
		Labels: LabelsConfig{
			BatchSize:       labels.DefaultBatchSize,
			TimeoutSeconds:  int(labels.DefaultTimeout / time.Second),
			CacheTTLSeconds: int(labels.DefaultCacheTTL / time.Second),
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// ConfigDir returns the per-user config directory for appName, creating it if needed.
func ConfigDir(appName string) (string, error) {
	dir := configdir.LocalConfig(appName)
	if err := configdir.MakePath(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// LoadConfig reads config.toml from dir, falling back to defaults if the
// file does not exist yet. Environment overrides from dir/.env and the
// process environment are applied on top.
func LoadConfig(dir, appName string) (*Config, error) {
	c, err := ReadConfigFile(filepath.Join(dir, ConfigFile), appName)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("dir", dir).Msg("config file not found, using defaults")
		c, err = DefaultConfig(appName), nil
	}
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(filepath.Join(dir, envFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("error loading env file")
	}
	c.applyEnv(os.Getenv)
	return c, nil
}

func ReadConfigFile(path, appName string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := DefaultConfig(appName)
	if err := toml.NewDecoder(f).Decode(c); err != nil {
		return nil, err
	}

	// servers saved without a type predate multiple backends
	for _, s := range c.Servers {
		if s.ServerType == "" {
			s.ServerType = mediaprovider.ServerTypeSubsonic
		}
	}
	if c.HTTP.DeviceID == "" {
		c.HTTP.DeviceID = uuid.NewString()
	}
	return c, nil
}

// applyEnv overrides settings from SONICBRIDGE_* variables.
// Unparseable values are logged and ignored.
func (c *Config) applyEnv(getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				log.Warn().Str("var", key).Str("value", v).Msg("ignoring non-numeric env override")
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v := getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				log.Warn().Str("var", key).Str("value", v).Msg("ignoring non-boolean env override")
				return
			}
			*dst = b
		}
	}
	str("SONICBRIDGE_LOG_LEVEL", &c.Log.Level)
	flag("SONICBRIDGE_LOG_CONSOLE", &c.Log.Console)
	num("SONICBRIDGE_HTTP_TIMEOUT", &c.HTTP.TimeoutSeconds)
	num("SONICBRIDGE_HTTP_RETRIES", &c.HTTP.RetryMax)
	flag("SONICBRIDGE_SKIP_SSL_VERIFY", &c.HTTP.SkipSSLVerify)
	num("SONICBRIDGE_LABEL_BATCH_SIZE", &c.Labels.BatchSize)
	num("SONICBRIDGE_LABEL_TIMEOUT", &c.Labels.TimeoutSeconds)
}

func (c *Config) DefaultServer() *ServerConfig {
	for _, s := range c.Servers {
		if s.Default {
			return s
		}
	}
	if len(c.Servers) > 0 {
		return c.Servers[0]
	}
	return nil
}

func (c *Config) ServerByID(id uuid.UUID) *ServerConfig {
	for _, s := range c.Servers {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (c *Config) LabelOptions() labels.Options {
	return labels.Options{
		BatchSize: c.Labels.BatchSize,
		Timeout:   time.Duration(c.Labels.TimeoutSeconds) * time.Second,
		CacheTTL:  time.Duration(c.Labels.CacheTTLSeconds) * time.Second,
	}
}

var writeLock sync.Mutex

func (c *Config) WriteConfigFile(path string) error {
	if !writeLock.TryLock() {
		return nil // another write in progress
	}
	defer writeLock.Unlock()

	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
