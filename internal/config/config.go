package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "FLOORCHECK"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Auth      AuthConfig      `yaml:"auth" envconfig:"AUTH"`
	SMTP      SMTPConfig      `yaml:"smtp" envconfig:"SMTP"`
	Alerts    AlertsConfig    `yaml:"alerts" envconfig:"ALERTS"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	SecureCookies  bool            `yaml:"secure_cookies" envconfig:"SECURE_COOKIES"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	LoginRateLimit RateLimitConfig `yaml:"login_rate_limit" envconfig:"LOGIN_RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration. Relative paths are
// resolved against BaseDir, which defaults to the working directory.
type PathsConfig struct {
	BaseDir        string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DatasetFile    string `yaml:"dataset_file" envconfig:"DATASET_FILE"`
	RecipientsFile string `yaml:"recipients_file" envconfig:"RECIPIENTS_FILE"`
	WebDir         string `yaml:"web_dir" envconfig:"WEB_DIR"`
	LogsDir        string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
}

// AuthConfig holds the two dashboard accounts and session settings
type AuthConfig struct {
	AdminUser       string        `yaml:"admin_user" envconfig:"ADMIN_USER"`
	AdminPassword   string        `yaml:"admin_password" envconfig:"ADMIN_PASSWORD"`
	ManagerUser     string        `yaml:"manager_user" envconfig:"MANAGER_USER"`
	ManagerPassword string        `yaml:"manager_password" envconfig:"MANAGER_PASSWORD"`
	SessionTTL      time.Duration `yaml:"session_ttl" envconfig:"SESSION_TTL"`
	SweepInterval   time.Duration `yaml:"sweep_interval" envconfig:"SWEEP_INTERVAL"`
}

// SMTPConfig holds the submission server used for alerts
type SMTPConfig struct {
	Host     string        `yaml:"host" envconfig:"HOST"`
	Port     int           `yaml:"port" envconfig:"PORT"`
	Username string        `yaml:"username" envconfig:"USERNAME"`
	Password string        `yaml:"password" envconfig:"PASSWORD"`
	From     string        `yaml:"from" envconfig:"FROM"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// AlertsConfig holds alert distribution settings
type AlertsConfig struct {
	DefaultRecipient string `yaml:"default_recipient" envconfig:"DEFAULT_RECIPIENT"`
}

// DatasetConfig controls reloading of the checklist file
type DatasetConfig struct {
	Watch    bool          `yaml:"watch" envconfig:"WATCH"`
	Debounce time.Duration `yaml:"debounce" envconfig:"DEBOUNCE"`
}

// TelemetryConfig selects the trace exporter and metrics endpoint
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	Metrics       bool   `yaml:"metrics" envconfig:"METRICS"`
}

// Load builds the configuration from defaults, then the YAML file if one is
// found, then environment variables. Later sources win.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit YAML file. An empty path skips the file.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Unset variables leave the field untouched since no tag carries a default.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolvePaths makes every configured path absolute
func (c *Config) resolvePaths() error {
	paths, err := ResolvePaths(c.Paths)
	if err != nil {
		return err
	}
	c.Paths = paths.Config()
	return nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Auth.AdminUser == "" || c.Auth.ManagerUser == "" {
		return fmt.Errorf("admin and manager user names are required")
	}
	if c.Auth.AdminUser == c.Auth.ManagerUser {
		return fmt.Errorf("admin and manager must be different users")
	}

	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid smtp port: %d", c.SMTP.Port)
	}

	switch c.Telemetry.TraceExporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("unknown trace exporter %q", c.Telemetry.TraceExporter)
	}

	c.Logging.Format = strings.ToLower(c.Logging.Format)
	if c.Logging.Format != "text" {
		c.Logging.Format = DefaultLogFormat
	}
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	return nil
}

// Warnings lists settings that allow the server to start but leave a feature unusable.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Auth.AdminPassword == "" {
		warnings = append(warnings, "admin password is empty; admin login is disabled")
	}
	if c.Auth.ManagerPassword == "" {
		warnings = append(warnings, "manager password is empty; manager login is disabled")
	}
	if c.SMTP.From == "" || c.SMTP.Password == "" {
		warnings = append(warnings, "smtp sender or password is empty; alerts will fail")
	}
	return warnings
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	locations := []string{
		"floorcheck.yaml",
		"configs/floorcheck.yaml",
		"../configs/floorcheck.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
			LoginRateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     LoginRateLimit,
				Burst:   MaxLoginAttempts,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/floorcheck.log",
		},
		Paths: PathsConfig{
			DatasetFile:    DefaultDatasetFile,
			RecipientsFile: DefaultRecipientsFile,
			WebDir:         DefaultWebDir,
			LogsDir:        DefaultLogsDir,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  WebSocketReadBufferSize,
			WriteBufferSize: WebSocketWriteBufferSize,
			PingPeriod:      WebSocketPingPeriod,
			PongWait:        WebSocketPongWait,
		},
		Auth: AuthConfig{
			AdminUser:     "admin",
			ManagerUser:   "gestor",
			SessionTTL:    SessionTimeout,
			SweepInterval: SessionSweepInterval,
		},
		SMTP: SMTPConfig{
			Host:    DefaultSMTPHost,
			Port:    DefaultSMTPPort,
			Timeout: DefaultSMTPTimeout,
		},
		Alerts: AlertsConfig{
			DefaultRecipient: DefaultAlertRecipient,
		},
		Dataset: DatasetConfig{
			Watch:    true,
			Debounce: DefaultWatchDebounce,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
			Metrics:       true,
		},
	}
}
