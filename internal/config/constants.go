package config

import "time"

// Application constants
const (
	// Application Info
	AppName = "floorcheck"

	// Security Constants
	MaxLoginAttempts     = 5
	LoginRateLimit       = 0.2 // one login attempt every 5s per client after the burst
	SessionTimeout       = 8 * time.Hour
	SessionSweepInterval = 5 * time.Minute
	SessionCookieName    = "floorcheck_session"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultRequestTimeout = 60 * time.Second
	DefaultSMTPTimeout    = 30 * time.Second
	WebSocketPingPeriod   = 30 * time.Second
	WebSocketPongWait     = 60 * time.Second

	// SMTP submission server used by the original deployment
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587

	// Alert list seed
	DefaultAlertRecipient = "exemplo@destinatario.com"

	// File Paths (relative to the base directory)
	DefaultDatasetFile    = "datasets/dados_checklist.csv"
	DefaultRecipientsFile = "emails_destinatarios.json"
	DefaultWebDir         = "web"
	DefaultLogsDir        = "logs"

	// Dataset watcher
	DefaultWatchDebounce = 500 * time.Millisecond

	// WebSocket Buffer Sizes
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// API endpoints
const (
	APIBasePath       = "/api"
	AuthEndpoint      = "/api/auth"
	DashboardEndpoint = "/api/dashboard"
	AlertsEndpoint    = "/api/alerts"
	HealthEndpoint    = "/health"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)
