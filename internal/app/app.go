package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"floorcheck/internal/auth"
	"floorcheck/internal/config"
	"floorcheck/internal/dataset"
	apierrors "floorcheck/internal/errors"
	"floorcheck/internal/exporter"
	"floorcheck/internal/infrastructure"
	customMiddleware "floorcheck/internal/middleware"
	"floorcheck/internal/notify"
	"floorcheck/internal/recipients"
	"floorcheck/internal/services"
	handlers "floorcheck/internal/transport/http"
	ws "floorcheck/internal/websocket"
	"floorcheck/pkg/contracts"
	"floorcheck/pkg/contracts/events"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Cache         *dataset.Cache
	Sessions      *auth.SessionStore
	Recipients    *recipients.Store
	WebSocketHub  *ws.Hub
	Services      *ServiceContainer
	ErrorHandler  *apierrors.ErrorHandler
	Router        *chi.Mux
	Server        *http.Server

	resolver *auth.StaticResolver
	watcher  *dataset.Watcher
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Alerts    *services.AlertService
	Health    *services.HealthService
	CSV       *exporter.CSVWriter
	XLSX      *exporter.XLSXWriter
}

// NewApplication loads the configuration, initializes the global logger and
// wires the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires every component from cfg. Nothing is started until Run or Start.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry, contracts.Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	cfg := a.Config

	hubMetrics, err := ws.NewOTelMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create websocket metrics: %w", err)
	}
	a.WebSocketHub = ws.NewHub(ws.Options{
		PingPeriod: cfg.WebSocket.PingPeriod,
		PongWait:   cfg.WebSocket.PongWait,
	}, hubMetrics, a.Logger)

	a.Cache = dataset.NewCache(a.Paths.DatasetFile, dataset.NewLoader(a.Logger), a.Logger)
	a.Cache.SetObserver(a.Metrics)
	a.Cache.OnReload(func(ds *dataset.Dataset) {
		a.WebSocketHub.Broadcast(string(events.MessageTypeDatasetReloaded), events.DatasetReloaded{
			Source:       ds.Source,
			Rows:         ds.Len(),
			InvalidDates: ds.InvalidDates,
			ModTime:      ds.ModTime,
		})
	})

	a.Sessions = auth.NewSessionStore(cfg.Auth.SessionTTL, a.Logger)
	a.resolver, err = newResolver(cfg.Auth, a.Logger)
	if err != nil {
		return err
	}

	a.Recipients = recipients.NewStore(a.Paths.RecipientsFile, cfg.Alerts.DefaultRecipient, a.Logger)

	smtpCfg := notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Timeout:  cfg.SMTP.Timeout,
	}
	if smtpCfg.Username == "" {
		smtpCfg.Username = smtpCfg.From
	}
	var mailer notify.Mailer
	smtpMailer, err := notify.NewSMTPMailer(smtpCfg, a.Logger)
	if err != nil {
		a.Logger.Warn("SMTP mailer disabled", slog.String("reason", err.Error()))
		mailer = notify.DisabledMailer{Reason: err}
	} else {
		mailer = smtpMailer
	}

	a.Services = &ServiceContainer{
		Dashboard: services.NewDashboardService(a.Cache, a.Logger),
		Alerts:    services.NewAlertService(a.Recipients, mailer, smtpCfg.From, a.WebSocketHub, a.Metrics, a.Logger),
		Health: services.NewHealthService(contracts.Version, contracts.BuildTime, services.HealthDeps{
			Cache:          a.Cache,
			Hub:            a.WebSocketHub,
			Sessions:       a.Sessions,
			RecipientsFile: a.Paths.RecipientsFile,
		}, a.Logger),
		CSV:  exporter.NewCSVWriter(exporter.DefaultWriteOptions(), a.Logger),
		XLSX: exporter.NewXLSXWriter(a.Logger),
	}
	return nil
}

// newResolver builds the account list. Accounts without a username or a
// password cannot sign in and are left out.
func newResolver(cfg config.AuthConfig, logger *slog.Logger) (*auth.StaticResolver, error) {
	var users []auth.User
	for _, u := range []auth.User{
		{Username: cfg.AdminUser, Password: cfg.AdminPassword, Role: auth.RoleAdmin},
		{Username: cfg.ManagerUser, Password: cfg.ManagerPassword, Role: auth.RoleManager},
	} {
		if strings.TrimSpace(u.Username) == "" {
			logger.Warn("account disabled: no username configured",
				slog.String("role", string(u.Role)))
			continue
		}
		if u.Password == "" {
			logger.Warn("account disabled: no password configured",
				slog.String("username", u.Username),
				slog.String("role", string(u.Role)))
			continue
		}
		users = append(users, u)
	}

	resolver, err := auth.NewStaticResolver(users...)
	if err != nil {
		return nil, fmt.Errorf("failed to create principal resolver: %w", err)
	}
	return resolver, nil
}

// setupRouter builds the route tree. The websocket endpoint sits outside the
// group so no middleware wraps the hijacked connection.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	gate := customMiddleware.NewSessionAuth(a.Sessions, config.SessionCookieName, a.ErrorHandler, a.Logger)

	r.With(gate.Handler, customMiddleware.WebSocketTraceMiddleware(a.Logger)).
		Handle(config.WebSocketEndpoint, ws.NewHandler(
			a.WebSocketHub,
			a.Config.WebSocket.ReadBufferSize,
			a.Config.WebSocket.WriteBufferSize,
			a.Config.Security.AllowedOrigins,
			a.Logger,
		))

	r.Handle(config.MetricsEndpoint, handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.Compress(5))
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)
		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}
		if rl := a.Config.Security.RateLimit; rl.Enabled {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger).Handler)
		}

		a.setupAPIRoutes(r, gate)
		a.setupHTMLRoutes(r)
	})

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, gate *customMiddleware.SessionAuth) {
	validator := customMiddleware.NewValidator(a.Logger)

	loginLimiter := func(next http.Handler) http.Handler { return next }
	if rl := a.Config.Security.LoginRateLimit; rl.Enabled {
		loginLimiter = customMiddleware.NewIPRateLimiter(rl.RPS, rl.Burst, a.Logger).Handler
	}

	authHandler := handlers.NewAuthHandler(handlers.AuthHandlerConfig{
		Resolver:      a.resolver,
		Sessions:      a.Sessions,
		Gate:          gate,
		Validator:     validator,
		Metrics:       a.Metrics,
		CookieName:    config.SessionCookieName,
		SecureCookies: a.Config.Security.SecureCookies,
		ErrorHandler:  a.ErrorHandler,
		Logger:        a.Logger,
	})
	dashboardHandler := handlers.NewDashboardHandler(
		a.Services.Dashboard,
		a.Services.CSV,
		a.Services.XLSX,
		validator,
		a.ErrorHandler,
		a.Logger,
	)
	alertsHandler := handlers.NewAlertsHandler(a.Services.Alerts, validator, a.ErrorHandler, a.Logger)
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)

	r.Get(config.HealthEndpoint, healthHandler.HealthCheck)

	r.Route(config.APIBasePath, func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.ContentTypeValidator("application/json"))

		r.Mount("/health", healthHandler.Routes())
		r.Mount("/auth", authHandler.Routes(loginLimiter))

		r.Group(func(r chi.Router) {
			r.Use(gate.Handler)
			r.Mount("/dashboard", dashboardHandler.Routes())
			r.With(customMiddleware.AuditLog(a.Logger)).Mount("/alerts", alertsHandler.Routes())
		})
	})
}

// setupHTMLRoutes serves the dashboard page and its static assets
func (a *Application) setupHTMLRoutes(r chi.Router) {
	page := handlers.NewPageHandler(a.Paths.WebDir, config.AppName, contracts.Version, a.Logger)
	r.Get("/", page.Index)
	r.Handle("/static/*", page.Static())
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:              a.Config.Addr(),
		Handler:           a.Router,
		ReadTimeout:       a.Config.Server.ReadTimeout,
		ReadHeaderTimeout: a.Config.Server.ReadTimeout,
		WriteTimeout:      a.Config.Server.WriteTimeout,
		IdleTimeout:       a.Config.Server.IdleTimeout,
		MaxHeaderBytes:    a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the background components: websocket hub, session sweeper,
// file watcher and a first dataset load. It does not listen.
func (a *Application) Start(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("address", a.Config.Addr()),
		slog.String("level", a.Config.Logging.Level))
	a.Paths.LogPathResolution(a.Logger)

	for _, warning := range a.Config.Warnings() {
		a.Logger.WarnContext(ctx, "Configuration warning", slog.String("warning", warning))
	}

	a.WebSocketHub.Start()
	go a.Sessions.Run(ctx, a.Config.Auth.SweepInterval)

	if a.Config.Dataset.Watch {
		watcher, err := dataset.NewWatcher(a.Cache, a.Config.Dataset.Debounce, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to create dataset watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			a.Logger.WarnContext(ctx, "Dataset watcher not started", slog.String("error", err.Error()))
		} else {
			a.watcher = watcher
		}
	}

	// A missing or broken file is reported by the pages; startup continues.
	if ds, err := a.Cache.Get(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Checklist not loaded",
			slog.String("path", a.Paths.DatasetFile),
			slog.String("error", err.Error()))
	} else {
		a.Logger.InfoContext(ctx, "Checklist loaded",
			slog.String("path", a.Paths.DatasetFile),
			slog.Int("rows", ds.Len()),
			slog.Int("invalid_dates", ds.InvalidDates))
	}
	return nil
}

// Serve accepts connections on ln until Stop shuts the server down.
func (a *Application) Serve(ln net.Listener) error {
	a.Logger.Info("HTTP server listening", slog.String("address", ln.Addr().String()))
	if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			a.Logger.ErrorContext(ctx, "Error stopping dataset watcher", slog.String("error", err.Error()))
		}
	}
	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("log file close error: %w", err))
	}
	return errors.Join(errs...)
}

// Run starts the application and serves until ctx is cancelled or an
// interrupt arrives, then shuts down.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	if err := a.Start(ctx); err != nil {
		ln.Close()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Serve(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("Received shutdown signal")
		return a.Stop(context.Background())
	})

	start := time.Now()
	err = g.Wait()
	a.Logger.Info("Application stopped", slog.Duration("uptime", time.Since(start)))
	return err
}
