// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/gracechapel/churchsite/internal/analytics"
	"github.com/gracechapel/churchsite/internal/cache"
	"github.com/gracechapel/churchsite/internal/config"
	"github.com/gracechapel/churchsite/internal/handler"
	"github.com/gracechapel/churchsite/internal/logging"
	"github.com/gracechapel/churchsite/internal/mailer"
	"github.com/gracechapel/churchsite/internal/maintenance"
	"github.com/gracechapel/churchsite/internal/middleware"
	"github.com/gracechapel/churchsite/internal/render"
	"github.com/gracechapel/churchsite/internal/service"
	"github.com/gracechapel/churchsite/internal/session"
	"github.com/gracechapel/churchsite/internal/siteconfig"
	"github.com/gracechapel/churchsite/internal/store"
	"github.com/gracechapel/churchsite/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "churchsite - Grace Chapel website and admin\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_DB_PATH          SQLite database path (default: ./data/churchsite.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_UPLOADS_DIR      Uploads directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_SITE_CONFIG      Site identity JSON file (default: ./site.json)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_REDIS_URL        Redis URL for shared caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("churchsite %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewAuditLogHandler(textHandler, db))
	slog.SetDefault(logger)

	// Seed bootstrap admin account
	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Load church identity (name, address, service times)
	site, err := siteconfig.Load(cfg.SiteConfig)
	if err != nil {
		return fmt.Errorf("loading site config: %w", err)
	}
	slog.Info("site config loaded", "name", site.Name)

	// Session manager backed by the sessions table
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Cache for hot public read paths
	appCache, err := cache.New(cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	if err != nil {
		if cfg.UseRedisCache() {
			slog.Warn("redis cache unavailable, falling back to memory", "error", err)
			appCache, err = cache.New(cache.Options{DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second})
			if err != nil {
				return fmt.Errorf("initializing cache: %w", err)
			}
		} else {
			return fmt.Errorf("initializing cache: %w", err)
		}
	}
	defer func() {
		if err := appCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	// Template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Site:           site,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Outbound services
	mailClient := mailer.New(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom, logger)
	analyticsClient := analytics.New(cfg.AnalyticsAPIURL, cfg.AnalyticsAPIKey, cfg.AnalyticsSiteID)
	storageService := service.NewStorageService(db, cfg.UploadsDir)
	auditService := service.NewAuditService(db)
	slog.Info("services initialized", "mail", mailClient.Enabled(), "analytics", analyticsClient.Enabled())

	// Nightly maintenance: audit log pruning and WAL checkpoints
	sched := maintenance.New(db, auditService, time.Duration(cfg.AuditRetentionDays)*24*time.Hour, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting maintenance scheduler: %w", err)
	}
	defer sched.Stop()

	// Login protection: per-IP rate limits plus account lockout
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)
	contactRateLimiter := middleware.NewGlobalRateLimiter(0.2, 3)

	// Handlers
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection)
	adminHandler := handler.NewAdminHandler(db, renderer, storageService, analyticsClient)
	usersHandler := handler.NewUsersHandler(db, renderer, mailClient, cfg.BaseURL)
	eventsHandler := handler.NewEventsHandler(db, renderer, storageService)
	galleryHandler := handler.NewGalleryHandler(db, renderer, storageService)
	newslettersHandler := handler.NewNewslettersHandler(db, renderer, storageService)
	alertsHandler := handler.NewAlertsHandler(db, renderer, appCache)
	frontendHandler := handler.NewFrontendHandler(db, renderer, appCache, cfg.BaseURL)
	contactHandler := handler.NewContactHandler(db, renderer, mailClient, cfg.OfficeEmail)
	healthHandler := handler.NewHealthHandler(db)

	// Router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Public site
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteEvents, frontendHandler.Events)
		r.Get(handler.RouteEvents+handler.RouteParamSlug, frontendHandler.Event)
		r.Get(handler.RouteGallery, frontendHandler.Gallery)
		r.Get(handler.RouteNewsletters, frontendHandler.Newsletters)
		r.Get("/sitemap.xml", frontendHandler.Sitemap)
		r.Get("/robots.txt", frontendHandler.Robots)

		r.Get(handler.RouteContact, contactHandler.Form)
		r.With(contactRateLimiter.Middleware()).Post(handler.RouteContact, contactHandler.Submit)
	})

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.Middleware())
		r.Use(csrfMiddleware)
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteLogout, authHandler.Logout)
		r.Post(handler.RouteLogout, authHandler.Logout)
		r.Get(handler.RouteInvite+handler.RouteParamToken, authHandler.InviteForm)
		r.Post(handler.RouteInvite+handler.RouteParamToken, authHandler.InviteSubmit)
	})

	// Admin area
	r.Route("/admin", func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))
		r.Use(middleware.RequireAdmin(auditService))

		r.Get(handler.RouteRoot, adminHandler.Dashboard)
		r.Get("/api/visitors", adminHandler.Visitors)
		r.Get(handler.RouteAudit, adminHandler.AuditLog)

		r.Get(handler.RouteSettings, adminHandler.Settings)
		r.Post(handler.RouteSettings+"/hero", adminHandler.UploadHero)

		r.Get(handler.RouteEvents, eventsHandler.List)
		r.Get(handler.RouteEvents+handler.RouteSuffixNew, eventsHandler.NewForm)
		r.Post(handler.RouteEvents, eventsHandler.Create)
		r.Get(handler.RouteEventsID, eventsHandler.EditForm)
		r.Post(handler.RouteEventsID, eventsHandler.Update)
		r.Post(handler.RouteEventsID+handler.RouteSuffixDelete, eventsHandler.Delete)

		r.Get(handler.RouteGallery, galleryHandler.List)
		r.Post(handler.RouteGallery, galleryHandler.Upload)
		r.Post(handler.RouteGalleryID, galleryHandler.Update)
		r.Post(handler.RouteGalleryID+handler.RouteSuffixDelete, galleryHandler.Delete)

		r.Get(handler.RouteNewsletters, newslettersHandler.List)
		r.Get(handler.RouteNewsletters+handler.RouteSuffixNew, newslettersHandler.NewForm)
		r.Post(handler.RouteNewsletters, newslettersHandler.Create)
		r.Get(handler.RouteNewslettersID, newslettersHandler.EditForm)
		r.Post(handler.RouteNewslettersID, newslettersHandler.Update)
		r.Post(handler.RouteNewslettersID+handler.RouteSuffixDelete, newslettersHandler.Delete)

		r.Get(handler.RouteAlerts, alertsHandler.List)
		r.Post(handler.RouteAlerts, alertsHandler.Create)
		r.Post(handler.RouteAlertsID, alertsHandler.Update)
		r.Post(handler.RouteAlertsID+handler.RouteSuffixToggle, alertsHandler.Toggle)
		r.Post(handler.RouteAlertsID+handler.RouteSuffixDelete, alertsHandler.Delete)

		r.Get(handler.RouteUsers, usersHandler.List)
		r.Get(handler.RouteUsers+handler.RouteSuffixNew, usersHandler.NewForm)
		r.Post(handler.RouteUsers, usersHandler.Create)
		r.Get(handler.RouteUsersID, usersHandler.EditForm)
		r.Post(handler.RouteUsersID, usersHandler.Update)
		r.Post(handler.RouteUsersID+handler.RouteSuffixDelete, usersHandler.Delete)
		r.Post(handler.RouteUsersID+"/resend", usersHandler.ResendInvite)
	})

	// Static assets from the embedded filesystem, cached for 1 year
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", middleware.StaticCache(31536000)(
		http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))

	// Uploaded files, cached for 1 week
	r.Handle("/uploads/*", middleware.StaticCache(604800)(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))))

	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
