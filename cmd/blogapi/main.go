package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/domain"
	"blogapi/internal/observability/logging"
	"blogapi/internal/observability/metrics"
	"blogapi/internal/observability/middleware"
	impl "blogapi/internal/service/impl"
	"blogapi/internal/store"
	httpx "blogapi/internal/transport/http"
	"blogapi/pkg/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "blogapi",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	if cfg.AutoMigrate {
		if err := gdb.AutoMigrate(
			&domain.User{},
			&domain.PasswordCredential{},
			&domain.Session{},
			&domain.Blog{},
			&domain.Post{},
			&domain.Comment{},
			&domain.Reaction{},
		); err != nil {
			logger.Error("auto migrate", "error", err)
			os.Exit(1)
		}
	}

	st := store.New(gdb)

	metrics.MustRegister("blogapi")

	pw := impl.NewPasswordServiceArgon2id()

	ts, err := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	if err != nil {
		logger.Error("token service", "error", err)
		os.Exit(1)
	}

	h := &httpx.Handler{
		Auth:         impl.NewAuthServiceImpl(st, pw, ts),
		Devices:      impl.NewDeviceServiceImpl(st),
		Tokens:       ts,
		Blogs:        impl.NewBlogServiceImpl(st),
		Posts:        impl.NewPostServiceImpl(st),
		Comments:     impl.NewCommentServiceImpl(st),
		Reactions:    impl.NewReactionServiceImpl(st),
		CookieSecure: env != "dev",
		TrustProxy:   cfg.TrustProxy,
	}

	mux := httpx.NewRouter(h, httpx.RouterConfig{
		CORSOrigins: strings.Split(os.Getenv("CORS_ORIGINS"), ","),
	})

	handler := middleware.WithRequestAndTrace(middleware.WithMetrics(mux))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("blog api listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
