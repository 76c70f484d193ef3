package app

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v72"

	"github.com/yatrapay/yatrapay/internal/cache"
	"github.com/yatrapay/yatrapay/internal/config"
	"github.com/yatrapay/yatrapay/internal/env"
	"github.com/yatrapay/yatrapay/internal/errHandler"
	"github.com/yatrapay/yatrapay/internal/file"
	"github.com/yatrapay/yatrapay/internal/helper"
	"github.com/yatrapay/yatrapay/internal/repository"
	"github.com/yatrapay/yatrapay/internal/smtp"
	"github.com/yatrapay/yatrapay/internal/stream"
)

// Essential services and resources are exposed to the application so the
// route setup and the server can reach them when they need them.
type Application struct {
	Config       config.Config
	DB           repository.Database
	Logger       *slog.Logger
	Mailer       *smtp.Mailer
	Cache        cache.Store
	WG           sync.WaitGroup
	ErrorHandler *errHandler.ErrorRepository
	Helper       *helper.HelperRepository
	Kafka        *stream.KafkaStream
	FileUploader *file.CloudinaryUploader
}

func NewApplication(logger *slog.Logger) (*Application, error) {
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", "error", err)
	}

	var cfg config.Config

	// config values are loaded from the .env file, with development-only
	// defaults; no production value belongs here
	cfg.BaseURL = env.GetString("BASE_URL", "http://localhost:4444")
	cfg.HttpPort = env.GetInt("HTTP_PORT", 4444)

	cfg.Db.Dsn = env.GetString("DB_DSN", "user:pass@localhost:5432/yatrapay")
	cfg.Db.Automigrate = env.GetBool("DB_AUTOMIGRATE", true)

	cfg.Jwt.SecretKey = env.GetString("JWT_SECRET_KEY", "ajf5nx3qmp6zquevllxocxqvyz42ypuo")

	// server errors won't be reported by email unless NOTIFICATIONS_EMAIL
	// is set
	cfg.Notifications.Email = env.GetString("NOTIFICATIONS_EMAIL", "")

	cfg.Smtp.Host = env.GetString("SMTP_HOST", "example.smtp.host")
	cfg.Smtp.Port = env.GetInt("SMTP_PORT", 25)
	cfg.Smtp.Username = env.GetString("SMTP_USERNAME", "example_username")
	cfg.Smtp.Password = env.GetString("SMTP_PASSWORD", "pa55word")
	cfg.Smtp.From = env.GetString("SMTP_FROM", "YatraPay <no_reply@yatrapay.example>")

	cfg.FileUploader.ApiKey = env.GetString("CLOUDINARY_API_KEY", "")
	cfg.FileUploader.CloudName = env.GetString("CLOUDINARY_CLOUD_NAME", "")
	cfg.FileUploader.ApiSecret = env.GetString("CLOUDINARY_API_SECRET", "")
	cfg.FileUploader.Folder = env.GetString("CLOUDINARY_FOLDER", "kyc-documents")

	cfg.Stripe.SecretKey = env.GetString("STRIPE_SECRET_KEY", "")

	cfg.Exchange.UsdToNpr = env.GetString("EXCHANGE_USD_NPR", "130")
	cfg.Exchange.ServiceFeePercent = int64(env.GetInt("EXCHANGE_SERVICE_FEE_PERCENT", 2))

	cfg.RedisAddr = env.GetString("REDIS_ADDR", "localhost:6379")
	cfg.KafkaServers = env.GetString("KAFKA_SERVERS", "localhost:9092")

	cfg.Cors.AllowedOrigins = strings.Split(env.GetString("CORS_ALLOWED_ORIGINS", "*"), ",")

	stripe.Key = cfg.Stripe.SecretKey

	db, err := repository.New(cfg.Db.Dsn, cfg.Db.Automigrate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mailer, err := smtp.NewMailer(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.From)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	app := &Application{
		Config: cfg,
		DB:     db,
		Logger: logger,
		Mailer: mailer,
		Cache:  cache.New(cfg.RedisAddr, 0),
		Kafka:  stream.New(cfg.KafkaServers),
	}

	app.Helper = helper.New(&cfg.BaseURL, &app.WG, logger)
	app.ErrorHandler = errHandler.New(cfg.Notifications.Email, mailer, logger, app.Helper)
	app.FileUploader = file.New(cfg.FileUploader.CloudName, cfg.FileUploader.ApiKey, cfg.FileUploader.ApiSecret, cfg.FileUploader.Folder)

	return app, nil
}
