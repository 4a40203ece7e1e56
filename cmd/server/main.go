package main

import (
	"net/http"
	"os"
	"time"

	"craftcurio/api/handler"
	apiMiddleware "craftcurio/api/middleware"
	"craftcurio/api/routes"
	"craftcurio/config"
	"craftcurio/internal/queue"
	"craftcurio/internal/repository"
	"craftcurio/internal/service"
	"craftcurio/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	db := config.ConnectionDb()
	redisClient := config.NewRedisClient()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	sessionSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(sessionSecret) == 0 {
		logger.Fatal("JWT_SECRET is required")
	}
	production := os.Getenv("APP_ENV") == "production"

	jwtManager := utils.JWTManager{
		Secret:          sessionSecret,
		Issuer:          os.Getenv("JWT_ISSUER"),
		SessionTokenTTL: 7 * 24 * time.Hour,
	}

	userRepo := repository.NewUserRepository(db)
	passcodeRepo := repository.NewPasscodeRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	securityRepo := repository.NewSecurityLogRepository(db)

	emailSender := service.NewResendEmailSender(
		os.Getenv("RESEND_API_KEY"),
		os.Getenv("EMAIL_FROM"),
		logger,
	)
	events := queue.NewPublisher(os.Getenv("RABBITMQ_URL"), logger)

	authService := service.NewAuthService(
		userRepo,
		passcodeRepo,
		profileRepo,
		counterRepo,
		securityRepo,
		emailSender,
		service.BcryptPasswordHasher{},
		service.JWTSessionIssuer{Manager: &jwtManager},
		events,
		service.RealClock{},
		service.AuthConfig{
			PasscodeTTL:      10 * time.Minute,
			SessionTokenTTL:  7 * 24 * time.Hour,
			MaxPasscodeTries: 5,
			ExposePasscodes:  !production,
		},
	)

	authHandler := handler.NewAuthHandler(authService, validate, logger)
	authHandler.CookieDomain = os.Getenv("COOKIE_DOMAIN")
	authHandler.SecureCookies = production

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	sendRate, verifyRate := buildRateLimits(redisClient, logger)

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &jwtManager, CookieName: authHandler.SessionCookieName}
	router := routes.NewRouter(app, authHandler, authMiddleware, sendRate, verifyRate)
	router.RegisterRoutes()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", addr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// buildRateLimits prefers the Redis-backed shared counters so the
// limits hold across instances; without REDIS_ADDR the in-memory
// limiters cover single-process deployments.
func buildRateLimits(redisClient *redis.Client, logger *logrus.Logger) (echo.MiddlewareFunc, echo.MiddlewareFunc) {
	if redisClient != nil {
		send := apiMiddleware.NewRedisRateLimiter(redisClient, "otp-send", 10, 5*time.Minute, logger)
		verify := apiMiddleware.NewRedisRateLimiter(redisClient, "otp-verify", 20, 5*time.Minute, logger)
		return send.Middleware(), verify.Middleware()
	}
	send := apiMiddleware.NewRateLimiter(rate.Limit(0.05), 10, 10*time.Minute)
	verify := apiMiddleware.NewRateLimiter(rate.Limit(0.1), 20, 10*time.Minute)
	return send.Middleware(), verify.Middleware()
}
