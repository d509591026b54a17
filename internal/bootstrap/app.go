package bootstrap

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/excel_converter/internal/config"
	"github.com/locvowork/excel_converter/internal/handler"
	"github.com/locvowork/excel_converter/internal/logger"
	"github.com/locvowork/excel_converter/internal/service"
)

type App struct {
	Echo    *echo.Echo
	Profile *config.ConversionProfile
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{
		Echo: e,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	if err := logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, config.DefaultEnvConfig.LOG_LEVEL); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	profile, err := config.LoadProfile(config.DefaultEnvConfig.CONVERSION_PROFILE_PATH)
	if err != nil {
		return fmt.Errorf("failed to load conversion profile: %w", err)
	}
	a.Profile = profile
	logger.InfoLog(ctx, "Conversion profile: skip_rows=%d table=%s style=%s output=%s",
		*profile.SkipRows, profile.TableName, profile.TableStyle, profile.OutputFilename)

	// Initialize dependencies
	convertSvc := service.NewConvertService(profile)
	convertHandler := handler.NewConvertHandler(convertSvc)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(convertHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(requestLogContext)
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	a.Echo.Use(middleware.BodyLimit(config.DefaultEnvConfig.MAX_UPLOAD_SIZE))
}

func (a *App) RegisterRoutes(convertHandler *handler.ConvertHandler) {
	a.Echo.GET("/healthz", convertHandler.HealthHandler)

	apiGroup := a.Echo.Group("/api")
	apiGroup.POST("/ConvertExcel", convertHandler.ConvertHandler)
}

func (a *App) Run() error {
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

// Shutdown stops the server, waiting for in-flight requests until ctx expires.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// requestLogContext copies the id set by middleware.RequestID into the
// request context so service-level logs carry it.
func requestLogContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		if id == "" {
			id = c.Request().Header.Get(echo.HeaderXRequestID)
		}
		if id != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		}
		return next(c)
	}
}
