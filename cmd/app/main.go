package main

import (
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"

	"haulboard/cmd"
	httpadapter "haulboard/internal/adapters/in/http"
	"haulboard/internal/adapters/out/postgres/jobrepo"
	"haulboard/internal/jobs"
	"haulboard/internal/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db := connectDB(configs)
	metrics.Register()

	app := cmd.NewCompositionRoot(configs, db, logger)

	jobManager := jobs.NewJobManager(
		app.CreateSweepNotificationsCommandHandler(),
		configs.SweepSchedule,
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, logger, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:              goDotEnvVariable("HTTP_PORT"),
		DBHost:                goDotEnvVariable("DB_HOST"),
		DBPort:                goDotEnvVariable("DB_PORT"),
		DBUser:                goDotEnvVariable("DB_USER"),
		DBPassword:            goDotEnvVariable("DB_PASSWORD"),
		DBName:                goDotEnvVariable("DB_NAME"),
		DBSslMode:             goDotEnvVariable("DB_SSLMODE"),
		WebhookScheduledURL:   goDotEnvVariable("WEBHOOK_SCHEDULED_URL"),
		WebhookGettingLoadURL: goDotEnvVariable("WEBHOOK_GETTING_LOAD_URL"),
		SweepSchedule:         goDotEnvVariable("SWEEP_SCHEDULE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func connectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.AutoMigrate(&jobrepo.JobDTO{}, &jobrepo.JobHistoryDTO{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func startWebServer(app *cmd.CompositionRoot, logger *slog.Logger, port string) {
	e := echo.New()

	server := httpadapter.NewServer(
		app.CreateCreateJobCommandHandler(),
		app.CreateClaimJobCommandHandler(),
		app.CreateAdvanceStatusCommandHandler(),
		app.CreateHoldJobCommandHandler(),
		app.CreateResumeJobCommandHandler(),
		app.CreateSelectTripCommandHandler(),
		app.CreateGetActiveJobsQueryHandler(),
		app.CreateGetDriverJobsQueryHandler(),
		app.CreateReactor(),
		app.UnitOfWorkFactory(),
		logger,
	)
	server.RegisterRoutes(e)

	e.GET("/health", func(c echo.Context) error {
		return c.String(nethttp.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
