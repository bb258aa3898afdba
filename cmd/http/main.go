package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"telemed-schedule-service/internal/app/config"
	"telemed-schedule-service/internal/app/delivery/http/middlewares"
	"telemed-schedule-service/internal/app/delivery/http/routers"
	"telemed-schedule-service/internal/app/drivers/database"
	"telemed-schedule-service/internal/app/drivers/logger"
	"telemed-schedule-service/internal/app/drivers/messaging"
	"telemed-schedule-service/internal/app/services/core/schedules"
	"telemed-schedule-service/internal/app/services/fhir_spark/resources"
	"telemed-schedule-service/internal/app/services/shared/audit"
	"telemed-schedule-service/internal/app/services/shared/events"
	"telemed-schedule-service/internal/app/services/shared/redis"
	"time"

	"github.com/go-chi/chi/v5"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	defer zapLogger.Sync()

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	worker := bootstrapingTheApp(config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         log,
		ZapLogger:      zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	})

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	worker.Start(workerCtx)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	cancelWorker()
	worker.Stop()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	// Shutdown the server
	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap config.Bootstrap) *schedules.Worker {
	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)

	// Audit trail
	auditRepository := audit.NewScheduleAuditMongoRepository(
		bootstrap.MongoDB,
		bootstrap.DriverConfig.MongoDB.DbName,
	)

	// Events
	eventPublisher, err := events.NewPublisher(bootstrap.RabbitMQ, bootstrap.ZapLogger, bootstrap.InternalConfig.App.ScheduleEventsQueue)
	if err != nil {
		bootstrap.Logger.Fatalf("Failed to initialize event publisher: %v", err)
	}

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.ZapLogger, bootstrap.InternalConfig)

	// FHIR store
	resourceFhirClient := resources.NewResourceFhirClient(bootstrap.InternalConfig.FHIR.BaseUrl)

	// Schedules
	scheduleUsecase := schedules.NewScheduleUsecase(
		resourceFhirClient,
		redisRepository,
		auditRepository,
		eventPublisher,
		bootstrap.ZapLogger,
		bootstrap.InternalConfig,
	)
	scheduleController := schedules.NewScheduleController(bootstrap.ZapLogger, scheduleUsecase)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, scheduleController)

	return schedules.NewWorker(bootstrap.ZapLogger, bootstrap.InternalConfig, resourceFhirClient, scheduleUsecase)
}
