package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	httpapi "github.com/smt-platform/production-service/internal/api/http"
	"github.com/smt-platform/production-service/internal/application"
	mongoRepo "github.com/smt-platform/production-service/internal/infrastructure/mongodb"
	"github.com/smt-platform/production-service/internal/infrastructure/notify"
	"github.com/smt-platform/production-service/pkg/kafka"
	"github.com/smt-platform/production-service/pkg/logging"
	"github.com/smt-platform/production-service/pkg/mongodb"
)

const serviceName = "production-service"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting production-service API")

	config := loadConfig()
	ctx := context.Background()

	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	kafkaProducer := kafka.NewProducer(config.Kafka)
	defer kafkaProducer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	db := mongoClient.Database()
	orderRepo := mongoRepo.NewWorkOrderRepository(db)
	blockRepo := mongoRepo.NewBlockRepository(db)
	stockBundleRepo := mongoRepo.NewStockBundleRepository(db)
	catalogRepo := mongoRepo.NewCatalogRepository(db)
	serialRepo := mongoRepo.NewSerialNumberRepository(db)

	dispatcher := notify.NewKafkaDispatcher(kafkaProducer, logger)

	productionService := application.NewProductionService(
		orderRepo, blockRepo, stockBundleRepo, catalogRepo, serialRepo, dispatcher, logger)
	importService := application.NewImportService(
		orderRepo, blockRepo, stockBundleRepo, catalogRepo, dispatcher, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	})
	router.GET("/ready", func(c *gin.Context) {
		if err := mongoClient.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	handlers := httpapi.NewHandlers(productionService, importService)
	httpapi.SetupRoutes(router, handlers)

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.HTTPRequest(c.Request.Context(),
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			time.Since(start), c.ClientIP(), c.Request.UserAgent())
	}
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

func loadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8007"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "smt_production"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:       []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ConsumerGroup: serviceName,
			ClientID:      serviceName,
			BatchSize:     100,
			BatchTimeout:  10 * time.Millisecond,
			RequiredAcks:  -1,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
