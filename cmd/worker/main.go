package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"binaryledger/internal/models"
	"binaryledger/internal/schedule"
	"binaryledger/pkg/config"

	"github.com/joho/godotenv"
	logrus "github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	config.InitDB()

	// Initialize redis balance cache (optional)
	config.InitRedis()

	// Start the recurring jobs
	c := schedule.Start()
	defer c.Stop()

	// Consume settlement events when RabbitMQ is configured
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer config.RabbitMQ.Close()

		msgConsumer, err := config.NewConsumer(config.BinaryEventsQueue)
		if err != nil {
			logrus.Fatal("Failed to create consumer: ", err)
		}
		defer msgConsumer.Close()

		go func() {
			err := msgConsumer.Consume(func(msg []byte) error {
				var event map[string]interface{}
				if err := json.Unmarshal(msg, &event); err != nil {
					logrus.Errorf("Failed to unmarshal event: %v", err)
					// poison message, drop instead of requeueing forever
					return nil
				}

				kind, _ := event["event"].(string)
				logrus.WithField("event", kind).Info("Settlement event received")

				meta := models.JSONMap(event)
				return config.DB.Create(&models.SystemLog{
					Level:   "INFO",
					Message: "settlement event: " + kind,
					Module:  "worker",
					Meta:    meta,
				}).Error
			})
			if err != nil {
				logrus.Errorf("Consumer stopped: %v", err)
			}
		}()
		logrus.Info("Binary events consumer started")
	} else {
		logrus.Info("RabbitMQ not configured, running scheduler only")
	}

	// Block until interrupted
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Worker shutting down")
}
