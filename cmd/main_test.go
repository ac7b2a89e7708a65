package main

import (
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"

	"credit-engine/internal/batch"
	"credit-engine/internal/config"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/logging"
)

func TestInitializeApp(t *testing.T) {
	cfg, log := initializeApp()

	assert.NotNil(t, cfg, "Config should not be nil")
	assert.NotNil(t, log, "Logger should not be nil")
}

func TestInitializeEventPublisherWhenDisabled(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	cfg := &config.Config{RabbitMQ: config.RabbitMQConfig{Enabled: false}}

	publisher, conn := initializeEventPublisher(cfg, logger)

	assert.IsType(t, event.NopPublisher{}, publisher)
	assert.Nil(t, conn)
}

func TestStartBatchJobsWhenDisabled(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	cfg := &config.Config{Batch: config.BatchConfig{Enabled: false}}

	scheduler := startBatchJobs(cfg, logger, &batch.OverLimitAuditJob{})
	defer scheduler.Stop()

	assert.Empty(t, scheduler.Entries(), "no jobs should be scheduled when batch is disabled")
}

func TestStartBatchJobsSchedulesAudit(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	cfg := &config.Config{Batch: config.BatchConfig{Enabled: true, OverLimitAuditAt: "0 2 * * *"}}

	scheduler := startBatchJobs(cfg, logger, &batch.OverLimitAuditJob{})
	defer scheduler.Stop()

	assert.Len(t, scheduler.Entries(), 1)
}

func TestStartServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         8080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}
	logger := logging.NewLogger(config.LoggerConfig{})
	router := http.NewServeMux()

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)

	assert.NotNil(t, srv, "Server should not be nil")
	assert.NotNil(t, serverErrors, "Server errors channel should not be nil")
	assert.NotNil(t, shutdownChan, "Shutdown channel should not be nil")
}

func TestHandleShutdown(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	cronScheduler := cron.New()
	srv := &http.Server{}
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)

	go func() {
		shutdownChan <- syscall.SIGINT
	}()

	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
	assert.True(t, true, "Graceful shutdown should complete without errors")
}
