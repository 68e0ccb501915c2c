package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lakowske/marketbridge/src/bridge"
	"github.com/lakowske/marketbridge/src/broker"
	"github.com/lakowske/marketbridge/src/config"
	"github.com/lakowske/marketbridge/src/helpers"
	"github.com/lakowske/marketbridge/src/logger"
	"github.com/lakowske/marketbridge/src/server"

	"github.com/joho/godotenv"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Optional .env with broker connection overrides
	_ = godotenv.Load()

	// Load config from YAML file
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyEnvOverrides(config)

	// Setup logger
	appLogger := logger.NewLogger(config.LogLevel, config.Name)

	// 2. Setup Components
	// The server owns the bounded broadcast queue and the client set.
	srv := server.NewBridgeServer(config.MConfig, appLogger)

	gateway := broker.NewTWSGateway(appLogger)
	resolver := bridge.NewSubscriptionResolver(gateway, srv, config.MConfig, appLogger)
	orders := bridge.NewOrderManager(gateway, appLogger)
	adapter := bridge.NewCallbackAdapter(srv, resolver, orders, appLogger)
	gateway.BindSink(adapter)

	router := bridge.NewRouter(resolver, orders, appLogger)
	srv.AttachBridge(router, bridge.NewStatus(resolver, orders), gateway, resolver.Scheduler())

	// 3. Connect to TWS/IB Gateway with retry
	retryDelay := time.Duration(config.Broker.ConnectRetryDelaySeconds) * time.Second
	err = helpers.RetryWithBackoff(appLogger, "broker connect", config.Broker.ConnectRetries, retryDelay, func() error {
		return gateway.Connect(config.Broker.Host, config.Broker.Port, config.Broker.ClientID)
	})
	if err != nil {
		appLogger.Critical("Failed to connect to broker: %v", err)
	}

	// 4. Background sweep for front-month resolutions that never complete
	stop := make(chan struct{})
	resolver.StartPendingSweeper(stop)

	// 5. Start Server
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	appLogger.Info("Bridge running on %s:%d (broker %s:%d)",
		config.Host, config.Port, config.Broker.Host, config.Broker.Port)

	// 6. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	close(stop)
	gateway.Disconnect()
	srv.Stop()
}

// -----------------------------------------------------------------------------

// applyEnvOverrides lets a .env file (or the environment) override the
// broker connection settings without editing the YAML.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("IB_HOST"); v != "" {
		cfg.Broker.Host = v
	}
	if v := os.Getenv("IB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Broker.Port = port
		}
	}
	if v := os.Getenv("IB_CLIENT_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.Broker.ClientID = id
		}
	}
}
