package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/lakowske/marketbridge/src/interfaces"
	"github.com/lakowske/marketbridge/src/logger"
	"github.com/lakowske/marketbridge/src/models"
	"github.com/lakowske/marketbridge/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// -----------------------------------------------------------------------------
// BridgeServer
// Hosts the WebSocket endpoint plus the health/status/metrics routes, and
// owns the bounded broadcast queue bridging broker callbacks to clients.
// -----------------------------------------------------------------------------

type BridgeServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine

	// WebSocket clients
	clients    map[*Client]struct{}
	clientsMu  sync.RWMutex
	broadcast  chan interface{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	// Bridge wiring (set after construction, see AttachBridge)
	router    interfaces.ICommandRouter
	status    interfaces.IBridgeStatus
	broker    interfaces.IBrokerGateway
	scheduler *utils.MarketScheduler
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewBridgeServer(cfg *models.MConfig, logger *logger.Logger) *BridgeServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &BridgeServer{
		Config:  cfg,
		Logger:  logger,
		engine:  gin.Default(),
		clients: make(map[*Client]struct{}),
		// The bounded queue: broker callbacks enqueue non-blocking,
		// the hub loop drains in order.
		broadcast:  make(chan interface{}, cfg.Bridge.QueueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// setup web routes
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------

// AttachBridge wires the command router and status providers. Must be
// called before Start.
func (s *BridgeServer) AttachBridge(router interfaces.ICommandRouter, status interfaces.IBridgeStatus, broker interfaces.IBrokerGateway, scheduler *utils.MarketScheduler) {
	s.router = router
	s.status = status
	s.broker = broker
	s.scheduler = scheduler
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *BridgeServer) setupRoutes() {
	// REST API endpoints
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/status", s.getStatus)

	// Prometheus exposition
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Handler exposes the HTTP handler for embedding in test servers.
func (s *BridgeServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------

func (s *BridgeServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *BridgeServer) Stop() error {
	s.stopOnce.Do(func() { close(s.done) })
	return nil
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *BridgeServer) getHealth(c *gin.Context) {
	s.clientsMu.RLock()
	connections := len(s.clients)
	s.clientsMu.RUnlock()

	brokerConnected := false
	if s.broker != nil {
		brokerConnected = s.broker.IsConnected()
	}

	c.JSON(200, gin.H{
		"status":           "ok",
		"connections":      connections,
		"broker_connected": brokerConnected,
	})
}

// -----------------------------------------------------------------------------

func (s *BridgeServer) getStatus(c *gin.Context) {
	s.clientsMu.RLock()
	connections := len(s.clients)
	s.clientsMu.RUnlock()

	status := gin.H{
		"connections":    connections,
		"queue_depth":    len(s.broadcast),
		"queue_capacity": cap(s.broadcast),
	}

	if s.status != nil {
		status["active_subscriptions"] = s.status.ActiveSubscriptions()
		status["pending_resolutions"] = s.status.PendingResolutions()
		status["next_order_id"] = s.status.NextOrderID()
	}
	if s.scheduler != nil {
		status["market_open"] = s.scheduler.AnyMarketOpen()
		status["exchanges"] = s.scheduler.TrackedExchanges()
	}

	c.JSON(200, status)
}
