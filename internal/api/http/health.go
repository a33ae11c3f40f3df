package http

import (
	"context"
	"net/http"
	"time"

	"github.com/builderstudio/briefs-backend/internal/logging"
	"github.com/builderstudio/briefs-backend/internal/store"
	"github.com/gin-gonic/gin"
)

const (
	StoreUp       = "up"
	StoreDown     = "down"
	StoreDisabled = "disabled"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db"`
	Store     string    `json:"store,omitempty"`
}

// HealthHandler answers liveness on /health and /healthz (always 200) and
// readiness on /readyz (503 unless the document store answers a ping).
type HealthHandler struct {
	serviceName string
	version     string
	gateway     store.Gateway
	pingTimeout time.Duration
}

func NewHealthHandler(serviceName, version string, gateway store.Gateway) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		gateway:     gateway,
		pingTimeout: time.Second,
	}
}

func (h *HealthHandler) check(ctx context.Context) HealthResponse {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        StoreDisabled,
	}
	if h.gateway == nil {
		return resp
	}

	log := logging.New(ctx)
	if err := probe(func() error {
		resp.Store = h.gateway.Name()
		return nil
	}); err != nil {
		log.LogWarnf("health", "store name: %v", err)
	}

	err := probe(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, h.pingTimeout)
		defer cancel()
		return h.gateway.Ping(pingCtx)
	})
	if err != nil {
		log.LogWarnf("health", "store ping: %v", err)
		resp.DB = StoreDown
		return resp
	}
	resp.DB = StoreUp
	return resp
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, h.check(c.Request.Context()))
}

func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	resp := h.check(c.Request.Context())
	if resp.DB != StoreUp {
		resp.Status = "unavailable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
	r.GET("/readyz", h.ReadinessCheck)
}
