package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/builderstudio/briefs-backend/internal/apperr"
	"github.com/builderstudio/briefs-backend/internal/logging"
	"github.com/builderstudio/briefs-backend/internal/store"
	"github.com/gin-gonic/gin"
)

const (
	maxListedCollections = 10
	diagnosticErrLen     = 50
)

// Status strings reported by /test.
const (
	StatusBackendRunning   = "✅ Running"
	StatusDBNotAvailable   = "❌ Not Available"
	StatusDBNotInitialized = "⚠️  Available but not initialized"
	StatusDBAvailable      = "✅ Available"
	StatusDBWorking        = "✅ Connected & Working"
	StatusURLSet           = "✅ Set"
	StatusURLNotSet        = "❌ Not Set"
	StatusNameFallback     = "✅ Connected"
	ConnectionConnected    = "Connected"
	ConnectionNotConnected = "Not Connected"
)

type DiagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      *string  `json:"database_url"`
	DatabaseName     *string  `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// DiagnosticsHandler reports store connectivity without ever failing the
// request. Each probe is isolated: an error or panic in one leaves the
// fields filled by the others intact.
type DiagnosticsHandler struct {
	gateway        store.Gateway
	databaseURLSet bool
	timeout        time.Duration
}

func NewDiagnosticsHandler(gateway store.Gateway, databaseURLSet bool) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		gateway:        gateway,
		databaseURLSet: databaseURLSet,
		timeout:        3 * time.Second,
	}
}

func (h *DiagnosticsHandler) Diagnose(c *gin.Context) {
	c.JSON(http.StatusOK, h.collect(c.Request.Context()))
}

func (h *DiagnosticsHandler) collect(ctx context.Context) DiagnosticsResponse {
	log := logging.New(ctx)
	resp := DiagnosticsResponse{
		Backend:          StatusBackendRunning,
		Database:         StatusDBNotAvailable,
		ConnectionStatus: ConnectionNotConnected,
		Collections:      []string{},
	}

	if h.gateway == nil {
		resp.Database = StatusDBNotInitialized
		return resp
	}

	resp.Database = StatusDBAvailable
	resp.ConnectionStatus = ConnectionConnected

	url := StatusURLNotSet
	if h.databaseURLSet {
		url = StatusURLSet
	}
	resp.DatabaseURL = &url

	if err := probe(func() error {
		name := h.gateway.Name()
		if name == "" {
			name = StatusNameFallback
		}
		resp.DatabaseName = &name
		return nil
	}); err != nil {
		log.LogWarnf("diagnostics", "database name: %v", err)
	}

	var names []string
	err := probe(func() error {
		cctx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()
		var err error
		names, err = h.gateway.ListCollections(cctx)
		return err
	})
	if err != nil {
		log.LogWarnf("diagnostics", "list collections: %v", err)
		resp.Database = "⚠️  Connected but Error: " + apperr.Truncate(err.Error(), diagnosticErrLen)
		return resp
	}

	if len(names) > maxListedCollections {
		names = names[:maxListedCollections]
	}
	if names != nil {
		resp.Collections = names
	}
	resp.Database = StatusDBWorking
	return resp
}

// probe runs fn and turns a panic into an error.
func probe(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (h *DiagnosticsHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/test", h.Diagnose)
}
