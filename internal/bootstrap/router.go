package bootstrap

import (
	"context"

	httpapi "github.com/builderstudio/briefs-backend/internal/api/http"
	"github.com/builderstudio/briefs-backend/internal/api/http/middleware"
	briefshttp "github.com/builderstudio/briefs-backend/internal/briefs/http"
	"github.com/builderstudio/briefs-backend/internal/logging"
	"github.com/builderstudio/briefs-backend/internal/store"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Gateway        store.Gateway // nil when the store could not be opened
	DatabaseURLSet bool
	TrustedProxies []string // nil trusts no proxy headers
	Briefs         briefshttp.Options
	RateLimitRPS   float64
	RateLimitBurst int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(dep.TrustedProxies); err != nil {
		logging.New(context.Background()).LogErrorf("build_router", "trusted proxies ignored: %v", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORS())

	r.GET("/", httpapi.Root)

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Gateway)
	healthHandler.RegisterRoutes(r)

	diagnostics := httpapi.NewDiagnosticsHandler(dep.Gateway, dep.DatabaseURLSet)
	diagnostics.RegisterRoutes(r)

	var limiter *middleware.RateLimiter
	if dep.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(dep.RateLimitRPS, dep.RateLimitBurst)
	}

	briefs := r.Group("/api/briefs")
	briefshttp.NewHandler(dep.Gateway, dep.Briefs).Register(briefs, limiter.Middleware())

	return r
}
