package api

import (
	"github.com/gin-gonic/gin"

	"tollgate/internal/api/handlers"
	"tollgate/internal/api/middleware"
	"tollgate/internal/config"
	"tollgate/internal/keys"
	"tollgate/internal/ledger"
	"tollgate/internal/license"
	"tollgate/internal/store"
)

type Server struct {
	Router    *gin.Engine
	Config    config.Config
	Authority *keys.Authority
	Issuer    *license.Issuer
	Ledger    ledger.Ledger

	// RevocationStore and EventStore are nil when running without a
	// database; the admin listing routes are skipped in that case.
	RevocationStore store.RevocationStore
	EventStore      store.EventStore
}

func NewServer(cfg config.Config, authority *keys.Authority, ldgr ledger.Ledger, revocations store.RevocationStore, events store.EventStore) *Server {
	r := gin.Default()

	if len(cfg.TrustedProxies) > 0 {
		r.SetTrustedProxies(cfg.TrustedProxies)
	}

	server := &Server{
		Router:          r,
		Config:          cfg,
		Authority:       authority,
		Issuer:          license.NewIssuer(authority),
		Ledger:          ldgr,
		RevocationStore: revocations,
		EventStore:      events,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	issueRateLimiter := middleware.RateLimitMiddleware(s.Config.RateLimitIssue)
	checkRateLimiter := middleware.RateLimitMiddleware(s.Config.RateLimitCheck)

	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public trial endpoints
	s.Router.POST("/api/trial/issue", issueRateLimiter, handlers.IssueTrialHandler(s.Issuer, s.Config.TrialTTL, s.EventStore))
	s.Router.GET("/api/trial/check", checkRateLimiter, handlers.CheckRevocationHandler(s.Ledger, s.EventStore))
	s.Router.GET("/api/public-key", handlers.PublicKeyHandler(s.Authority))

	// Protected routes
	authorized := s.Router.Group("/")
	authorized.Use(middleware.JWTAuth(s.Config))
	{
		authorized.POST("/api/trial/revoke", handlers.RevokeTrialHandler(s.Ledger, s.EventStore))

		if s.EventStore != nil {
			authorized.GET("/admin/logs", handlers.ListEventLogsHandler(s.EventStore))
		}
		if s.RevocationStore != nil {
			authorized.GET("/admin/revocations", handlers.ListRevocationsHandler(s.RevocationStore))
		}
	}
}
