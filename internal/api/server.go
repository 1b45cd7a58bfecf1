package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wellhub/internal/cache"
	"wellhub/internal/config"
	"wellhub/internal/database"
	"wellhub/internal/handlers"
	"wellhub/internal/logger"
	"wellhub/internal/messaging"
	"wellhub/internal/middleware"
	"wellhub/internal/repository"
	"wellhub/internal/search"
	"wellhub/internal/service"
)

// Server is the HTTP API server.
type Server struct {
	router   *gin.Engine
	db       *database.DB
	nats     *messaging.Client
	es       *search.Client
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

// NewServer connects the backing services and builds the router. The
// database is required; NATS, Elasticsearch, and Valkey are optional and
// their features are disabled when the connection fails.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("failed to run migrations", "error", err)
	}

	natsClient, err := messaging.Connect(cfg.NATS)
	if err != nil {
		logger.Get().Warn("NATS unavailable, domain events disabled", "error", err)
		natsClient = nil
	}

	esClient, err := search.NewClient(cfg.Search)
	if err != nil {
		logger.Get().Warn("Elasticsearch unavailable, search served by database", "error", err)
		esClient = nil
	}

	valkeyClient, err := cache.NewValkeyClient(cfg.Cache)
	if err != nil {
		logger.Get().Warn("Valkey unavailable, list caching disabled", "error", err)
		valkeyClient = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, esClient, valkeyClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.Identity())

	server := &Server{
		router:   router,
		db:       db,
		nats:     natsClient,
		es:       esClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.New(s.services, s.valkey)

	api := s.router.Group("/api")
	{
		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.GET("/:id", h.GetEvent)
			events.POST("", middleware.RequireAdmin(), h.CreateEvent)
			events.PATCH("/:id", middleware.RequireAdmin(), h.UpdateEvent)
			events.DELETE("/:id", middleware.RequireAdmin(), h.DeleteEvent)
			events.GET("/:id/recount", middleware.RequireAdmin(), h.RecountEvent)

			events.POST("/:id/register", middleware.RequireUser(), h.Register)
			events.GET("/:id/registration", middleware.RequireUser(), h.GetMyRegistration)
			events.GET("/:id/registrations", middleware.RequireAdmin(), h.ListRegistrations)
			events.GET("/:id/attendance", middleware.RequireAdmin(), h.ListAttendance)
		}

		registrations := api.Group("/registrations")
		{
			registrations.GET("/:id", middleware.RequireUser(), h.GetRegistration)
			registrations.PATCH("/:id/cancel", middleware.RequireUser(), h.CancelRegistration)
			registrations.POST("/:id/attendance", middleware.RequireAdmin(), h.MarkAttendance)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	if err := s.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}

	searchStatus := "disabled"
	if s.es != nil {
		searchStatus = "ok"
		if err := s.es.HealthCheck(c.Request.Context()); err != nil {
			searchStatus = "unhealthy"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "wellhub-events-api",
		"search":  searchStatus,
	})
}

// GetRouter returns the router for testing.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes backing connections.
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			logger.Get().Error("error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		return s.db.Close()
	}

	return nil
}
