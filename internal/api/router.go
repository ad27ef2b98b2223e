package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"maintenance-backend/config"
	"maintenance-backend/internal/mw"
	"maintenance-backend/internal/service"
	"maintenance-backend/internal/store"
	"maintenance-backend/internal/token"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, tokens *token.Manager, notifier service.Notifier) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Authorization"},
		AllowCredentials: true,
	}))

	auth := service.NewAuth(s, tokens)
	users := service.NewUsers(s)
	clients := service.NewClients(s)
	machines := service.NewMachines(s)
	interventions := service.NewInterventions(s, notifier)
	handler := NewHandler(s, auth, users, clients, machines, interventions)

	api := r.Group("/api")
	api.Use(mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst))

	api.POST("/auth/login", handler.Login)

	userCacheTTL := time.Duration(cfg.Auth.UserCacheTTLSeconds) * time.Second
	protected := api.Group("")
	protected.Use(mw.Auth(tokens, s, userCacheTTL), mw.Authorize())
	{
		protected.GET("/users", handler.ListUsers)
		protected.GET("/users/:id", handler.GetUser)
		protected.POST("/users", handler.CreateUser)
		protected.PUT("/users/:id", handler.UpdateUser)
		protected.DELETE("/users/:id", handler.DeleteUser)

		protected.GET("/clients", handler.ListClients)
		protected.GET("/clients/:id", handler.GetClient)
		protected.POST("/clients", handler.CreateClient)
		protected.PUT("/clients/:id", handler.UpdateClient)
		protected.DELETE("/clients/:id", handler.DeleteClient)

		protected.GET("/machines", handler.ListMachines)
		protected.GET("/machines/:id", handler.GetMachine)
		protected.POST("/machines", handler.CreateMachine)
		protected.PUT("/machines/:id", handler.UpdateMachine)
		protected.DELETE("/machines/:id", handler.DeleteMachine)

		protected.GET("/interventions", handler.ListInterventions)
		protected.GET("/interventions/my", handler.MyInterventions)
		protected.GET("/interventions/technician/:technicianId", handler.InterventionsByTechnician)
		protected.GET("/interventions/:id", handler.GetIntervention)
		protected.POST("/interventions", handler.CreateIntervention)
		protected.PUT("/interventions/:id", handler.UpdateIntervention)
		protected.PATCH("/interventions/:id", handler.TechnicianUpdateIntervention)
		protected.DELETE("/interventions/:id", handler.DeleteIntervention)

		protected.PUT("/subscriptions", handler.PutSubscription)
		protected.DELETE("/subscriptions", handler.DeleteSubscription)
	}

	return r
}
