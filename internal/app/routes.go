package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/muhzarfan/backend-cttn/internal/auth"
	"github.com/muhzarfan/backend-cttn/internal/cache"
	"github.com/muhzarfan/backend-cttn/internal/config"
	"github.com/muhzarfan/backend-cttn/internal/handlers"
	"github.com/muhzarfan/backend-cttn/internal/repo"
	"github.com/muhzarfan/backend-cttn/internal/service"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api")

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(tokens, userSvc, cfg.JWT.ExpiresInLabel())
	registerAuthRoutes(api, authHandler, tokens, userSvc)

	noteRepo := repo.NewPGNoteRepo(db)
	noteCache := cache.NewNoteCache(rdb, cfg.Redis.DefaultTTL.Duration())
	noteSvc := service.NewNoteService(noteRepo, noteCache)
	noteHandler := handlers.NewNoteHandler(noteSvc)
	notes := api.Group("/notes", auth.RequireAuth(tokens, userSvc))
	registerNoteRoutes(notes, noteHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"success": true,
			"message": "Welcome to NotesApp API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"success": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, tokens *auth.TokenService, users auth.UserResolver) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/auth/profile", auth.RequireAuth(tokens, users), h.GetProfile)
	api.PUT("/auth/profile", auth.RequireAuth(tokens, users), h.UpdateProfile)
	// Logout works with or without a caller identity.
	api.POST("/auth/logout", auth.OptionalAuth(tokens, users), h.Logout)
}

func registerNoteRoutes(api *gin.RouterGroup, h *handlers.NoteHandler) {
	api.GET("", h.List)
	api.GET("/stats", h.Stats)
	api.GET("/:id", h.Get)
	api.POST("", h.Create)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)
}
