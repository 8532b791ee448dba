package app

import (
	"github.com/serh11pashkov/resumebuilder/internal/auth"
	"github.com/serh11pashkov/resumebuilder/internal/cache"
	"github.com/serh11pashkov/resumebuilder/internal/config"
	"github.com/serh11pashkov/resumebuilder/internal/domain"
	"github.com/serh11pashkov/resumebuilder/internal/handlers"
	"github.com/serh11pashkov/resumebuilder/internal/repo"
	"github.com/serh11pashkov/resumebuilder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, log *zap.Logger, db *pgxpool.Pool, rdb *redis.Client) error {
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

	tokens, err := auth.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL.Duration())
	if err != nil {
		return err
	}
	revoked := auth.NewRevocationStore(rdb)

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)

	resumeRepo := repo.NewPGResumeRepo(db)
	gallery := cache.NewGalleryCache(rdb, cfg.Redis.DefaultTTL.Duration())
	resumeSvc := service.NewResumeService(resumeRepo, gallery)

	authHandler := handlers.NewAuthHandler(userSvc, tokens, revoked, log)
	userHandler := handlers.NewUserHandler(userSvc, log)
	resumeHandler := handlers.NewResumeHandler(resumeSvc, log)
	publicHandler := handlers.NewPublicHandler(resumeSvc, log)

	api.POST("/auth/signin", authHandler.Signin)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/signout", auth.RequireAuth(tokens, revoked), authHandler.Signout)

	registerPublicRoutes(api, publicHandler)

	protected := api.Group("", auth.RequireAuth(tokens, revoked))
	registerUserRoutes(protected, userHandler)
	registerResumeRoutes(protected, resumeHandler)

	return nil
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Resume Builder API",
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
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
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

func registerUserRoutes(api *gin.RouterGroup, h *handlers.UserHandler) {
	api.GET("/users/me", h.Me)
	api.PUT("/users/me", h.UpdateMe)
	api.PUT("/users/me/password", h.UpdatePassword)
	api.GET("/users", auth.RequireRole(domain.RoleAdmin), h.List)
}

func registerResumeRoutes(api *gin.RouterGroup, h *handlers.ResumeHandler) {
	api.GET("/resumes", auth.RequireRole(domain.RoleAdmin), h.List)
	api.GET("/resumes/user/:userId", h.ListByUser)
	api.GET("/resumes/:id", h.Get)
	api.POST("/resumes", h.Create)
	api.PUT("/resumes/:id", h.Update)
	api.DELETE("/resumes/:id", h.Delete)
	api.POST("/resumes/:id/publish", h.Publish)
	api.POST("/resumes/:id/unpublish", h.Unpublish)
	api.GET("/resumes/:id/pdf", h.ExportPDF)
}

func registerPublicRoutes(api *gin.RouterGroup, h *handlers.PublicHandler) {
	api.GET("/public/resumes", h.Gallery)
	api.GET("/public/resumes/:url", h.GetByURL)
	api.GET("/public/resumes/:url/pdf", h.ExportPDF)
}
