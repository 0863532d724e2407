package handlers

import (
	"html/template"
	"net/http"

	"auth_portal/internal/logger"
	"auth_portal/internal/service"
	"auth_portal/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.SetHTMLTemplate(template.Must(web.Templates()))
	router.StaticFS("/static", http.FS(web.Static()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", h.health)

	h.registerPageRoutes(router)
	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	router.GET("/ws/session", h.sessionStream)

	return router
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/register", h.registerPage)
	r.GET("/login", h.loginPage)
	r.GET("/dashboard", h.dashboardPage)
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	// form posts from the pages
	r.POST("/register", h.register)
	r.POST("/login", h.login)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", h.logout)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		api.GET("/me", h.me)
	}
}
