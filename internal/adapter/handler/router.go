package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/http/middleware"
	"github.com/ShivamSharma6214/MeetAct/internal/usecase/auth"
	"github.com/ShivamSharma6214/MeetAct/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	oauthService    *auth.OAuthService
	authHandler     *Auth
	pipelineHandler *Pipeline
	meetingHandler  *Meeting
	trackerHandler  *Tracker
	eventsHandler   *Events
	storageHandler  *Storage
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	oauthService *auth.OAuthService,
	authHandler *Auth,
	pipelineHandler *Pipeline,
	meetingHandler *Meeting,
	trackerHandler *Tracker,
	eventsHandler *Events,
	storageHandler *Storage,
) *Router {
	return &Router{
		cfg:             cfg,
		oauthService:    oauthService,
		authHandler:     authHandler,
		pipelineHandler: pipelineHandler,
		meetingHandler:  meetingHandler,
		trackerHandler:  trackerHandler,
		eventsHandler:   eventsHandler,
		storageHandler:  storageHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)

	authed := v1.Group("", middleware.EchoAuth(rt.oauthService))
	rt.setupPipelineRoutes(authed)
	rt.setupMeetingRoutes(authed)
	rt.setupTrackerRoutes(authed)
	rt.setupStorageRoutes(authed)
}

func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.GET("/google/login", rt.authHandler.GoogleLogin)
	authGroup.GET("/google/callback", rt.authHandler.GoogleCallback)
	authGroup.POST("/refresh", rt.authHandler.RefreshToken)
	authGroup.GET("/me", rt.authHandler.Me, middleware.EchoAuth(rt.oauthService))
}

func (rt *Router) setupPipelineRoutes(g *echo.Group) {
	pipelineGroup := g.Group("/pipeline")

	pipelineGroup.POST("/extract", rt.pipelineHandler.Extract)
	pipelineGroup.POST("/transcribe", rt.pipelineHandler.Transcribe)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")

	meetingGroup.POST("", rt.meetingHandler.Create)
	meetingGroup.GET("", rt.meetingHandler.List)
	meetingGroup.GET("/:id", rt.meetingHandler.Get)
	meetingGroup.DELETE("/:id", rt.meetingHandler.Delete)
	meetingGroup.GET("/:id/action-items", rt.meetingHandler.ListItems)
	meetingGroup.GET("/:id/action-items/export", rt.meetingHandler.ExportItems)
	meetingGroup.GET("/:id/events", rt.eventsHandler.Stream)

	itemGroup := g.Group("/action-items")
	itemGroup.PATCH("/:id", rt.meetingHandler.UpdateItem)
	itemGroup.DELETE("/:id", rt.meetingHandler.DeleteItem)

	integrationGroup := g.Group("/integrations")
	integrationGroup.POST("/jira", rt.meetingHandler.SaveJiraIntegration)
	integrationGroup.GET("", rt.meetingHandler.ListIntegrations)
}

func (rt *Router) setupTrackerRoutes(g *echo.Group) {
	trackerGroup := g.Group("/tracker")

	trackerGroup.POST("/publish", rt.trackerHandler.Publish)
}

func (rt *Router) setupStorageRoutes(g *echo.Group) {
	storageGroup := g.Group("/storage")

	storageGroup.POST("/audio", rt.storageHandler.UploadAudio)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
