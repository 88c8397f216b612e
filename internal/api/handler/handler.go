package handler

import (
	"reviewwidget/backend/internal/bridge"
	"reviewwidget/backend/internal/models"
	"reviewwidget/backend/internal/widget"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WidgetService applies widget events and renders widgets.
type WidgetService interface {
	Dispatch(widgetID string, ev widget.Event) (*widget.Result, error)
	Render(widgetID string, viewer *models.Identity) (*widget.View, error)
}

// SessionLookup resolves companion session handles.
type SessionLookup interface {
	GetSession(handle string) (*models.CompanionSession, error)
}

// Handler holds what the HTTP and WebSocket endpoints need.
type Handler struct {
	Widgets  WidgetService
	Hub      *bridge.ManagerService
	Sessions SessionLookup

	jwtSecret []byte
	log       *zap.SugaredLogger
}

func NewHandler(widgets WidgetService, hub *bridge.ManagerService, sessions SessionLookup, jwtSecret string, log *zap.SugaredLogger) *Handler {
	return &Handler{
		Widgets:   widgets,
		Hub:       hub,
		Sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		log:       log,
	}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/identity", h.IssueIdentity)
	r.GET("/ws/companion", h.ServeCompanion)

	api := r.Group("/", h.IdentityMiddleware())
	api.GET("/ws/widgets/:id", h.ServeViewer)

	w := api.Group("/widgets/:id")
	w.GET("", h.GetWidget)
	w.POST("/reviews/form", h.OpenAddForm)
	w.POST("/reviews/:reviewID/form", h.OpenEditForm)
	w.POST("/hide", h.HideReviews)
	w.POST("/show", h.ShowReviews)
	w.POST("/export", h.ExportReviews)
	w.PUT("/title", h.SetTitle)
	w.PUT("/sort", h.SetSort)
	w.POST("/property-menu", h.PropertyMenu)
}
