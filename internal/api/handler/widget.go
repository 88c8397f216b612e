package handler

import (
	"net/http"
	"reviewwidget/backend/internal/models"
	"reviewwidget/backend/internal/widget"

	"github.com/gin-gonic/gin"
)

type hideRequest struct {
	Scope models.HideScope `json:"scope" binding:"omitempty,oneof=EVERYONE INITIATOR"`
}

type titleRequest struct {
	Title string `json:"title" binding:"max=200"`
}

type sortRequest struct {
	SortBy models.SortOrder `json:"sortBy" binding:"required,oneof=ASCENDING_BY_TIME DESCENDING_BY_TIME ASCENDING_BY_RATE DESCENDING_BY_RATE"`
}

type propertyMenuRequest struct {
	PropertyName  string `json:"propertyName" binding:"required"`
	PropertyValue string `json:"propertyValue"`
}

// GetWidget renders the widget for the caller.
func (h *Handler) GetWidget(c *gin.Context) {
	view, err := h.Widgets.Render(c.Param("id"), identityFrom(c))
	if err != nil {
		h.log.Errorw("Failed to render widget", "widget", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load widget"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) OpenAddForm(c *gin.Context) {
	h.dispatch(c, widget.OpenAddForm{Origin: widget.As(identityFrom(c))})
}

func (h *Handler) OpenEditForm(c *gin.Context) {
	h.dispatch(c, widget.OpenEditForm{Origin: widget.As(identityFrom(c)), ReviewID: c.Param("reviewID")})
}

func (h *Handler) HideReviews(c *gin.Context) {
	var req hideRequest
	if !bindOptional(c, &req) {
		return
	}
	h.dispatch(c, widget.HideReviews{Origin: widget.As(identityFrom(c)), Scope: req.Scope})
}

func (h *Handler) ShowReviews(c *gin.Context) {
	h.dispatch(c, widget.ShowReviews{Origin: widget.As(identityFrom(c))})
}

func (h *Handler) ExportReviews(c *gin.Context) {
	h.dispatch(c, widget.ExportReviews{Origin: widget.As(identityFrom(c))})
}

func (h *Handler) SetTitle(c *gin.Context) {
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.dispatch(c, widget.SetTitle{Origin: widget.As(identityFrom(c)), Title: req.Title})
}

func (h *Handler) SetSort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.dispatch(c, widget.SetSort{Origin: widget.As(identityFrom(c)), SortBy: req.SortBy})
}

func (h *Handler) PropertyMenu(c *gin.Context) {
	var req propertyMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.dispatch(c, widget.PropertyMenu{
		Origin:        widget.As(identityFrom(c)),
		PropertyName:  req.PropertyName,
		PropertyValue: req.PropertyValue,
	})
}

// dispatch applies ev and answers with what it did.
func (h *Handler) dispatch(c *gin.Context, ev widget.Event) {
	res, err := h.Widgets.Dispatch(c.Param("id"), ev)
	if err != nil {
		h.log.Errorw("Failed to apply widget event", "widget", c.Param("id"), "event", ev, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update widget"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// bindOptional binds a JSON body when one was sent.
func bindOptional(c *gin.Context, obj any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
