package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxiservice/api/middleware"
	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/auth"
	"taxiservice/pkg/forms"
	"taxiservice/pkg/logger"
	"taxiservice/service"
)

type Handler struct {
	svc          service.IServiceManager
	sessions     *auth.SessionManager
	log          logger.ILogger
	cookieSecure bool
}

func New(svc service.IServiceManager, sessions *auth.SessionManager, log logger.ILogger, cookieSecure bool) *Handler {
	return &Handler{
		svc:          svc,
		sessions:     sessions,
		log:          log,
		cookieSecure: cookieSecure,
	}
}

// render adds the values every page needs and writes the template.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = middleware.CurrentDriver(c)
	c.HTML(status, name, data)
}

// handleError maps service errors onto error pages.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		h.NotFound(c)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		h.render(c, http.StatusForbidden, "403.html", nil)
	default:
		h.log.Error("request failed",
			logger.String("path", c.Request.URL.Path),
			logger.String("request_id", middleware.RequestID(c)),
			logger.Error(err),
		)
		h.render(c, http.StatusInternalServerError, "500.html", nil)
	}
	c.Abort()
}

func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.html", nil)
}

// pathID reads the :id segment. Anything but a positive integer is a 404,
// as if the route had not matched.
func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		h.NotFound(c)
		return 0, false
	}
	return id, true
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func isPost(c *gin.Context) bool {
	return c.Request.Method == http.MethodPost
}

// formError re-renders the form for field-level failures and falls back to
// the error pages otherwise.
func (h *Handler) formError(c *gin.Context, err error, rerender func(forms.Errors)) {
	errs := forms.Errors{}
	if errs.AddError(err) {
		rerender(errs)
		return
	}
	h.handleError(c, err)
}
