package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxiservice/pkg/logger"
)

const visitsCookie = "num_visits"

// Index shows the record counts and how often this browser has been here.
func (h *Handler) Index(c *gin.Context) {
	stats, err := h.svc.Stats().Get(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	visits := 1
	if raw, err := c.Cookie(visitsCookie); err == nil {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			visits = n + 1
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(visitsCookie, strconv.Itoa(visits), 0, "/", "", h.cookieSecure, true)

	h.render(c, http.StatusOK, "index.html", gin.H{
		"num_drivers":       stats.Drivers,
		"num_cars":          stats.Cars,
		"num_manufacturers": stats.Manufacturers,
		"num_visits":        visits,
	})
}

// Health answers load balancer probes.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats is the JSON form of the index counters.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats().Get(c.Request.Context())
	if err != nil {
		h.log.Error("failed to load stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
