package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/auth"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/service"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	driverKey    = "driver"
)

const LoginURL = "/accounts/login/"

// RequestLogger tags each request with an id and logs it once it completes.
func RequestLogger(log logger.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", status),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
			logger.String("request_id", requestID),
		}
		if d := CurrentDriver(c); d != nil {
			fields = append(fields, logger.Int64("driver_id", d.ID))
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warning("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Session resolves the session cookie to an active driver. Requests without
// a usable session pass through anonymously.
func Session(sessions *auth.SessionManager, drivers service.DriverService, log logger.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := sessions.Parse(token)
		if err != nil {
			log.Debug("rejected session cookie", logger.Error(err))
			c.Next()
			return
		}

		id, _ := claims.DriverID()
		d, err := drivers.Active(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				log.Error("failed to load session driver", logger.Int64("driver_id", id), logger.Error(err))
			}
			c.Next()
			return
		}

		c.Set(driverKey, d)
		c.Next()
	}
}

// CurrentDriver is the logged-in driver, or nil for anonymous requests.
func CurrentDriver(c *gin.Context) *models.Driver {
	v, ok := c.Get(driverKey)
	if !ok {
		return nil
	}
	d, _ := v.(*models.Driver)
	return d
}

// LoginURLFor is the login page that returns to next afterwards.
func LoginURLFor(next string) string {
	return LoginURL + "?" + url.Values{"next": {next}}.Encode()
}

// LoginRequired sends anonymous visitors to the login page before any data
// is touched.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentDriver(c) == nil {
			c.Redirect(http.StatusFound, LoginURLFor(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffRequired guards the admin pages. Anonymous visitors go to login and
// logged-in non-staff drivers get a 403 page.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := CurrentDriver(c)
		if d == nil {
			c.Redirect(http.StatusFound, LoginURLFor(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !d.IsStaff {
			c.HTML(http.StatusForbidden, "403.html", gin.H{"user": d})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Recovery logs panics and answers with the 500 page.
func Recovery(log logger.ILogger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			logger.Any("panic", recovered),
			logger.String("path", c.Request.URL.Path),
			logger.String("request_id", RequestID(c)),
		)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{"user": CurrentDriver(c)})
		c.Abort()
	})
}
