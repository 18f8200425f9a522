package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/auth"
	"taxiservice/pkg/forms"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
)

const msgInvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

func (h *Handler) Login(c *gin.Context) {
	var form forms.LoginForm
	if !isPost(c) {
		form.Next = c.Query("next")
		h.renderLogin(c, form, forms.Errors{})
		return
	}

	if err := c.ShouldBind(&form); err != nil {
		errs := forms.Errors{}
		errs.Add(forms.NonFieldErrors, msgInvalidLogin)
		h.renderLogin(c, form, errs)
		return
	}
	if errs := form.Validate(); errs.Any() {
		h.renderLogin(c, form, errs)
		return
	}

	d, err := h.svc.Driver().Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			errs := forms.Errors{}
			errs.Add(forms.NonFieldErrors, msgInvalidLogin)
			h.renderLogin(c, form, errs)
			return
		}
		h.handleError(c, err)
		return
	}

	if err := h.startSession(c, d); err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Info("driver logged in", logger.Int64("driver_id", d.ID))
	redirect(c, safeNext(form.Next))
}

func (h *Handler) renderLogin(c *gin.Context, form forms.LoginForm, errs forms.Errors) {
	form.Password = ""
	h.render(c, http.StatusOK, "registration/login.html", gin.H{
		"form":   form,
		"errors": errs,
		"next":   form.Next,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.clearSession(c)
	c.HTML(http.StatusOK, "registration/logged_out.html", gin.H{})
}

// Register is the public sign-up page. The new driver is logged in straight away.
func (h *Handler) Register(c *gin.Context) {
	d, ok := h.createDriver(c, "Sign up", "/accounts/register/")
	if !ok {
		return
	}
	if err := h.startSession(c, d); err != nil {
		h.handleError(c, err)
		return
	}
	redirect(c, d.AbsoluteURL())
}

func (h *Handler) startSession(c *gin.Context, d *models.Driver) error {
	token, err := h.sessions.Issue(d.ID, d.Username, d.IsStaff)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookieName, token, int(h.sessions.TTL()/time.Second), "/", "", h.cookieSecure, true)
	return nil
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", h.cookieSecure, true)
}

// safeNext only follows local paths so the login form cannot be used as an
// open redirect.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
