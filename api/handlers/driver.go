package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiservice/pkg/forms"
	"taxiservice/pkg/models"
	"taxiservice/pkg/pagination"
)

const driverListURL = "/drivers/"

func (h *Handler) DriverList(c *gin.Context) {
	var search forms.DriverSearchForm
	_ = c.ShouldBindQuery(&search)

	filter := models.DriverFilter{Username: search.Query()}
	res, err := h.svc.Driver().List(c.Request.Context(), filter, pagination.ParsePage(c.Query("page")), pagination.DefaultPageSize)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "taxi/driver_list.html", gin.H{
		"driver_list": res.Items,
		"page":        res.Page,
		"search_form": search,
		"query":       c.Request.URL.Query(),
	})
}

func (h *Handler) DriverDetail(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	d, err := h.svc.Driver().GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.render(c, http.StatusOK, "taxi/driver_detail.html", gin.H{"driver": d})
}

// DriverCreate lets a logged-in driver add another account.
func (h *Handler) DriverCreate(c *gin.Context) {
	d, ok := h.createDriver(c, "Create driver", "/drivers/create/")
	if !ok {
		return
	}
	redirect(c, d.AbsoluteURL())
}

// createDriver runs DriverCreationForm. It reports ok only when a driver was
// stored; in every other case the response has been written.
func (h *Handler) createDriver(c *gin.Context, title, action string) (*models.Driver, bool) {
	var form forms.DriverCreationForm
	if !isPost(c) {
		h.renderDriverForm(c, title, action, form, forms.Errors{})
		return nil, false
	}

	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs.Any() {
		h.renderDriverForm(c, title, action, form, errs)
		return nil, false
	}

	d, err := h.svc.Driver().Register(c.Request.Context(), form.Driver(), form.Password1)
	if err != nil {
		h.formError(c, err, func(errs forms.Errors) { h.renderDriverForm(c, title, action, form, errs) })
		return nil, false
	}
	return d, true
}

func (h *Handler) renderDriverForm(c *gin.Context, title, action string, form forms.DriverCreationForm, errs forms.Errors) {
	form.Password1, form.Password2 = "", ""
	h.render(c, http.StatusOK, "taxi/driver_form.html", gin.H{
		"title":  title,
		"action": action,
		"form":   form,
		"errors": errs,
	})
}

func (h *Handler) DriverLicenseUpdate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	d, err := h.svc.Driver().GetByID(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	form := forms.DriverLicenseUpdateForm{LicenseNumber: d.License()}
	if !isPost(c) {
		h.renderLicenseForm(c, d, form, forms.Errors{})
		return
	}

	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs.Any() {
		h.renderLicenseForm(c, d, form, errs)
		return
	}

	if err := h.svc.Driver().UpdateLicense(ctx, id, form.LicenseNumber); err != nil {
		h.formError(c, err, func(errs forms.Errors) { h.renderLicenseForm(c, d, form, errs) })
		return
	}
	redirect(c, d.AbsoluteURL())
}

func (h *Handler) renderLicenseForm(c *gin.Context, d *models.Driver, form forms.DriverLicenseUpdateForm, errs forms.Errors) {
	h.render(c, http.StatusOK, "taxi/driver_license_form.html", gin.H{
		"object": d,
		"form":   form,
		"errors": errs,
	})
}

func (h *Handler) DriverDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	d, err := h.svc.Driver().GetByID(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if isPost(c) {
		if err := h.svc.Driver().Delete(ctx, id); err != nil {
			h.handleError(c, err)
			return
		}
		redirect(c, driverListURL)
		return
	}
	h.render(c, http.StatusOK, "taxi/driver_confirm_delete.html", gin.H{"object": d})
}
