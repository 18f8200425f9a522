package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiservice/pkg/forms"
	"taxiservice/pkg/models"
	"taxiservice/pkg/pagination"
)

const (
	adminDriversURL = "/admin/drivers/"
	adminCarsURL    = "/admin/cars/"
)

func (h *Handler) AdminIndex(c *gin.Context) {
	stats, err := h.svc.Stats().Get(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin/index.html", gin.H{"stats": stats})
}

func (h *Handler) AdminDriverList(c *gin.Context) {
	var query forms.AdminDriverFilter
	_ = c.ShouldBindQuery(&query)

	res, err := h.svc.Driver().List(c.Request.Context(), query.Filter(), pagination.ParsePage(c.Query("page")), pagination.AdminPageSize)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "admin/driver_changelist.html", gin.H{
		"driver_list": res.Items,
		"page":        res.Page,
		"filter":      query,
		"query":       c.Request.URL.Query(),
	})
}

func (h *Handler) AdminDriverAdd(c *gin.Context) {
	var form forms.AdminDriverAddForm
	if !isPost(c) {
		h.renderAdminDriverAdd(c, form, forms.Errors{})
		return
	}

	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs.Any() {
		h.renderAdminDriverAdd(c, form, errs)
		return
	}

	if _, err := h.svc.Driver().Register(c.Request.Context(), form.Driver(), form.Password1); err != nil {
		h.formError(c, err, func(errs forms.Errors) { h.renderAdminDriverAdd(c, form, errs) })
		return
	}
	redirect(c, adminDriversURL)
}

func (h *Handler) renderAdminDriverAdd(c *gin.Context, form forms.AdminDriverAddForm, errs forms.Errors) {
	form.Password1, form.Password2 = "", ""
	h.render(c, http.StatusOK, "admin/driver_add.html", gin.H{
		"form":   form,
		"errors": errs,
	})
}

func (h *Handler) AdminDriverChange(c *gin.Context) {
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

	if !isPost(c) {
		h.renderAdminDriverChange(c, d, forms.AdminDriverChangeFormFrom(d), forms.Errors{})
		return
	}

	var form forms.AdminDriverChangeForm
	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs.Any() {
		h.renderAdminDriverChange(c, d, form, errs)
		return
	}

	updated := *d
	updated.PasswordHash = ""
	form.Apply(&updated)
	if _, err := h.svc.Driver().Update(ctx, &updated); err != nil {
		h.formError(c, err, func(errs forms.Errors) { h.renderAdminDriverChange(c, d, form, errs) })
		return
	}
	redirect(c, adminDriversURL)
}

func (h *Handler) renderAdminDriverChange(c *gin.Context, d *models.Driver, form forms.AdminDriverChangeForm, errs forms.Errors) {
	h.render(c, http.StatusOK, "admin/driver_change.html", gin.H{
		"object": d,
		"form":   form,
		"errors": errs,
	})
}

func (h *Handler) AdminCarList(c *gin.Context) {
	var query forms.AdminCarFilter
	_ = c.ShouldBindQuery(&query)
	ctx := c.Request.Context()

	filter := query.Filter()
	res, err := h.svc.Car().List(ctx, filter, pagination.ParsePage(c.Query("page")), pagination.AdminPageSize)
	if err != nil {
		h.handleError(c, err)
		return
	}
	manufacturers, err := h.svc.Manufacturer().All(ctx)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "admin/car_changelist.html", gin.H{
		"car_list":            res.Items,
		"page":                res.Page,
		"filter":              query,
		"query":               c.Request.URL.Query(),
		"manufacturers":       manufacturers,
		"active_manufacturer": filter.ManufacturerID,
	})
}

func (h *Handler) AdminCarAdd(c *gin.Context) {
	var form forms.CarForm
	if !isPost(c) {
		h.renderCarForm(c, "admin/car_form.html", nil, form, forms.Errors{})
		return
	}

	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs.Any() {
		h.renderCarForm(c, "admin/car_form.html", nil, form, errs)
		return
	}

	if _, err := h.svc.Car().Create(c.Request.Context(), form.Car()); err != nil {
		h.formError(c, err, func(errs forms.Errors) { h.renderCarForm(c, "admin/car_form.html", nil, form, errs) })
		return
	}
	redirect(c, adminCarsURL)
}

func (h *Handler) AdminCarChange(c *gin.Context) {
	h.carUpdate(c, "admin/car_form.html", adminCarsURL)
}
