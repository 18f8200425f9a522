package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiservice/pkg/forms"
	"taxiservice/pkg/models"
	"taxiservice/pkg/pagination"
)

const manufacturerListURL = "/manufacturers/"

func (h *Handler) ManufacturerList(c *gin.Context) {
	var search forms.ManufacturerSearchForm
	_ = c.ShouldBindQuery(&search)

	res, err := h.svc.Manufacturer().List(c.Request.Context(), search.Query(), pagination.ParsePage(c.Query("page")))
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "taxi/manufacturer_list.html", gin.H{
		"manufacturer_list": res.Items,
		"page":              res.Page,
		"search_form":       search,
		"query":             c.Request.URL.Query(),
	})
}

func (h *Handler) ManufacturerCreate(c *gin.Context) {
	var form forms.ManufacturerForm
	if !isPost(c) {
		h.renderManufacturerForm(c, nil, form, forms.Errors{})
		return
	}

	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs.Any() {
		h.renderManufacturerForm(c, nil, form, errs)
		return
	}

	if _, err := h.svc.Manufacturer().Create(c.Request.Context(), form.Manufacturer()); err != nil {
		h.formError(c, err, func(errs forms.Errors) { h.renderManufacturerForm(c, nil, form, errs) })
		return
	}
	redirect(c, manufacturerListURL)
}

func (h *Handler) ManufacturerUpdate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	m, err := h.svc.Manufacturer().GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if !isPost(c) {
		h.renderManufacturerForm(c, m, forms.ManufacturerFormFrom(m), forms.Errors{})
		return
	}

	var form forms.ManufacturerForm
	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs.Any() {
		h.renderManufacturerForm(c, m, form, errs)
		return
	}

	updated := form.Manufacturer()
	updated.ID = id
	if _, err := h.svc.Manufacturer().Update(c.Request.Context(), updated); err != nil {
		h.formError(c, err, func(errs forms.Errors) { h.renderManufacturerForm(c, m, form, errs) })
		return
	}
	redirect(c, manufacturerListURL)
}

func (h *Handler) renderManufacturerForm(c *gin.Context, object *models.Manufacturer, form forms.ManufacturerForm, errs forms.Errors) {
	h.render(c, http.StatusOK, "taxi/manufacturer_form.html", gin.H{
		"object": object,
		"form":   form,
		"errors": errs,
	})
}

// ManufacturerDelete confirms on GET and deletes on POST. The confirmation
// warns how many cars go with the manufacturer.
func (h *Handler) ManufacturerDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	m, err := h.svc.Manufacturer().GetByID(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if isPost(c) {
		if err := h.svc.Manufacturer().Delete(ctx, id); err != nil {
			h.handleError(c, err)
			return
		}
		redirect(c, manufacturerListURL)
		return
	}

	count, err := h.svc.Manufacturer().CarCount(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.render(c, http.StatusOK, "taxi/manufacturer_confirm_delete.html", gin.H{
		"object":    m,
		"car_count": count,
	})
}
