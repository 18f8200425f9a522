package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxiservice/api/middleware"
	"taxiservice/pkg/forms"
	"taxiservice/pkg/models"
	"taxiservice/pkg/pagination"
)

const carListURL = "/cars/"

func (h *Handler) CarList(c *gin.Context) {
	var search forms.CarSearchForm
	_ = c.ShouldBindQuery(&search)

	filter := models.CarFilter{Model: search.Query()}
	res, err := h.svc.Car().List(c.Request.Context(), filter, pagination.ParsePage(c.Query("page")), pagination.DefaultPageSize)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "taxi/car_list.html", gin.H{
		"car_list":    res.Items,
		"page":        res.Page,
		"search_form": search,
		"query":       c.Request.URL.Query(),
	})
}

func (h *Handler) CarDetail(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	car, err := h.svc.Car().GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "taxi/car_detail.html", gin.H{
		"car":         car,
		"is_assigned": car.HasDriver(middleware.CurrentDriver(c).ID),
	})
}

func (h *Handler) CarCreate(c *gin.Context) {
	var form forms.CarForm
	if !isPost(c) {
		h.renderCarForm(c, "taxi/car_form.html", nil, form, forms.Errors{})
		return
	}

	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs.Any() {
		h.renderCarForm(c, "taxi/car_form.html", nil, form, errs)
		return
	}

	if _, err := h.svc.Car().Create(c.Request.Context(), form.Car()); err != nil {
		h.formError(c, err, func(errs forms.Errors) { h.renderCarForm(c, "taxi/car_form.html", nil, form, errs) })
		return
	}
	redirect(c, carListURL)
}

func (h *Handler) CarUpdate(c *gin.Context) {
	h.carUpdate(c, "taxi/car_form.html", carListURL)
}

// carUpdate is shared with the admin change page.
func (h *Handler) carUpdate(c *gin.Context, template, success string) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	car, err := h.svc.Car().GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if !isPost(c) {
		h.renderCarForm(c, template, car, forms.CarFormFrom(car), forms.Errors{})
		return
	}

	var form forms.CarForm
	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs.Any() {
		h.renderCarForm(c, template, car, form, errs)
		return
	}

	updated := form.Car()
	updated.ID = id
	if _, err := h.svc.Car().Update(c.Request.Context(), updated); err != nil {
		h.formError(c, err, func(errs forms.Errors) { h.renderCarForm(c, template, car, form, errs) })
		return
	}
	redirect(c, success)
}

func (h *Handler) renderCarForm(c *gin.Context, template string, object *models.Car, form forms.CarForm, errs forms.Errors) {
	ctx := c.Request.Context()
	manufacturers, err := h.svc.Manufacturer().All(ctx)
	if err != nil {
		h.handleError(c, err)
		return
	}
	drivers, err := h.svc.Driver().All(ctx)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.render(c, http.StatusOK, template, gin.H{
		"object":        object,
		"form":          form,
		"errors":        errs,
		"manufacturers": manufacturers,
		"drivers":       drivers,
	})
}

func (h *Handler) CarDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	car, err := h.svc.Car().GetByID(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if isPost(c) {
		if err := h.svc.Car().Delete(ctx, id); err != nil {
			h.handleError(c, err)
			return
		}
		redirect(c, carListURL)
		return
	}
	h.render(c, http.StatusOK, "taxi/car_confirm_delete.html", gin.H{"object": car})
}

// ToggleAssign adds the logged-in driver to the car or removes them, then
// goes back to the car page.
func (h *Handler) ToggleAssign(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if _, err := h.svc.Car().ToggleAssign(c.Request.Context(), id, middleware.CurrentDriver(c)); err != nil {
		h.handleError(c, err)
		return
	}
	redirect(c, carDetailURL(id))
}

func carDetailURL(id int64) string {
	return "/cars/" + strconv.FormatInt(id, 10) + "/"
}
