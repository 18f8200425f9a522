package forms

import (
	"strconv"
	"strings"

	"taxiservice/pkg/models"
)

// AdminDriverAddForm backs /admin/drivers/add/. The license sits in the
// "Additional info" fieldset and may be left blank.
type AdminDriverAddForm struct {
	Username      string `form:"username" validate:"required,max=150,username"`
	Password1     string `form:"password1" validate:"required"`
	Password2     string `form:"password2" validate:"required"`
	FirstName     string `form:"first_name" validate:"max=150"`
	LastName      string `form:"last_name" validate:"max=150"`
	LicenseNumber string `form:"license_number" validate:"omitempty,license"`
}

func (f *AdminDriverAddForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.LicenseNumber = strings.TrimSpace(f.LicenseNumber)

	errs := validateStruct(f)
	if f.Password1 != "" && f.Password2 != "" && f.Password1 != f.Password2 {
		errs.Add("password2", msgPasswordMatch)
	} else if !errs.Has("password2") {
		checkPassword(errs, "password2", f.Password2)
	}
	return errs
}

func (f AdminDriverAddForm) Driver() *models.Driver {
	return &models.Driver{
		Username:      f.Username,
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		LicenseNumber: optional(f.LicenseNumber),
		IsActive:      true,
	}
}

type AdminDriverChangeForm struct {
	Username      string `form:"username" validate:"required,max=150,username"`
	FirstName     string `form:"first_name" validate:"max=150"`
	LastName      string `form:"last_name" validate:"max=150"`
	Email         string `form:"email" validate:"omitempty,email,max=254"`
	IsStaff       bool   `form:"is_staff"`
	IsActive      bool   `form:"is_active"`
	LicenseNumber string `form:"license_number" validate:"omitempty,license"`
}

func AdminDriverChangeFormFrom(d *models.Driver) AdminDriverChangeForm {
	return AdminDriverChangeForm{
		Username:      d.Username,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		IsStaff:       d.IsStaff,
		IsActive:      d.IsActive,
		LicenseNumber: d.License(),
	}
}

func (f *AdminDriverChangeForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.LicenseNumber = strings.TrimSpace(f.LicenseNumber)
	return validateStruct(f)
}

// Apply copies the edited fields onto d.
func (f AdminDriverChangeForm) Apply(d *models.Driver) {
	d.Username = f.Username
	d.FirstName = f.FirstName
	d.LastName = f.LastName
	d.Email = f.Email
	d.IsStaff = f.IsStaff
	d.IsActive = f.IsActive
	d.LicenseNumber = optional(f.LicenseNumber)
}

// AdminDriverFilter is the driver changelist query string.
type AdminDriverFilter struct {
	Q       string `form:"q"`
	IsStaff string `form:"is_staff"`
}

func (f AdminDriverFilter) Filter() models.DriverFilter {
	filter := models.DriverFilter{Query: strings.TrimSpace(f.Q)}
	if staff, err := strconv.ParseBool(f.IsStaff); err == nil {
		filter.IsStaff = &staff
	}
	return filter
}

// AdminCarFilter is the car changelist query string.
type AdminCarFilter struct {
	Q              string `form:"q"`
	ManufacturerID string `form:"manufacturer__id__exact"`
}

func (f AdminCarFilter) Filter() models.CarFilter {
	filter := models.CarFilter{Model: strings.TrimSpace(f.Q)}
	if id, ok := parseID(f.ManufacturerID); ok {
		filter.ManufacturerID = id
	}
	return filter
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
