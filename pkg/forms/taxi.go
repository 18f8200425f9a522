package forms

import (
	"strconv"
	"strings"

	"taxiservice/pkg/models"
)

type ManufacturerForm struct {
	Name    string `form:"name" validate:"required,max=255"`
	Country string `form:"country" validate:"required,max=255"`
}

func ManufacturerFormFrom(m *models.Manufacturer) ManufacturerForm {
	return ManufacturerForm{Name: m.Name, Country: m.Country}
}

func (f *ManufacturerForm) Validate() Errors {
	f.Name = strings.TrimSpace(f.Name)
	f.Country = strings.TrimSpace(f.Country)
	return validateStruct(f)
}

func (f ManufacturerForm) Manufacturer() *models.Manufacturer {
	return &models.Manufacturer{Name: f.Name, Country: f.Country}
}

// CarForm keeps the raw select values so a bad id becomes a field error
// rather than a binding failure.
type CarForm struct {
	Model        string   `form:"model" validate:"required,max=255"`
	Manufacturer string   `form:"manufacturer" validate:"required"`
	Drivers      []string `form:"drivers"`

	ManufacturerID int64   `form:"-"`
	DriverIDs      []int64 `form:"-"`
}

func CarFormFrom(car *models.Car) CarForm {
	f := CarForm{
		Model:          car.Model,
		Manufacturer:   strconv.FormatInt(car.ManufacturerID, 10),
		ManufacturerID: car.ManufacturerID,
		DriverIDs:      car.DriverIDs(),
	}
	for _, id := range f.DriverIDs {
		f.Drivers = append(f.Drivers, strconv.FormatInt(id, 10))
	}
	return f
}

func (f *CarForm) Validate() Errors {
	f.Model = strings.TrimSpace(f.Model)
	errs := validateStruct(f)

	if f.Manufacturer != "" {
		id, ok := parseID(f.Manufacturer)
		if !ok {
			errs.Add("manufacturer", msgInvalidChoice)
		}
		f.ManufacturerID = id
	}

	f.DriverIDs = f.DriverIDs[:0]
	seen := map[int64]bool{}
	for _, raw := range f.Drivers {
		id, ok := parseID(raw)
		if !ok {
			errs.Add("drivers", msgInvalidDriver)
			break
		}
		if !seen[id] {
			seen[id] = true
			f.DriverIDs = append(f.DriverIDs, id)
		}
	}
	return errs
}

// SelectedDriver reports whether id is ticked, for re-rendering the checkboxes.
func (f CarForm) SelectedDriver(id int64) bool {
	for _, d := range f.DriverIDs {
		if d == id {
			return true
		}
	}
	want := strconv.FormatInt(id, 10)
	for _, raw := range f.Drivers {
		if strings.TrimSpace(raw) == want {
			return true
		}
	}
	return false
}

func (f CarForm) Car() *models.Car {
	car := &models.Car{Model: f.Model, ManufacturerID: f.ManufacturerID}
	for _, id := range f.DriverIDs {
		car.Drivers = append(car.Drivers, &models.Driver{ID: id})
	}
	return car
}

// DriverCreationForm is the sign-up form; fields render in declaration order.
type DriverCreationForm struct {
	Username      string `form:"username" validate:"required,max=150,username"`
	LicenseNumber string `form:"license_number" validate:"required,license"`
	FirstName     string `form:"first_name" validate:"max=150"`
	LastName      string `form:"last_name" validate:"max=150"`
	Password1     string `form:"password1" validate:"required"`
	Password2     string `form:"password2" validate:"required"`
}

func (f *DriverCreationForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.LicenseNumber = strings.TrimSpace(f.LicenseNumber)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)

	errs := validateStruct(f)
	if f.Password1 != "" && f.Password2 != "" && f.Password1 != f.Password2 {
		errs.Add("password2", msgPasswordMatch)
	} else if !errs.Has("password2") {
		checkPassword(errs, "password2", f.Password2)
	}
	return errs
}

func (f DriverCreationForm) Driver() *models.Driver {
	license := f.LicenseNumber
	return &models.Driver{
		Username:      f.Username,
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		LicenseNumber: &license,
		IsActive:      true,
	}
}

type DriverLicenseUpdateForm struct {
	LicenseNumber string `form:"license_number" validate:"required,license"`
}

func (f *DriverLicenseUpdateForm) Validate() Errors {
	f.LicenseNumber = strings.TrimSpace(f.LicenseNumber)
	return validateStruct(f)
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

func (f *LoginForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	return validateStruct(f)
}

// Search forms bind one query-string parameter and never fail.

type DriverSearchForm struct {
	Username string `form:"username"`
}

func (f DriverSearchForm) Query() string { return strings.TrimSpace(f.Username) }

type CarSearchForm struct {
	Model string `form:"model"`
}

func (f CarSearchForm) Query() string { return strings.TrimSpace(f.Model) }

type ManufacturerSearchForm struct {
	Name string `form:"name"`
}

func (f ManufacturerSearchForm) Query() string { return strings.TrimSpace(f.Name) }
