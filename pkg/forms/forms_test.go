package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiservice/pkg/apperrors"
)

func TestManufacturerFormValidate(t *testing.T) {
	f := ManufacturerForm{Name: "  BMW ", Country: ""}
	errs := f.Validate()

	assert.Equal(t, "BMW", f.Name)
	assert.False(t, errs.Has("name"))
	assert.Equal(t, []string{msgRequired}, errs.Get("country"))
}

func TestLicenseMessages(t *testing.T) {
	tests := []struct {
		license string
		want    string
	}{
		{"ABC1234", "License number should consist of 8 characters"},
		{"AbC12345", "First 3 characters should be uppercase letters"},
		{"ABC1234X", "Last 5 characters should be digits"},
		{"", msgRequired},
	}

	for _, tt := range tests {
		t.Run(tt.license, func(t *testing.T) {
			f := DriverLicenseUpdateForm{LicenseNumber: tt.license}
			errs := f.Validate()
			assert.Equal(t, []string{tt.want}, errs.Get("license_number"))
		})
	}

	f := DriverLicenseUpdateForm{LicenseNumber: " XYZ98765 "}
	assert.False(t, f.Validate().Any())
	assert.Equal(t, "XYZ98765", f.LicenseNumber)
}

func TestDriverCreationForm(t *testing.T) {
	valid := DriverCreationForm{
		Username:      "new.user",
		LicenseNumber: "ABC12345",
		FirstName:     "New",
		LastName:      "User",
		Password1:     "s3cret-pass",
		Password2:     "s3cret-pass",
	}

	f := valid
	require.False(t, f.Validate().Any())
	d := f.Driver()
	assert.Equal(t, "ABC12345", d.License())
	assert.True(t, d.IsActive)

	f = valid
	f.Password2 = "other-pass"
	assert.Equal(t, []string{msgPasswordMatch}, f.Validate().Get("password2"))

	f = valid
	f.Password1, f.Password2 = "1234567890", "1234567890"
	assert.Equal(t, []string{msgPasswordDigit}, f.Validate().Get("password2"))

	f = valid
	f.Password1, f.Password2 = "abc", "abc"
	assert.Equal(t, []string{msgPasswordShort}, f.Validate().Get("password2"))

	f = valid
	f.Username = "bad user!"
	assert.Equal(t, []string{msgUsername}, f.Validate().Get("username"))
}

func TestCarFormParsesChoices(t *testing.T) {
	f := CarForm{Model: "Camry", Manufacturer: "3", Drivers: []string{"2", "5", "2"}}
	errs := f.Validate()
	require.False(t, errs.Any())
	assert.EqualValues(t, 3, f.ManufacturerID)
	assert.Equal(t, []int64{2, 5}, f.DriverIDs)
	assert.True(t, f.SelectedDriver(5))
	assert.False(t, f.SelectedDriver(7))

	car := f.Car()
	assert.Equal(t, []int64{2, 5}, car.DriverIDs())

	f = CarForm{Model: "", Manufacturer: "x", Drivers: []string{"y"}}
	errs = f.Validate()
	assert.Equal(t, []string{msgRequired}, errs.Get("model"))
	assert.Equal(t, []string{msgInvalidChoice}, errs.Get("manufacturer"))
	assert.Equal(t, []string{msgInvalidDriver}, errs.Get("drivers"))

	f = CarForm{Model: "A4"}
	assert.Equal(t, []string{msgRequired}, f.Validate().Get("manufacturer"))
}

func TestMaxLengthMessage(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	f := ManufacturerForm{Name: string(long), Country: "X"}
	assert.Equal(t,
		[]string{"Ensure this value has at most 255 characters (it has 256)."},
		f.Validate().Get("name"))
}

func TestErrorsAddError(t *testing.T) {
	errs := Errors{}
	assert.True(t, errs.AddError(apperrors.NewConflictError("username", "taken")))
	assert.False(t, errs.AddError(apperrors.ErrNotFound))
	assert.True(t, errs.AddError(&apperrors.FieldError{Message: "bad login"}))

	assert.Equal(t, []string{"taken"}, errs.Get("username"))
	assert.Equal(t, []string{"bad login"}, errs.Get(NonFieldErrors))
}

func TestAdminForms(t *testing.T) {
	add := AdminDriverAddForm{Username: "staffer", Password1: "longpassword", Password2: "longpassword"}
	require.False(t, add.Validate().Any())
	assert.Nil(t, add.Driver().LicenseNumber)

	add.LicenseNumber = "bad"
	assert.True(t, add.Validate().Has("license_number"))

	change := AdminDriverChangeForm{Username: "staffer", Email: "not-an-email"}
	assert.Equal(t, []string{msgEmail}, change.Validate().Get("email"))

	staff := AdminDriverFilter{Q: " smith ", IsStaff: "true"}.Filter()
	assert.Equal(t, "smith", staff.Query)
	require.NotNil(t, staff.IsStaff)
	assert.True(t, *staff.IsStaff)

	assert.Nil(t, AdminDriverFilter{IsStaff: "maybe"}.Filter().IsStaff)
	assert.EqualValues(t, 4, AdminCarFilter{ManufacturerID: "4"}.Filter().ManufacturerID)
	assert.Zero(t, AdminCarFilter{ManufacturerID: "-1"}.Filter().ManufacturerID)
}

func TestSearchFormsTrim(t *testing.T) {
	assert.Equal(t, "bob", DriverSearchForm{Username: " bob "}.Query())
	assert.Equal(t, "", CarSearchForm{}.Query())
	assert.Equal(t, "Audi", ManufacturerSearchForm{Name: "Audi\t"}.Query())
}
