package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type Driver struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	PasswordHash  string     `json:"-"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	LicenseNumber *string    `json:"license_number"`
	IsStaff       bool       `json:"is_staff"`
	IsActive      bool       `json:"is_active"`
	DateJoined    time.Time  `json:"date_joined"`
	LastLogin     *time.Time `json:"last_login"`
	Cars          []*Car     `json:"cars,omitempty"`
}

func (d Driver) String() string {
	return fmt.Sprintf("%s (%s %s)", d.Username, d.FirstName, d.LastName)
}

func (d Driver) AbsoluteURL() string {
	return fmt.Sprintf("/drivers/%d/", d.ID)
}

func (d Driver) License() string {
	if d.LicenseNumber == nil {
		return ""
	}
	return *d.LicenseNumber
}

type DriverFilter struct {
	Username string
	// Query matches username, names, email or license number (admin search).
	Query   string
	IsStaff *bool
	Limit   int
	Offset  int
}

const LicenseNumberLength = 8

var (
	ErrLicenseLength  = errors.New("License number should consist of 8 characters")
	ErrLicensePrefix  = errors.New("First 3 characters should be uppercase letters")
	ErrLicenseSuffix  = errors.New("Last 5 characters should be digits")
	licensePrefixExpr = regexp.MustCompile(`^[A-Z]{3}`)
	licenseSuffixExpr = regexp.MustCompile(`[0-9]{5}$`)
)

// ValidateLicenseNumber checks the AAA12345 layout: three uppercase ASCII
// letters followed by five digits.
func ValidateLicenseNumber(license string) error {
	if len(license) != LicenseNumberLength {
		return ErrLicenseLength
	}
	if !licensePrefixExpr.MatchString(license) {
		return ErrLicensePrefix
	}
	if !licenseSuffixExpr.MatchString(license) {
		return ErrLicenseSuffix
	}
	return nil
}
