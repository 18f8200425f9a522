package models

import "fmt"

type Car struct {
	ID             int64         `json:"id"`
	Model          string        `json:"model"`
	ManufacturerID int64         `json:"manufacturer_id"`
	Manufacturer   *Manufacturer `json:"manufacturer,omitempty"`
	Drivers        []*Driver     `json:"drivers,omitempty"`
}

func (c Car) String() string {
	return c.Model
}

func (c Car) AbsoluteURL() string {
	return fmt.Sprintf("/cars/%d/", c.ID)
}

func (c Car) HasDriver(driverID int64) bool {
	for _, d := range c.Drivers {
		if d.ID == driverID {
			return true
		}
	}
	return false
}

func (c Car) DriverIDs() []int64 {
	ids := make([]int64, 0, len(c.Drivers))
	for _, d := range c.Drivers {
		ids = append(ids, d.ID)
	}
	return ids
}

type CarFilter struct {
	Model          string
	ManufacturerID int64
	Limit          int
	Offset         int
}

// Stats backs the index page and the admin bot's /stats reply.
type Stats struct {
	Drivers       int `json:"drivers"`
	Cars          int `json:"cars"`
	Manufacturers int `json:"manufacturers"`
}
