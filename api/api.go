package api

import (
	"github.com/gin-gonic/gin"

	"taxiservice/api/handlers"
	"taxiservice/api/middleware"
	"taxiservice/pkg/auth"
	"taxiservice/pkg/logger"
	"taxiservice/service"
)

type Options struct {
	Service      service.IServiceManager
	Sessions     *auth.SessionManager
	Log          logger.ILogger
	CookieSecure bool
}

// New builds the HTTP router for the taxi service.
func New(opt Options) (*gin.Engine, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.RequestLogger(opt.Log),
		middleware.Recovery(opt.Log),
		middleware.Session(opt.Sessions, opt.Service.Driver(), opt.Log),
	)

	h := handlers.New(opt.Service, opt.Sessions, opt.Log, opt.CookieSecure)
	r.NoRoute(h.NotFound)

	r.GET("/healthz", h.Health)

	accounts := r.Group("/accounts")
	{
		accounts.GET("/login/", h.Login)
		accounts.POST("/login/", h.Login)
		accounts.GET("/logout/", h.Logout)
		accounts.POST("/logout/", h.Logout)
		accounts.GET("/register/", h.Register)
		accounts.POST("/register/", h.Register)
	}

	site := r.Group("/", middleware.LoginRequired())
	{
		site.GET("/", h.Index)
		site.GET("/api/stats/", h.Stats)

		site.GET("/manufacturers/", h.ManufacturerList)
		site.GET("/manufacturers/create/", h.ManufacturerCreate)
		site.POST("/manufacturers/create/", h.ManufacturerCreate)
		site.GET("/manufacturers/:id/update/", h.ManufacturerUpdate)
		site.POST("/manufacturers/:id/update/", h.ManufacturerUpdate)
		site.GET("/manufacturers/:id/delete/", h.ManufacturerDelete)
		site.POST("/manufacturers/:id/delete/", h.ManufacturerDelete)

		site.GET("/cars/", h.CarList)
		site.GET("/cars/create/", h.CarCreate)
		site.POST("/cars/create/", h.CarCreate)
		site.GET("/cars/:id/", h.CarDetail)
		site.GET("/cars/:id/update/", h.CarUpdate)
		site.POST("/cars/:id/update/", h.CarUpdate)
		site.GET("/cars/:id/delete/", h.CarDelete)
		site.POST("/cars/:id/delete/", h.CarDelete)
		site.GET("/cars/:id/toggle-assign/", h.ToggleAssign)
		site.POST("/cars/:id/toggle-assign/", h.ToggleAssign)

		site.GET("/drivers/", h.DriverList)
		site.GET("/drivers/create/", h.DriverCreate)
		site.POST("/drivers/create/", h.DriverCreate)
		site.GET("/drivers/:id/", h.DriverDetail)
		site.GET("/drivers/:id/update/", h.DriverLicenseUpdate)
		site.POST("/drivers/:id/update/", h.DriverLicenseUpdate)
		site.GET("/drivers/:id/delete/", h.DriverDelete)
		site.POST("/drivers/:id/delete/", h.DriverDelete)
	}

	admin := r.Group("/admin", middleware.StaffRequired())
	{
		admin.GET("/", h.AdminIndex)

		admin.GET("/drivers/", h.AdminDriverList)
		admin.GET("/drivers/add/", h.AdminDriverAdd)
		admin.POST("/drivers/add/", h.AdminDriverAdd)
		admin.GET("/drivers/:id/change/", h.AdminDriverChange)
		admin.POST("/drivers/:id/change/", h.AdminDriverChange)

		admin.GET("/cars/", h.AdminCarList)
		admin.GET("/cars/add/", h.AdminCarAdd)
		admin.POST("/cars/add/", h.AdminCarAdd)
		admin.GET("/cars/:id/change/", h.AdminCarChange)
		admin.POST("/cars/:id/change/", h.AdminCarChange)
	}

	return r, nil
}
