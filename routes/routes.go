package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"carewell-server/cache"
	"carewell-server/config"
	"carewell-server/controllers"
	"carewell-server/db"
	"carewell-server/middleware"
	"carewell-server/role"
	"carewell-server/services"
)

// App bundles everything the router and the background jobs share.
type App struct {
	Appointments *services.AppointmentService
	Beds         *services.BedService
}

// Routes wires stores, services and controllers and mounts the full API
// surface on r.
func Routes(r *gin.Engine, cfg *config.Config, client *mongo.Client, database *mongo.Database, c *cache.Cache, mailer services.Mailer) *App {
	users := db.NewUserStore(database)
	doctors := db.NewDoctorStore(database)
	appointments := db.NewAppointmentStore(database)
	beds := db.NewBedStore(database)
	inventory := db.NewInventoryStore(database)
	sales := db.NewSalesRecordStore(database)
	records := db.NewMedicalRecordStore(database)
	tx := db.NewTxRunner(client)

	bedSvc := services.NewBedService(beds, c, cfg.DefaultTotalBeds)
	authSvc := services.NewAuthService(users)
	userSvc := services.NewUserService(users)
	doctorSvc := services.NewDoctorService(doctors, c)
	appointmentSvc := services.NewAppointmentService(appointments, users, doctors, bedSvc, mailer)
	availabilitySvc := services.NewAvailabilityService(doctors, appointments, cfg.Location)
	inventorySvc := services.NewInventoryService(inventory, sales, records, tx)
	recordSvc := services.NewMedicalRecordService(records)
	dashboardSvc := services.NewDashboardService(appointments, users, doctors, inventory, bedSvc)

	authCtrl := controllers.NewAuthController(authSvc, cfg)
	userCtrl := controllers.NewUserController(userSvc, authSvc)
	doctorCtrl := controllers.NewDoctorController(doctorSvc, availabilitySvc)
	appointmentCtrl := controllers.NewAppointmentController(appointmentSvc)
	bedCtrl := controllers.NewBedController(bedSvc)
	inventoryCtrl := controllers.NewInventoryController(inventorySvc)
	recordCtrl := controllers.NewMedicalRecordController(recordSvc)
	dashboardCtrl := controllers.NewDashboardController(dashboardSvc)
	cronCtrl := controllers.NewCronController(appointmentSvc)

	api := r.Group("/api")

	// public
	authCtrl.Register(api)
	doctorCtrl.Register(api)
	cronCtrl.Register(api)

	// authenticated
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))
	appointmentCtrl.Register(authed)
	bedCtrl.Register(authed)
	doctorCtrl.RegisterAuthed(authed)
	recordCtrl.Register(authed)
	userCtrl.Register(authed)
	dashboardCtrl.Register(authed)

	// staff only
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireStaff())
	appointmentCtrl.RegisterAdmin(admin)
	bedCtrl.RegisterAdmin(admin)
	doctorCtrl.RegisterAdmin(admin)
	inventoryCtrl.RegisterAdmin(admin)
	recordCtrl.RegisterAdmin(admin)
	userCtrl.RegisterAdmin(admin)
	dashboardCtrl.RegisterAdmin(admin)

	// superadmin only
	super := api.Group("/admin")
	super.Use(middleware.AuthMiddleware(cfg), middleware.RequireRoles(role.SuperAdmin))
	userCtrl.RegisterSuperAdmin(super)

	return &App{Appointments: appointmentSvc, Beds: bedSvc}
}
