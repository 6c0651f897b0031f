package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"medlink.com/internal/api/middleware"
	"medlink.com/internal/auth"
	"medlink.com/internal/config"
	"medlink.com/internal/service"
)

// Router registers all routes
type Router struct {
	app *fiber.App
	cfg *config.Config
	db  *gorm.DB
	rdb *redis.Client
}

func NewRouter(app *fiber.App, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Router {
	return &Router{
		app: app,
		cfg: cfg,
		db:  db,
		rdb: rdb,
	}
}

// RegisterRoutes wires services, middleware and all business routes.
func (r *Router) RegisterRoutes() error {
	secret := auth.ResolveSecret(r.cfg)

	enforcer, err := auth.InitCasbin(r.db)
	if err != nil {
		return err
	}

	accountSvc := service.NewAccountService(r.db, r.cfg, secret)
	clinicSvc := service.NewClinicService(r.db, r.rdb)
	recordSvc := service.NewRecordService(r.db)

	authHandler := NewAuthHandler(accountSvc, r.cfg)
	clinicHandler := NewClinicHandler(clinicSvc)
	recordHandler := NewRecordHandler(recordSvc)

	r.app.Get("/health", r.healthCheck)

	// Public auth routes. Registered ahead of the protected group so
	// they match before its middleware; each pipeline is validator stage
	// then terminal handler.
	r.app.Post("/api/auth/register", middleware.RegisterValidator(accountSvc), authHandler.Register)
	r.app.Post("/api/auth/login", middleware.LoginValidator(accountSvc), authHandler.Login)
	r.app.Post("/api/auth/logout", authHandler.Logout)
	r.app.Post("/api/auth/register/test-patient", authHandler.CreateTestPatient)

	// Protected routes
	protected := r.app.Group("/api")
	protected.Use(middleware.Protected(enforcer, secret))

	protected.Get("/auth/me", authHandler.GetMe)

	clinics := protected.Group("/clinics")
	clinics.Get("/", clinicHandler.GetClinics)
	clinics.Post("/", clinicHandler.CreateClinic)
	clinics.Get("/:id", clinicHandler.GetClinic)
	clinics.Put("/:id", clinicHandler.UpdateClinic)
	clinics.Delete("/:id", clinicHandler.DeleteClinic)

	records := protected.Group("/records")
	records.Get("/", recordHandler.GetRecords)
	records.Post("/", recordHandler.CreateRecord)
	records.Get("/:id", recordHandler.GetRecord)
	records.Put("/:id", recordHandler.UpdateRecord)
	records.Delete("/:id", recordHandler.DeleteRecord)

	return nil
}

// healthCheck reports store connectivity
// GET /health
func (r *Router) healthCheck(c *fiber.Ctx) error {
	sqlDB, err := r.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(Response{Success: false, Message: "Database unreachable"})
	}

	if r.rdb != nil {
		if err := r.rdb.Ping(c.UserContext()).Err(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(Response{Success: false, Message: "Redis unreachable"})
		}
	}

	return SendMessage(c, fiber.StatusOK, "Service is healthy")
}
