package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/RoveStack/travel_service/config"
	"github.com/RoveStack/travel_service/infra/queue"
	"github.com/RoveStack/travel_service/internal/api/rest/handlers"
	"github.com/RoveStack/travel_service/internal/api/rest/middleware"
	"github.com/RoveStack/travel_service/internal/clients/google"
	"github.com/RoveStack/travel_service/internal/domain"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/interfaces"
	"github.com/RoveStack/travel_service/internal/logger"
	"github.com/RoveStack/travel_service/internal/mailer"
	"github.com/RoveStack/travel_service/internal/repository"
	"github.com/RoveStack/travel_service/internal/services"
	"github.com/RoveStack/travel_service/pkg/cloudinary"
)

// single fixed id so every instance contends for the same migrate lock
const migrateLockID int64 = 20260222

func StartServer(cfg config.Config) {
	log := logger.NewLogger("travel-api")

	app := fiber.New()

	// ---------- Middleware ----------
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection error")
	}
	log.Info().Msg("database connected")

	authHelper := helper.SetupAuth(cfg.AccessSecret, cfg.TokenTTL)

	// ---------- Migration + seed (guarded by advisory lock) ----------
	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatal().Err(err).Msg("migration lock error")
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Company{},
		&domain.Facility{},
		&domain.Room{},
		&domain.Amenity{},
		&domain.TripRequest{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration error")
	}
	log.Info().Msg("migration successful")

	seedAdmin(db, authHelper, cfg, log)

	// released right away so the next instance can boot
	if err := db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error; err != nil {
		log.Warn().Err(err).Msg("migration unlock error")
	}

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.Kafka.Broker,
		cfg.Kafka.Topic,
		cfg.Kafka.Username,
		cfg.Kafka.Password,
	)

	cld, err := cloudinary.New(cfg.CloudinaryURL)
	if err != nil {
		log.Fatal().Err(err).Msg("cloudinary init error")
	}
	var uploader interfaces.Uploader
	if cld != nil {
		uploader = cloudinary.NewCloudinaryUploader(cld)
	} else {
		log.Warn().Msg("cloudinary not configured, image uploads disabled")
	}

	googleClient := google.New(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	if googleClient == nil {
		log.Warn().Msg("google oauth not configured, social login disabled")
	}

	mail := mailer.NewQueueMailer(kafkaProducer, authHelper)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	facilityRepo := repository.NewFacilityRepository(db)
	tripRepo := repository.NewTripRepository(db)

	// ---------- Services ----------
	authSvc := services.NewAuthService(userRepo, mail, authHelper, cfg.BaseURL)
	companySvc := services.NewCompanyService(companyRepo, userRepo, mail, authHelper)
	facilitySvc := services.NewFacilityService(facilityRepo, uploader)
	tripSvc := services.NewTripService(tripRepo, userRepo, facilityRepo)

	// ---------- Handlers ----------
	authRequired := middleware.AuthMiddleware(authHelper)
	adminOnly := middleware.AdminOnly()

	handlers.NewAuthHandler(authSvc, authHelper, googleClient).SetupRoutes(app, authRequired)
	handlers.NewCompanyHandler(companySvc, authHelper).SetupRoutes(app, authRequired)
	handlers.NewFacilityHandler(facilitySvc).SetupRoutes(app, authRequired, adminOnly)
	handlers.NewTripHandler(tripSvc, authHelper).SetupRoutes(app, authRequired, adminOnly)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	log.Info().Str("addr", cfg.ServerPort).Msg("listening")
	if err := app.Listen(cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// seedAdmin creates the bootstrap admin account once. Reruns are no-ops.
func seedAdmin(db *gorm.DB, auth helper.Auth, cfg config.Config, log *logger.Logger) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	var existing domain.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Err(err).Msg("admin seed lookup failed")
		return
	}

	hashed, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Warn().Err(err).Msg("admin seed hash failed")
		return
	}

	err = db.Create(&domain.User{
		Email:        cfg.AdminEmail,
		PasswordHash: hashed,
		FirstName:    "Admin",
		Role:         domain.RoleAdmin,
		IsVerified:   true,
	}).Error
	if err != nil {
		log.Warn().Err(err).Msg("admin seed failed")
		return
	}
	log.Info().Str("email", cfg.AdminEmail).Msg("admin account seeded")
}
