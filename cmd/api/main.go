package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "egsa-loan-service/internal/adapter/http"
	"egsa-loan-service/internal/adapter/middleware"
	sqliterepo "egsa-loan-service/internal/adapter/repository/sqlite"
	"egsa-loan-service/internal/config"
	appDomain "egsa-loan-service/internal/domain/application"
	"egsa-loan-service/internal/domain/notification"
	"egsa-loan-service/internal/infrastructure/cache"
	"egsa-loan-service/internal/infrastructure/db"
	"egsa-loan-service/internal/infrastructure/mail"
	appUC "egsa-loan-service/internal/usecase/application"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	if err := gdb.AutoMigrate(&appDomain.Application{}); err != nil {
		log.Fatal("failed to migrate schema: ", err)
	}

	repo := sqliterepo.NewApplicationRepository(gdb)

	var notifier notification.Notifier
	if cfg.SMTPHost != "" {
		notifier = mail.NewMailer(cfg)
		log.Println("email notifier enabled")
	} else {
		log.Println("SMTP_HOST not set, notifications disabled")
	}

	uc := appUC.NewUsecase(repo, notifier)

	h := httpadp.NewHandler()
	appHandler := httpadp.NewApplicationHandler(uc)
	calcHandler := httpadp.NewCalculatorHandler()
	adminHandler := httpadp.NewAdminHandler(uc, cfg.AdminPassword, cfg.JWTSecret)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	e.Validator = httpadp.NewValidator()

	e.GET("/health", h.Health)

	v1 := e.Group("/api/v1")

	// Member-facing intake and live calculator
	intake := v1.Group("")
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Printf("redis unavailable, submissions will not be deduplicated: %v", err)
		} else {
			intake.Use(middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
		}
	}
	intake.POST("/applications", appHandler.Submit)
	v1.GET("/calculator/quote", calcHandler.Quote)

	// Admin dashboard API behind the shared credential
	v1.POST("/admin/login", adminHandler.Login)
	admin := v1.Group("/admin", middleware.AdminAuth(cfg.JWTSecret))
	admin.GET("/applications", adminHandler.List)
	admin.GET("/applications/export", adminHandler.ExportCSV)
	admin.GET("/applications/:id", adminHandler.Get)
	admin.POST("/applications/:id/approve", adminHandler.Approve)
	admin.POST("/applications/:id/reject", adminHandler.Reject)
	admin.POST("/applications/:id/notify", adminHandler.Notify)
	admin.DELETE("/applications/:id", adminHandler.Delete)
	admin.GET("/applications/:id/support-letter", adminHandler.DownloadSupportLetter)
	admin.GET("/applications/:id/photo", adminHandler.DownloadPhoto)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
