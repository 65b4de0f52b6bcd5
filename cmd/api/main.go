package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"djstudio/internal/config"
	"djstudio/internal/database"
	"djstudio/internal/middleware"
	"djstudio/internal/modules/auth"
	"djstudio/internal/modules/booking"
	"djstudio/internal/modules/catalog"
	"djstudio/internal/modules/notify"
	"djstudio/internal/modules/payment"
	"djstudio/internal/modules/wallet"
	jwtsvc "djstudio/internal/pkg/jwt"
	"djstudio/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	walletService := wallet.NewService(db)

	if err := userRepo.Migrate(); err != nil {
		log.Fatal(err)
	}
	if err := bookingRepo.Migrate(); err != nil {
		log.Fatal(err)
	}
	if err := walletService.Migrate(); err != nil {
		log.Fatal(err)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notify.NewHub()
	defer hub.Close()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(bookingRepo, walletService, hub)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(bookingRepo)
	paymentHandler := payment.NewHandler(paymentService)

	walletHandler := wallet.NewHandler(walletService)
	catalogHandler := catalog.NewHandler()
	notifyHandler := notify.NewHandler(hub)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorLogger())

	notifyHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			walletHandler.RegisterRoutes(protected)

			admin := protected.Group("/")
			admin.Use(middleware.RequireRole("admin"))
			{
				bookingHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
