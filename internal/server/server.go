package server

import (
	"context"
	"log"
	"strings"
	"time"

	"medshare.app/backend/internal/config"
	"medshare.app/backend/internal/entity"
	"medshare.app/backend/internal/middleware"
	"medshare.app/backend/pkg/mailer"
	"medshare.app/backend/pkg/storage"

	donationHttp "medshare.app/backend/internal/modules/donation/delivery/http"
	donationRepo "medshare.app/backend/internal/modules/donation/repository"
	donationService "medshare.app/backend/internal/modules/donation/service"

	notiHttp "medshare.app/backend/internal/modules/notification/delivery/http"
	notifRepo "medshare.app/backend/internal/modules/notification/repository"
	notifService "medshare.app/backend/internal/modules/notification/service"

	requestHttp "medshare.app/backend/internal/modules/request/delivery/http"
	requestRepo "medshare.app/backend/internal/modules/request/repository"
	requestService "medshare.app/backend/internal/modules/request/service"

	searchService "medshare.app/backend/internal/modules/search/service"

	userHttp "medshare.app/backend/internal/modules/user/delivery/http"
	userRepo "medshare.app/backend/internal/modules/user/repository"
	userService "medshare.app/backend/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := searchService.NewSearchService(meiliClient)

	mail := mailer.NewSMTPMailer()

	// Repositories
	users := userRepo.NewUserRepository(db)
	donations := donationRepo.NewDonationRepository(db)
	requests := requestRepo.NewRequestRepository(db)
	notifications := notifRepo.NewNotificationRepository(db)

	// Notification Module
	notificationSvc := notifService.NewNotificationService(notifications, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc)

	// Donation Module
	donationSvc := donationService.NewDonationService(donations, requests, imageStorage, searchSvc)
	donationHandler := donationHttp.NewDonationHandler(donationSvc)

	// Request Module
	requestSvc := requestService.NewRequestService(requests, notificationSvc)
	requestHandler := requestHttp.NewRequestHandler(requestSvc, imageStorage)

	// User Module
	userSvc := userService.NewUserService(cfg, users, donations, requests, notifications, imageStorage, mail, searchSvc)
	userHandler := userHttp.NewUserHandler(userSvc)

	// Expired lots are swept on a timer; listings filter by expiry date
	// regardless, so a missed tick never exposes an expired lot.
	go func() {
		ticker := time.NewTicker(cfg.ExpirySweepInterval)
		defer ticker.Stop()

		for range ticker.C {
			flipped, err := donationSvc.SweepExpired(context.Background())
			if err != nil {
				log.Printf("Expiry sweep failed: %v", err)
				continue
			}
			if flipped > 0 {
				log.Printf("Expiry sweep marked %d donation(s) expired", flipped)
			}
		}
	}()

	router := gin.New()

	setupCORS(router, cfg)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(users)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
		auth.POST("/forgot-password", userHandler.ForgotPassword)
		auth.POST("/reset-password", userHandler.ResetPassword)
		auth.POST("/logout", userHandler.Logout)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Account routes
		protected.GET("/me", userHandler.GetProfile)
		protected.GET("/profile", userHandler.GetProfile)
		protected.PATCH("/profile", userHandler.UpdateProfile)
		protected.POST("/verify-password", userHandler.VerifyPassword)
		protected.DELETE("/delete-account", userHandler.DeleteAccount)

		// Donation routes
		protected.POST("/donate", donationHandler.Submit)
		protected.GET("/donations", donationHandler.ListMine)
		protected.GET("/all-donations", donationHandler.ListAvailable)

		// Request routes
		protected.POST("/request-medicine", requestHandler.Create)
		protected.GET("/donor-requests", requestHandler.ListForDonor)
		protected.GET("/receiver-requests", requestHandler.ListForReceiver)
		protected.PUT("/update-request/:id", requestHandler.Decide)

		// Donor-only request inbox badges
		donorOnly := protected.Group("")
		donorOnly.Use(authMiddleware.RequireRole(entity.RoleDonor))
		{
			donorOnly.GET("/check-new-requests", requestHandler.CountNew)
			donorOnly.POST("/mark-requests-viewed", requestHandler.MarkViewed)
		}

		// Notification routes
		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PATCH("/notifications/read", notificationHandler.MarkAllRead)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	origins := strings.Split(cfg.AllowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
