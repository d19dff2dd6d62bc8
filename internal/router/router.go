package router

import (
	"database/sql"

	"gym_club_backend/internal/config"
	"gym_club_backend/internal/handlers"
	"gym_club_backend/internal/middleware"
	"gym_club_backend/internal/repositories"
	"gym_club_backend/internal/services"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, catalog *config.Catalog, tokens *utils.TokenManager, callbackSecret string) {
	// Initialize Repositories
	userRepo := repositories.NewUserRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	classRepo := repositories.NewClassRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Initialize Services
	authService := services.NewAuthService(userRepo, memberRepo, db, tokens)
	membershipService := services.NewMembershipService(memberRepo, bookingRepo, catalog, db)
	classService := services.NewClassService(classRepo, bookingRepo, attendanceRepo, db)
	bookingService := services.NewBookingService(bookingRepo, classRepo, memberRepo, db)
	attendanceService := services.NewAttendanceService(attendanceRepo, bookingRepo, classRepo, memberRepo, db)
	reviewService := services.NewReviewService(reviewRepo, classRepo, bookingRepo, memberRepo, db)
	userService := services.NewUserService(userRepo, reportRepo, db)
	paymentService := services.NewPaymentService(paymentRepo, memberRepo, reportRepo, membershipService, catalog, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	classHandler := handlers.NewClassHandler(classService, reviewService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	trainerHandler := handlers.NewTrainerHandler(classService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	userHandler := handlers.NewUserHandler(userService)
	reportHandler := handlers.NewReportHandler(userService, paymentService)

	apiV1 := engine.Group("/api/v1")

	// Public routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)
	SetupPublicCatalogRoutes(apiV1, membershipHandler, classHandler, paymentHandler, callbackSecret)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupProfileRoutes(authenticated, authHandler)
		SetupMembershipRoutes(authenticated, membershipHandler)
		SetupClassRoutes(authenticated, classHandler, attendanceHandler)
		SetupBookingRoutes(authenticated, bookingHandler)
		SetupAttendanceRoutes(authenticated, attendanceHandler)
		SetupPaymentRoutes(authenticated, paymentHandler)
		SetupTrainerRoutes(authenticated, classHandler, trainerHandler, attendanceHandler)
		SetupReviewRoutes(authenticated, reviewHandler)
		SetupAdminRoutes(authenticated, userHandler, membershipHandler, bookingHandler, paymentHandler, reportHandler)
	}
}
