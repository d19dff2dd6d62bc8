package router

import (
	"gym_club_backend/internal/handlers"
	"gym_club_backend/internal/middleware"
	"gym_club_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupPublicAuthRoutes registers sign-up and login.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.Register)
	group.POST("/login", authHandler.Login)
}

// SetupAuthenticatedAuthRoutes registers the auth routes that need a token.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.Logout)
	group.GET("/me", authHandler.Me)
}

// SetupPublicCatalogRoutes registers the read-only routes open to everyone,
// plus the gateway callback.
func SetupPublicCatalogRoutes(apiGroup *gin.RouterGroup, membershipHandler *handlers.MembershipHandler, classHandler *handlers.ClassHandler, paymentHandler *handlers.PaymentHandler, callbackSecret string) {
	apiGroup.GET("/membership/plans", membershipHandler.GetPlans)

	classRoutes := apiGroup.Group("/classes")
	{
		classRoutes.GET("", classHandler.ListClasses)
		classRoutes.GET("/:id", classHandler.GetClass)
		classRoutes.GET("/:id/slots", classHandler.GetAvailableSlots)
		classRoutes.GET("/:id/reviews", classHandler.GetReviews)
	}

	paymentRoutes := apiGroup.Group("/payments")
	{
		paymentRoutes.GET("/methods", paymentHandler.GetPaymentMethods)
		paymentRoutes.POST("/callback", middleware.RequireCallbackSecret(callbackSecret), paymentHandler.PaymentCallback)
	}
}

// SetupProfileRoutes sets up the profile routes.
func SetupProfileRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	profileRoutes := authenticatedGroup.Group("/profile")
	{
		profileRoutes.GET("", authHandler.Me)
		profileRoutes.PUT("", authHandler.UpdateProfile)
		profileRoutes.PUT("/password", authHandler.ChangePassword)
	}
}

// SetupMembershipRoutes sets up the member's membership routes.
func SetupMembershipRoutes(authenticatedGroup *gin.RouterGroup, membershipHandler *handlers.MembershipHandler) {
	membershipRoutes := authenticatedGroup.Group("/membership")
	membershipRoutes.Use(middleware.RequireRoles(models.RoleMember))
	{
		membershipRoutes.GET("/my", membershipHandler.GetStatus)
		membershipRoutes.POST("/subscribe", membershipHandler.Subscribe)
	}
}

// SetupClassRoutes sets up the class routes that need a token.
func SetupClassRoutes(authenticatedGroup *gin.RouterGroup, classHandler *handlers.ClassHandler, attendanceHandler *handlers.AttendanceHandler) {
	trainerOnly := middleware.RequireRoles(models.RoleTrainer)
	trainerOrAdmin := middleware.RequireRoles(models.RoleTrainer, models.RoleAdmin)

	classRoutes := authenticatedGroup.Group("/classes")
	{
		classRoutes.POST("", trainerOnly, classHandler.CreateClass)
		classRoutes.PUT("/:id", trainerOnly, classHandler.UpdateClass)
		classRoutes.DELETE("/:id", trainerOrAdmin, classHandler.DeleteClass)
		classRoutes.GET("/:id/participants", trainerOrAdmin, classHandler.GetParticipants)
		classRoutes.GET("/:id/attendance", trainerOrAdmin, attendanceHandler.GetClassAttendance)
		classRoutes.POST("/:id/reviews", middleware.RequireRoles(models.RoleMember), classHandler.CreateReview)
	}
}

// SetupBookingRoutes sets up the booking routes.
func SetupBookingRoutes(authenticatedGroup *gin.RouterGroup, bookingHandler *handlers.BookingHandler) {
	memberOnly := middleware.RequireRoles(models.RoleMember)

	bookingRoutes := authenticatedGroup.Group("/bookings")
	{
		bookingRoutes.POST("", memberOnly, bookingHandler.CreateBooking)
		bookingRoutes.GET("/my", memberOnly, bookingHandler.GetMyBookings)
		bookingRoutes.GET("/:id", bookingHandler.GetBookingByID)
		bookingRoutes.DELETE("/:id", memberOnly, bookingHandler.CancelBooking)
	}
}

// SetupAttendanceRoutes sets up the attendance routes.
func SetupAttendanceRoutes(authenticatedGroup *gin.RouterGroup, attendanceHandler *handlers.AttendanceHandler) {
	attendanceRoutes := authenticatedGroup.Group("/attendance")
	{
		attendanceRoutes.POST("", middleware.RequireRoles(models.RoleTrainer), attendanceHandler.MarkAttendance)
		attendanceRoutes.GET("/my", middleware.RequireRoles(models.RoleMember), attendanceHandler.GetMyAttendance)
	}
}

// SetupPaymentRoutes sets up the payment routes that need a token.
func SetupPaymentRoutes(authenticatedGroup *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	paymentRoutes := authenticatedGroup.Group("/payments")
	{
		paymentRoutes.POST("", middleware.RequireRoles(models.RoleMember), paymentHandler.CreatePayment)
		paymentRoutes.GET("/history", middleware.RequireRoles(models.RoleMember), paymentHandler.GetPaymentHistory)
		paymentRoutes.GET("/:order_id/status", paymentHandler.GetPaymentStatus)
		paymentRoutes.POST("/:order_id/simulate", paymentHandler.SimulatePayment)
	}
}

// SetupTrainerRoutes sets up the trainer's class management routes.
func SetupTrainerRoutes(authenticatedGroup *gin.RouterGroup, classHandler *handlers.ClassHandler, trainerHandler *handlers.TrainerHandler, attendanceHandler *handlers.AttendanceHandler) {
	trainerRoutes := authenticatedGroup.Group("/trainer")
	trainerRoutes.Use(middleware.RequireRoles(models.RoleTrainer))
	{
		trainerRoutes.GET("/classes", trainerHandler.GetMyClasses)
		trainerRoutes.POST("/classes", classHandler.CreateClass)
		trainerRoutes.POST("/classes/cleanup", trainerHandler.CleanupExpiredClasses)
		trainerRoutes.PUT("/classes/:id", classHandler.UpdateClass)
		trainerRoutes.DELETE("/classes/:id", classHandler.DeleteClass)
		trainerRoutes.GET("/classes/:id/members", trainerHandler.GetClassMembers)
		trainerRoutes.DELETE("/classes/:id/members/:booking_id", trainerHandler.RemoveMember)
		trainerRoutes.POST("/classes/:id/attendance/:booking_id", attendanceHandler.MarkClassAttendance)
	}
}

// SetupReviewRoutes sets up the review routes.
func SetupReviewRoutes(authenticatedGroup *gin.RouterGroup, reviewHandler *handlers.ReviewHandler) {
	reviewRoutes := authenticatedGroup.Group("/reviews")
	{
		reviewRoutes.GET("/my", reviewHandler.GetMyReviews)
		reviewRoutes.PUT("/:id", reviewHandler.UpdateReview)
		reviewRoutes.DELETE("/:id", reviewHandler.DeleteReview)
	}
}

// SetupAdminRoutes sets up the admin-only routes.
func SetupAdminRoutes(authenticatedGroup *gin.RouterGroup, userHandler *handlers.UserHandler, membershipHandler *handlers.MembershipHandler, bookingHandler *handlers.BookingHandler, paymentHandler *handlers.PaymentHandler, reportHandler *handlers.ReportHandler) {
	adminRoutes := authenticatedGroup.Group("/admin")
	adminRoutes.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		adminRoutes.GET("/dashboard", reportHandler.GetDashboardSummary)

		adminRoutes.GET("/users", userHandler.GetUsers)
		adminRoutes.GET("/users/:id", userHandler.GetUserByID)
		adminRoutes.DELETE("/users/:id", userHandler.DeleteUser)

		adminRoutes.GET("/trainers", userHandler.GetTrainers)
		adminRoutes.PUT("/trainers/:id/approve", userHandler.ApproveTrainer)
		adminRoutes.PUT("/trainers/:id/reject", userHandler.RejectTrainer)

		adminRoutes.GET("/members", membershipHandler.ListMembers)
		adminRoutes.PUT("/members/:id/membership", membershipHandler.GrantMembership)

		adminRoutes.GET("/bookings", bookingHandler.GetBookings)
		adminRoutes.GET("/classes/:id/bookings", bookingHandler.GetClassBookings)

		adminRoutes.GET("/payments", paymentHandler.GetAllPayments)
		adminRoutes.GET("/payments/report", reportHandler.GetPaymentReport)
	}
}
