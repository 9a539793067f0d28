package handlers

import (
	"net/http"
	"time"

	"contesto/internal/auth"
	"contesto/internal/models"
	"contesto/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the HTTP layer needs
type Deps struct {
	Verifier       auth.Verifier
	Users          *services.UserService
	Creators       *services.CreatorService
	Contests       *services.ContestService
	Payments       *services.PaymentService
	Submissions    *services.SubmissionService
	AllowedOrigins []string
}

// NewRouter wires every route with its access and role guards
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(d.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = d.AllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	router.Use(cors.New(corsConfig))

	userHandler := NewUserHandler(d.Users)
	creatorHandler := NewCreatorHandler(d.Creators)
	contestHandler := NewContestHandler(d.Contests)
	paymentHandler := NewPaymentHandler(d.Payments)
	submissionHandler := NewSubmissionHandler(d.Submissions)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	router.POST("/users", userHandler.Register)
	router.GET("/contests", contestHandler.List)
	router.GET("/contests/popular", contestHandler.Popular)
	router.GET("/contests/:id", contestHandler.Get)
	router.GET("/contests/:id/winner", contestHandler.Winner)
	router.GET("/leaderboard", userHandler.Leaderboard)

	requireAuth := auth.AuthMiddleware(d.Verifier)
	adminOnly := auth.RequireRole(d.Users, models.RoleAdmin)
	creatorOnly := auth.RequireRole(d.Users, models.RoleCreator)
	adminOrCreator := auth.RequireRole(d.Users, models.RoleAdmin, models.RoleCreator)

	authed := router.Group("")
	authed.Use(requireAuth)
	{
		authed.GET("/users/me", userHandler.GetProfile)
		authed.PATCH("/users/me", userHandler.UpdateProfile)
		authed.GET("/users/:email/role", userHandler.GetRole)

		authed.POST("/creators", creatorHandler.Apply)

		authed.POST("/payment-checkout-session", paymentHandler.CreateCheckoutSession)
		authed.POST("/verify-payment", paymentHandler.VerifyPayment)
		authed.GET("/payments/check/:contestId", paymentHandler.CheckPaid)
		authed.GET("/payments/my", paymentHandler.History)
		authed.GET("/participants/my-contests", contestHandler.ListJoined)

		authed.POST("/submissions", submissionHandler.Create)
		authed.PATCH("/submissions/:id", submissionHandler.Update)
		authed.GET("/submissions/:contestId/my", submissionHandler.Mine)

		authed.DELETE("/contests/:id", adminOrCreator, contestHandler.Delete)
	}

	admin := authed.Group("")
	admin.Use(adminOnly)
	{
		admin.GET("/users", userHandler.List)
		admin.PATCH("/users/:id/role", userHandler.UpdateRole)

		admin.GET("/creators", creatorHandler.List)
		admin.PATCH("/creators/:id", creatorHandler.SetStatus)
		admin.DELETE("/creators/:id", creatorHandler.Delete)

		admin.GET("/admin/contests", contestHandler.ListAll)
		admin.PATCH("/admin/contests/:id", contestHandler.Moderate)
	}

	creator := authed.Group("")
	creator.Use(creatorOnly)
	{
		creator.POST("/contests", contestHandler.Create)
		creator.GET("/creator/contests", contestHandler.ListMine)
		creator.PATCH("/creator/contests/:id", contestHandler.UpdateByCreator)
		creator.POST("/creator/contests/:id/image", contestHandler.UploadImage)
		creator.GET("/creator/contests/:id/submissions", submissionHandler.ListForContest)
		creator.PATCH("/creator/contests/:id/winner/:submissionId", contestHandler.SelectWinner)
	}

	return router
}
