package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/reviewboost/reviewboost_be/internal/config"
	"github.com/reviewboost/reviewboost_be/internal/email"
	"github.com/reviewboost/reviewboost_be/internal/handlers"
	"github.com/reviewboost/reviewboost_be/internal/middleware"
	"github.com/reviewboost/reviewboost_be/internal/payments"
	"github.com/reviewboost/reviewboost_be/internal/realtime"
)

// New assembles the Fiber app with every route wired. main.go and the test
// servers both go through here.
func New(cfg config.Config, gdb *gorm.DB, rdb *redis.Client, gateway payments.Gateway, mail email.Sender, hub *realtime.Hub, notifier *realtime.Notifier) *fiber.App {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	authH := &handlers.AuthHandler{
		DB:        gdb,
		RDB:       rdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	profileH := handlers.NewProfileHandler(gdb, cfg.JWTSecret, cfg.JWTExpiresMin)
	freelancerH := handlers.NewFreelancerHandler(gdb)
	requestH := handlers.NewReviewRequestHandler(gdb, gateway)
	adminH := handlers.NewAdminHandler(gdb, notifier, mail)
	contactH := handlers.NewContactHandler(gdb, mail)
	resourceH := handlers.NewResourceHandler(gdb)
	eventsH := handlers.NewEventsHandler(hub, cfg.JWTSecret)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/session", authH.Session)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Post("/contact", contactH.Create)
	api.Get("/resources", resourceH.List)

	// protected (JWT from cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret, rdb),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", profileH.Me)
	protected.Post("/profile", profileH.Create)
	protected.Get("/profiles/:id", profileH.GetByID)

	// freelancer only
	protected.Post("/freelancer/profile",
		middleware.RequireRoles("freelancer"),
		freelancerH.CreateProfile,
	)
	protected.Get("/freelancer/profile/me",
		middleware.RequireRoles("freelancer"),
		freelancerH.Mine,
	)
	protected.Get("/freelancer/requests",
		middleware.RequireRoles("freelancer"),
		freelancerH.Requests,
	)
	protected.Post("/freelancer/requests",
		middleware.RequireRoles("freelancer"),
		requestH.Create,
	)

	// admin only
	admin := protected.Group("/admin", middleware.RequireRoles("admin"))
	admin.Get("/freelancers", adminH.ListFreelancers)
	admin.Get("/requests", adminH.ListRequests)
	admin.Patch("/freelancers/:id", adminH.UpdateFreelancer)
	admin.Patch("/requests/:id", adminH.UpdateRequest)
	admin.Get("/stats", adminH.Stats)

	// event stream (token via query param, ws upgrades carry no cookies)
	app.Get("/ws/events", websocket.New(eventsH.WebSocketHandler))

	return app
}
