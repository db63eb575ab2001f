package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aviral-workprojects/krishi-connect/api/controllers"
	"github.com/aviral-workprojects/krishi-connect/api/middleware"
	internalauth "github.com/aviral-workprojects/krishi-connect/internal/auth"
	"github.com/aviral-workprojects/krishi-connect/internal/crops"
	"github.com/aviral-workprojects/krishi-connect/internal/leaderboard"
	"github.com/aviral-workprojects/krishi-connect/internal/orders"
	"github.com/aviral-workprojects/krishi-connect/pkg/config"
	"github.com/aviral-workprojects/krishi-connect/pkg/db"
	"github.com/aviral-workprojects/krishi-connect/pkg/enums"
	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
	"github.com/aviral-workprojects/krishi-connect/pkg/mlapi"
	"github.com/aviral-workprojects/krishi-connect/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Auth        internalauth.Service
	Crops       crops.Service
	Orders      orders.Service
	Leaderboard leaderboard.Service
	MLAPI       *mlapi.Client
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/register", controllers.Register(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/auth/me", controllers.Me(deps.Auth, logg))

		// Public catalog for any authenticated user.
		r.Get("/crops", controllers.BrowseCrops(deps.Crops, logg))
		r.Get("/crops/{cropId}", controllers.GetCrop(deps.Crops, logg))
		r.Get("/leaderboard", controllers.Leaderboard(deps.Leaderboard, logg))

		r.Route("/farmer/crops", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, string(enums.RoleFarmer)))
			r.Get("/", controllers.MyCrops(deps.Crops, logg))
			r.Post("/", controllers.CreateCrop(deps.Crops, logg))
			r.Put("/{cropId}", controllers.UpdateCrop(deps.Crops, logg))
			r.Delete("/{cropId}", controllers.DeleteCrop(deps.Crops, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, string(enums.RoleBuyer)))
			r.Post("/create", controllers.CreateOrder(deps.Orders, logg))
			r.Post("/verify", controllers.VerifyOrder(deps.Orders, logg))
			r.Get("/my", controllers.MyOrders(deps.Orders, logg))
		})

		r.Route("/advisor", func(r chi.Router) {
			r.Post("/recommend", controllers.Recommend(deps.MLAPI, logg))
			r.Get("/trends", controllers.Trends(deps.MLAPI, logg))
		})
	})

	return r
}
