package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	authctl "github.com/KILATIV100/perks-ua-bot-sub000/controllers/auth"
	"github.com/KILATIV100/perks-ua-bot-sub000/controllers/game"
	"github.com/KILATIV100/perks-ua-bot-sub000/controllers/staff"
	"github.com/KILATIV100/perks-ua-bot-sub000/controllers/users"

	"github.com/KILATIV100/perks-ua-bot-sub000/config"
	"github.com/KILATIV100/perks-ua-bot-sub000/middleware"
	"github.com/KILATIV100/perks-ua-bot-sub000/rewards"
)

func InitRouter(engine *rewards.Engine, cfg *config.Config) *mux.Router {
	authctl.Init(engine, cfg)
	users.Init(engine)
	staff.Init(engine)
	game.Init(engine)

	r := mux.NewRouter()

	// Health check endpoint for container health probes
	r.Handle("/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"service":   "perks-api",
		})
	})).Methods(http.MethodGet)

	// CORS: the mini-app origin plus local development hosts
	origins := []string{"https://t.me", "http://localhost:3000", "http://127.0.0.1:3000"}
	if env := os.Getenv("CORS_ALLOWED_ORIGINS"); env != "" {
		for _, p := range strings.Split(env, ",") {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID", "X-STAFF-KEY", "X-SERVICE-KEY"}),
			handlers.AllowCredentials(),
		)(next)
	})

	// auth exchange is the only unauthenticated write endpoint
	authLimiter := middleware.NewIPRateLimiter(30, time.Minute, cfg.Auth.TrustedProxies)
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.Use(authLimiter.Middleware)
	authRouter.HandleFunc("/telegram", authctl.TelegramAuthHandler).Methods(http.MethodPost)

	api := r.PathPrefix("/api/users").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))
	api.HandleFunc("/me", users.MeHandler).Methods(http.MethodGet)
	api.HandleFunc("/spin", users.SpinHandler).Methods(http.MethodPost)
	api.HandleFunc("/redeem", users.RedeemHandler).Methods(http.MethodPost)
	api.HandleFunc("/score", users.ScoreHandler).Methods(http.MethodPost)

	staffRouter := r.PathPrefix("/api/staff").Subrouter()
	staffRouter.Use(middleware.SharedKeyMiddleware("X-STAFF-KEY", cfg.Auth.StaffKey))
	staffRouter.HandleFunc("/redeem/{code}", staff.VerifyCodeHandler).Methods(http.MethodPost)

	internal := r.PathPrefix("/api/internal").Subrouter()
	internal.Use(middleware.SharedKeyMiddleware("X-SERVICE-KEY", cfg.Auth.ServiceKey))
	internal.HandleFunc("/credit", game.CreditHandler).Methods(http.MethodPost)

	return r
}
