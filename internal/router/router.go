package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/SyntaxSorcerers2025/ticketly/internal/ai"
	"github.com/SyntaxSorcerers2025/ticketly/internal/config"
	"github.com/SyntaxSorcerers2025/ticketly/internal/handlers"
	"github.com/SyntaxSorcerers2025/ticketly/internal/middleware"
	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
	"github.com/SyntaxSorcerers2025/ticketly/internal/notify"
	"github.com/SyntaxSorcerers2025/ticketly/internal/observe"
	"github.com/SyntaxSorcerers2025/ticketly/internal/repository/postgres"
	"github.com/SyntaxSorcerers2025/ticketly/internal/service"
)

// Deps carries the optional collaborators main managed to construct.
type Deps struct {
	Publisher *notify.Publisher // nil disables notifications
	Redis     *redis.Client     // nil disables AI caching
}

func New(log zerolog.Logger, db *pgxpool.Pool, cfg config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	metrics := observe.NewMetrics()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))

	// Repos + services
	seqs := postgres.NewSequences()
	userRepo := postgres.NewUserRepo(db, seqs)
	ticketRepo := postgres.NewTicketRepo(db, seqs)
	updateRepo := postgres.NewUpdateRepo(db, seqs)

	aiClient := ai.New(cfg, deps.Redis, log)

	var notifier service.Notifier
	if deps.Publisher != nil {
		notifier = deps.Publisher
	}

	authSvc := service.NewAuthService(userRepo, cfg.SessionSecret, cfg.TokenTTL)
	ticketSvc := service.NewTicketService(ticketRepo, updateRepo, userRepo, notifier, aiClient, log)

	ah := handlers.NewAuthHTTP(authSvc, cfg.TokenTTL)
	th := handlers.NewTicketHTTP(ticketSvc)
	uh := handlers.NewUpdateHTTP(ticketSvc)
	us := handlers.NewUserHTTP(userRepo)
	aih := handlers.NewAIHTTP(aiClient)

	r.Get("/healthz", handlers.Health())
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	withAuth := middleware.WithAuth(log, cfg, userRepo)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", ah.Register())
		r.Post("/login", ah.Login())
		r.Post("/logout", ah.Logout())
		r.Group(func(r chi.Router) {
			r.Use(withAuth, middleware.RequireAuth)
			r.Get("/profile", ah.Profile())
			r.Get("/verify", ah.Verify())
		})
	})

	r.Route("/api/tickets", func(r chi.Router) {
		r.Use(withAuth, middleware.RequireAuth)
		r.Get("/", th.List())
		r.With(middleware.RequireRoles(models.RoleStudent, models.RoleTeacher)).Post("/", th.Create())
		r.With(middleware.RequireRoles(models.RoleCoordinator)).Get("/stats/overview", th.Stats())
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", th.Get())
			r.With(middleware.RequireRoles(models.RoleCoordinator)).Put("/", th.Update())
			r.Delete("/", th.Delete())
		})
	})

	r.Route("/api/updates", func(r chi.Router) {
		r.Use(withAuth, middleware.RequireAuth)
		r.Get("/ticket/{ticketId}", uh.ListByTicket())
		r.Post("/", uh.Create())
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(withAuth, middleware.RequireAuth, middleware.RequireRoles(models.RoleCoordinator))
		r.Get("/", us.List())
		r.Get("/role/{role}", us.ListByRole())
		r.Get("/stats/overview", us.Stats())
	})

	r.Route("/api/ai", func(r chi.Router) {
		r.Use(withAuth, middleware.RequireAuth)
		r.Post("/classify", aih.Classify())
		r.Post("/summarize", aih.Summarize())
	})

	return r
}
