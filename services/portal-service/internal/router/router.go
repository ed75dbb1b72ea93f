package router

import (
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/config"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/handler"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/middleware"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/auth"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/logger"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/metrics"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/utilities"
)

const serviceName = "portal-service"

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth      *handler.AuthHandler
	Portal    *handler.PortalHandler
	Health    *handler.HealthHandler
	Question  *handler.QuestionHandler
	AnswerKey *handler.AnswerKeyHandler
	Progress  *handler.ProgressHandler
}

// New builds the portal HTTP router.
func New(
	cfg *config.PortalServiceConfig,
	jwtAuth auth.JWTAuthenticator,
	h Handlers,
	log *zerolog.Logger,
) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		logger.RequestLogger(log),
		chimiddleware.Recoverer,
		metrics.Middleware(serviceName),
		chimiddleware.Timeout(60*time.Second),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utilities.WriteMessage(w, http.StatusNotFound, "Route not found")
	})

	r.Handle("/metrics", metrics.Handler())
	r.Get("/api/health", h.Health.Health)
	r.Get("/api/health/ready", h.Health.Ready)

	r.Route("/api/auth", func(r chi.Router) {
		if cfg.AuthRateLimit > 0 {
			r.Use(rateLimit(cfg.AuthRateLimit))
		}
		r.Post("/check-email", h.Auth.CheckEmail)
		r.Post("/verify-otp", h.Auth.VerifyOTP)
	})

	authenticate := middleware.Authenticate(jwtAuth, cfg.Token.Secret)

	r.Route("/api/portal", func(r chi.Router) {
		r.Use(authenticate)
		r.With(middleware.RequireYear(1)).Get("/year1", h.Portal.Portal)
		r.With(middleware.RequireYear(2)).Get("/year2", h.Portal.Portal)
		r.With(middleware.AuthorizeYear).Get("/year/{year}", h.Portal.Portal)
	})

	r.Route("/api/v1/roundone", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/questions", h.Question.CreateQuestion)
		r.Get("/questions", h.Question.ListQuestions)
		r.Get("/questions/{id}", h.Question.GetQuestion)
		r.Put("/questions/{id}", h.Question.UpdateQuestion)
		r.Delete("/questions/{id}", h.Question.DeleteQuestion)

		r.Post("/steg-questions", h.Question.CreateStegQuestion)
		r.Get("/steg-questions", h.Question.ListStegQuestions)

		r.Post("/submit", h.Question.SubmitAnswer)
		r.Post("/steg-submit", h.Question.SubmitStegAnswer)
		r.Get("/answered", h.Question.AnsweredQuestions)
		r.Get("/score", h.Question.Score)
	})

	r.Route("/api/v1/round3", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/answers", h.AnswerKey.CreateAnswerKey)
		r.Get("/answers", h.AnswerKey.ListAnswerKeys)
		r.Get("/answers/{year}", h.AnswerKey.GetAnswerKey)
		r.Put("/answers/{year}", h.AnswerKey.UpdateAnswerKey)
		r.Delete("/answers/{year}", h.AnswerKey.DeleteAnswerKey)

		r.Post("/submit", h.AnswerKey.SubmitAnswer)
	})

	r.Route("/api/v1/progress", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/", h.Progress.GetProgress)
		r.Post("/round1/complete", h.Progress.CompleteRoundOne)
		r.Get("/round2/puzzles", h.Progress.Puzzles)
		r.Post("/round2/submit", h.Progress.SubmitPuzzle)
		r.Post("/round3/submit", h.Progress.SubmitPassword)
		r.Post("/reset", h.Progress.Reset)
	})

	return r
}

// rateLimit allows perSecond requests per client IP.
func rateLimit(perSecond float64) func(http.Handler) http.Handler {
	lmt := tollbooth.NewLimiter(perSecond, nil)
	lmt.SetIPLookups([]string{"X-Real-IP", "X-Forwarded-For", "RemoteAddr"})
	lmt.SetMessageContentType("application/json")
	lmt.SetMessage(`{"message":"Too many requests. Please try again later."}`)

	return func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(lmt, next)
	}
}
