package server

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smarthire/internal/handlers"
	"smarthire/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// needs the matched route for its path label
	r.Use(middlewares.PrometheusMiddleware)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.HelloWorldHandler).Methods("GET", "OPTIONS")
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET", "OPTIONS")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.registerAuthRoutes(r)
	s.registerAIRoutes(r)

	// wrapped outside the router so unmatched paths get them too
	var h http.Handler = r
	h = s.rateLimiter.RateLimit(h)
	h = middlewares.CorsMiddleware(s.cfg.AllowedOrigins)(h)
	h = middlewares.LoggingMiddleware(h)
	if s.cfg.TrustProxyHeaders {
		h = gorillahandlers.ProxyHeaders(h)
	}

	return gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(recoveryLogger{}),
		gorillahandlers.PrintRecoveryStack(s.cfg.LogLevel == "debug"),
	)(h)
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.authService, s.otpService)
	auth := r.PathPrefix("/auth").Subrouter()

	auth.HandleFunc("/signup", ah.Signup).Methods("POST", "OPTIONS")
	auth.HandleFunc("/verify-otp", ah.VerifySignupOTP).Methods("POST", "OPTIONS")
	auth.HandleFunc("/resend-otp", ah.ResendSignupOTP).Methods("POST", "OPTIONS")
	auth.HandleFunc("/forgot-password", ah.ForgotPassword).Methods("POST", "OPTIONS")
	auth.HandleFunc("/resend-forgot-otp", ah.ResendResetOTP).Methods("POST", "OPTIONS")
	auth.HandleFunc("/verify-forgot-otp", ah.VerifyResetOTP).Methods("POST", "OPTIONS")
	auth.HandleFunc("/reset-password", ah.ResetPassword).Methods("POST", "OPTIONS")
	auth.HandleFunc("/login", ah.Login).Methods("POST", "OPTIONS")
	auth.HandleFunc("/email-otp", ah.RequestEmailOTP).Methods("POST", "OPTIONS")
	auth.HandleFunc("/verify-email-otp", ah.VerifyEmailOTP).Methods("POST", "OPTIONS")
	auth.Handle("/me", middlewares.AuthMiddleware(s.jwt)(http.HandlerFunc(ah.Me))).Methods("GET", "OPTIONS")
}

func (s *Server) registerAIRoutes(r *mux.Router) {
	aih := handlers.NewAIHandler(s.matchService, s.questionService, s.cfg.MaxUploadBytes)
	ai := r.PathPrefix("/ai").Subrouter()

	ai.HandleFunc("/analyze-resume", aih.AnalyzeResume).Methods("POST", "OPTIONS")
	ai.HandleFunc("/match-job", aih.MatchJob).Methods("POST", "OPTIONS")
	ai.HandleFunc("/match-job-file", aih.MatchJobFile).Methods("POST", "OPTIONS")
	ai.HandleFunc("/interview-questions", aih.InterviewQuestions).Methods("POST", "OPTIONS")
}
