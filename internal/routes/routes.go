package routes

import (
	"net/http"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/handlers"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitRoutes(
	router *mux.Router,
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	tokens middleware.TokenVerifier,
	db handlers.Pinger,
) {
	// Recoverer внутри Logging: паника попадает в access-лог и метрики как 500
	router.Use(middleware.RequestID, middleware.Logging, middleware.Recoverer)

	router.HandleFunc("/healthz", handlers.Health(db)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api/auth").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	api.HandleFunc("/verify-email", authHandler.VerifyEmail).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/forgot-password", authHandler.ForgotPassword).Methods("POST")
	api.HandleFunc("/reset-password/{token}", authHandler.ResetPassword).Methods("POST")

	api.HandleFunc("/chat", chatHandler.Record).Methods("POST")
	api.HandleFunc("/get-chat", chatHandler.GetChat).Methods("POST")

	// --- Защищённые cookie сессии ---
	api.Handle("/check-auth", middleware.VerifyToken(tokens, http.HandlerFunc(authHandler.CheckAuth))).Methods("GET")
}
