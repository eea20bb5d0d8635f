package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"showup/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
// authMW wraps handlers that require a Bearer token; reads stay public.
func NewRouter(eventController *controllers.EventController, authController *controllers.AuthController, authMW func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("GET /auth/me", authMW(authController.Me))

	// Public reads
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("GET /events/{eventID}/activity", eventController.ListActivity)

	// Event lifecycle
	mux.HandleFunc("POST /events", authMW(eventController.CreateEvent))
	mux.HandleFunc("POST /events/{eventID}/join", authMW(eventController.Join))
	mux.HandleFunc("POST /events/{eventID}/requests", authMW(eventController.RequestToJoin))
	mux.HandleFunc("POST /events/{eventID}/requests/accept", authMW(eventController.AcceptRequests))
	mux.HandleFunc("POST /events/{eventID}/requests/reject", authMW(eventController.RejectRequests))
	mux.HandleFunc("POST /events/{eventID}/withdraw", authMW(eventController.Withdraw))
	mux.HandleFunc("POST /events/{eventID}/pending-claim", authMW(eventController.ClaimPendingStake))
	mux.HandleFunc("POST /events/{eventID}/attendance", authMW(eventController.MarkAttended))
	mux.HandleFunc("POST /events/{eventID}/claim", authMW(eventController.Claim))
	mux.HandleFunc("POST /events/{eventID}/refund", authMW(eventController.Refund))
	mux.HandleFunc("POST /events/{eventID}/cancel", authMW(eventController.Cancel))

	// Per-user views
	mux.HandleFunc("GET /me/events", authMW(eventController.ListMyEvents))
	mux.HandleFunc("GET /me/participations", authMW(eventController.ListMyParticipations))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
