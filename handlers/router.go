package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// SetupRouter wires the HTTP ingress: health endpoints plus the event and
// admin routes, wrapped in CORS.
func SetupRouter(events *EventsHandler, profiles *ProfilesHandler, corsAllowedOrigins string) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ping", handlePing).Methods(http.MethodGet)

	api := router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/events", events.HandleUserEvent).Methods(http.MethodPost)
	api.HandleFunc("/posts/pending", events.HandlePendingPosts).Methods(http.MethodGet)
	api.HandleFunc("/stats", events.HandleBoardStats).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", events.HandleLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/profile", profiles.HandleGetProfile).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/inbox", profiles.HandleInbox).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/follow", profiles.HandleFollow).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/unfollow", profiles.HandleUnfollow).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/block", profiles.HandleBlock).Methods(http.MethodPost)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(corsAllowedOrigins, ","),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return corsHandler.Handler(router)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}
