package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"movimenta_server/controllers"
	"movimenta_server/middleware"
	"movimenta_server/services"
)

// Services bundles everything the API routes call. Avatars may be nil when no
// bucket is configured; the avatar routes are then not registered.
type Services struct {
	Matching  *services.MatchingService
	Swaps     *services.SwapService
	Manager   *services.ManagerService
	Profiles  *services.ProfileService
	Reference *services.ReferenceService
	Chat      *services.ChatService
	Avatars   *services.AvatarService
	Import    *services.ImportService
}

// NewRouter builds the application router. socket, when non-nil, is mounted at /socket.io/.
func NewRouter(svc Services, auth *middleware.Authenticator, socket http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	if socket != nil {
		r.PathPrefix("/socket.io/").Handler(socket)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mux.MiddlewareFunc(middleware.RequireAuth(auth)))

	RegisterSwapRoutes(api, svc.Matching, svc.Swaps)
	RegisterUserProfileRoutes(api, svc.Profiles)
	RegisterReferenceRoutes(api, svc.Reference)
	RegisterChatRoutes(api, svc.Chat)
	if svc.Avatars != nil {
		RegisterS3Routes(api, svc.Avatars)
	}

	manager := api.PathPrefix("/manager").Subrouter()
	manager.Use(mux.MiddlewareFunc(middleware.RequireManager()))
	RegisterManagerRoutes(manager, svc.Manager, svc.Reference, svc.Import)
	return r
}
