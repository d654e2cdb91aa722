// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"memecoin/internal/adapters/in/http/handlers"
	"memecoin/internal/adapters/in/http/middleware"
)

// RouterDeps collects what main injects into the HTTP shell.
type RouterDeps struct {
	Coins          handlers.CoinService
	MaxImageBytes  int
	AllowedOrigins []string
}

// NewRouter builds the chi router. CORS wraps Recover so that panics still
// carry CORS headers.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         600,
	}))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Recover)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Backend is running!"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if deps.Coins != nil {
		h := handlers.NewCoinHandler(deps.Coins, deps.MaxImageBytes)
		r.Route("/api", h.Routes)
	}

	return r
}
