package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/petterhol/quizform/internal/api"
	"github.com/petterhol/quizform/internal/middleware"
	"github.com/petterhol/quizform/internal/services"
	"github.com/petterhol/quizform/internal/storage"
)

func main() {
	_ = godotenv.Load() // allow .env for local runs

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	addr := envOr("QUIZFORM_ADDR", ":8000")
	dataDir := envOr("QUIZFORM_DATA_DIR", "./data")
	staticDir := os.Getenv("QUIZFORM_STATIC_DIR")

	store, err := storage.NewFileStore(dataDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", dataDir).Msg("open data directory")
	}

	forms := services.NewFormService(store)
	answers := services.NewAnswerService(store)
	dashboard := services.NewDashboardService(store)
	policy := middleware.LoopbackPolicy{}

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.NoStore, middleware.SecureHeaders)

	api.NewRouter(forms, answers, dashboard, policy, logger).Register(r)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"name":"Quizform API"}`))
	})

	// Static frontend, with admin pages behind the redirect gate. Students
	// land on the root page; only the local machine reaches /admin.
	if staticDir != "" {
		fs := http.FileServer(http.Dir(staticDir))
		gated := middleware.RequireTrustedPage(policy, "/")(fs)
		r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/admin") {
				gated.ServeHTTP(w, r)
				return
			}
			fs.ServeHTTP(w, r)
		}))
	}

	logger.Info().Str("addr", addr).Str("data", dataDir).Msg("quizform server listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
