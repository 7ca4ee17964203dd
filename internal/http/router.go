package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/summit/internal/http/advice"
	"github.com/MrJamesThe3rd/summit/internal/http/debt"
	"github.com/MrJamesThe3rd/summit/internal/http/export"
	"github.com/MrJamesThe3rd/summit/internal/http/importcsv"
	"github.com/MrJamesThe3rd/summit/internal/http/plan"
)

type Options struct {
	AllowedOrigins []string
	// Empty disables authentication.
	JWTSecret string
}

func New(
	opts Options,
	debtsV1 *debt.Handler,
	importV1 *importcsv.Handler,
	planV1 *plan.Handler,
	exportV1 *export.Handler,
	adviceV1 *advice.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(RequireJWT([]byte(opts.JWTSecret)))
		}

		r.Route("/debts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			debtsV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/plan", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			planV1.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			exportV1.Routes(r)
		})

		r.Route("/advice", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			adviceV1.Routes(r)
		})
	})

	return router
}
