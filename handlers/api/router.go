package api

import (
	"net/http"

	"invoice-docstore/core"
	"invoice-docstore/handlers/api/documents"
	"invoice-docstore/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Store          core.DocumentStore
	Renderer       core.Renderer
	Registry       *prometheus.Registry
	MaxBodyBytes   int64
	AllowedOrigins []string
}

// NewRouter wires the document routes, including the route names of the
// first version of the service, onto a chi router.
func NewRouter(opts Options) http.Handler {
	m := metrics.New(opts.Registry)
	store := m.InstrumentStore(opts.Store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "If-None-Match", "X-Requested-With"},
		ExposedHeaders:   []string{"ETag", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusOK)
		render.PlainText(w, r, "you are all set")
	})
	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	create := documents.HandleCreate(store, opts.Renderer, opts.MaxBodyBytes)
	fetch := documents.HandleGet(store, opts.Renderer.ContentType())

	r.Post("/create-document", create)
	r.Get("/fetch-document/{hash}", fetch)

	r.Post("/crear_factura", create)
	r.Get("/obtener_pdf/{hash}", fetch)

	return r
}
