package utils

import (
	"net/http"
	"sync"

	_ "github.com/akolanti/propdocs/cmd/api/docs"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/http-swagger"
)

var once sync.Once
var router *chi.Mux

func GetNewUUID() string {
	return uuid.New().String()
}

// IsUUID reports whether s parses as a uuid. Job ids and trace ids are both
// generated by GetNewUUID.
func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}

type RouterClient struct {
	Router *chi.Mux
}

func GetChiURLParam(request *http.Request, key string) string {
	return chi.URLParam(request, key)
}

// GetRouter builds the shared mux once. RealIP runs first so the rate
// limiter keys on the client address behind a proxy; Recoverer turns a panic
// in an extractor into a 500 instead of a dropped connection.
func GetRouter() RouterClient {
	once.Do(func() {
		router = chi.NewRouter()
		router.Use(chimw.RealIP, chimw.Recoverer)
		InitSwagger(router)
		router.Handle("/metrics", promhttp.Handler())
	})

	return RouterClient{Router: router}
}

func InitSwagger(r chi.Router) {
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
