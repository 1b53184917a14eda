package measurement

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/samber/do/v2"
)

// Routes returns the metric routes for the serve mode.
func Routes(inj do.Injector) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetMetricsHandler(inj))
	router.Post("/reset", ResetMetricsHandler(inj))
	return router
}

func GetMetricsHandler(inj do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms := do.MustInvoke[*Service](inj)
		render.Status(r, http.StatusOK)
		render.JSON(w, r, ms.Datas())
	}
}

func ResetMetricsHandler(inj do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms := do.MustInvoke[*Service](inj)
		ms.Reset()
		render.Status(r, http.StatusOK)
		render.PlainText(w, r, "ok")
	}
}
