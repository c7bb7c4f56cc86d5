package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type HealthHandler struct {
	render *render.Render
}

func NewHealthHandler(r *render.Render) *HealthHandler {
	return &HealthHandler{render: r}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func muxVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
