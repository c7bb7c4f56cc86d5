package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

const maxCartBodyBytes = 1 << 20

// CartAPIHandler serves the mirrored cart of the owner resolved by the CartOwner middleware.
type CartAPIHandler struct {
	render   *render.Render
	cartRepo repositories.RemoteCartRepository
	logger   *zap.SugaredLogger
}

func NewCartAPIHandler(r *render.Render, cartRepo repositories.RemoteCartRepository, logger *zap.SugaredLogger) *CartAPIHandler {
	return &CartAPIHandler{
		render:   r,
		cartRepo: cartRepo,
		logger:   logger,
	}
}

func (h *CartAPIHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := r.Context().Value(helpers.ContextKeyCartOwner).(string)
	if !ok || owner == "" {
		_ = h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "cart owner unknown"})
		return
	}

	payload, err := h.cartRepo.GetCart(r.Context(), owner)
	if err != nil {
		h.logger.Errorf("CartAPIHandler.GetCart: failed to load cart for %s: %v", owner, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
		return
	}
	_ = h.render.JSON(w, http.StatusOK, payload)
}

// SaveCart replaces the owner's cart. The summary sent by the client is ignored
// and recomputed from the items.
func (h *CartAPIHandler) SaveCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := r.Context().Value(helpers.ContextKeyCartOwner).(string)
	if !ok || owner == "" {
		_ = h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "cart owner unknown"})
		return
	}

	var payload models.CartPayload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCartBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cart payload"})
		return
	}
	if payload.Items == nil {
		payload.Items = []models.LineItem{}
	}
	if err := repositories.ValidateLineItems(payload.Items); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	summary := calc.ComputeSummary(payload.Items)
	payload.Summary = &summary

	if err := h.cartRepo.SaveCart(r.Context(), owner, &payload); err != nil {
		h.logger.Errorf("CartAPIHandler.SaveCart: failed to save cart for %s: %v", owner, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save cart"})
		return
	}
	_ = h.render.JSON(w, http.StatusOK, payload)
}

// GetOwnerCart lets an admin inspect any owner's cart.
func (h *CartAPIHandler) GetOwnerCart(w http.ResponseWriter, r *http.Request) {
	owner := muxVar(r, "owner")
	if owner == "" {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "owner is required"})
		return
	}

	payload, err := h.cartRepo.GetCart(r.Context(), owner)
	if err != nil {
		if errors.Is(err, repositories.ErrMalformedState) {
			_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "stored cart is unreadable"})
			return
		}
		h.logger.Errorf("CartAPIHandler.GetOwnerCart: failed to load cart for %s: %v", owner, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
		return
	}
	_ = h.render.JSON(w, http.StatusOK, payload)
}
