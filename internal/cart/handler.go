// AngelaMos | 2026
// handler.go

package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/snavia68/coffeademo/internal/core"
	"github.com/snavia68/coffeademo/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireBuyer)

		r.Get("/", h.GetCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{productID}", h.UpdateQuantity)
		r.Delete("/items/{productID}", h.RemoveItem)
		r.Delete("/", h.ClearCart)
	})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.AddItem(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		h.writeCartError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.UpdateQuantity(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "productID"),
		req,
	)
	if err != nil {
		h.writeCartError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.RemoveItem(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "productID"),
	)
	if err != nil {
		h.writeCartError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	err := h.service.Clear(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDifferentStore):
		core.Conflict(
			w,
			"Solo puedes agregar productos de una misma tienda por orden",
		)
	case errors.Is(err, ErrInsufficientStock):
		core.JSONError(w, core.ConflictError("Stock insuficiente"))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "product")
	default:
		core.InternalServerError(w, err)
	}
}
