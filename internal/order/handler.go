// AngelaMos | 2026
// handler.go

package order

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
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireBuyer)
			r.Post("/checkout", h.Checkout)
			r.Get("/", h.ListMyOrders)
		})

		r.Get("/{id}", h.GetOrder)
		r.Patch("/{id}/status", h.UpdateStatus)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireSeller)

		r.Get("/seller/orders", h.ListStoreOrders)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireAdmin)

		r.Get("/admin/orders", h.ListAllOrders)
	})
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Completa todos los campos")
		return
	}

	o, err := h.service.Checkout(
		r.Context(),
		middleware.GetUserID(r.Context()),
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	core.Created(w, ToOrderResponse(o))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(
		r.Context(),
		middleware.GetUserID(r.Context()),
		middleware.GetUserRole(r.Context()),
		chi.URLParam(r, "id"),
	)
	if err != nil {
		core.JSONError(w, core.MapDomainError(err, "order"))
		return
	}

	core.OK(w, ToOrderResponse(o))
}

func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListForBuyer(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToOrderResponseList(orders))
}

func (h *Handler) ListStoreOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListForStore(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "store")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToOrderResponseList(orders))
}

func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToOrderResponseList(orders))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	o, err := h.service.UpdateStatus(
		r.Context(),
		middleware.GetUserID(r.Context()),
		middleware.GetUserRole(r.Context()),
		chi.URLParam(r, "id"),
		req.Status,
	)
	if err != nil {
		if errors.Is(err, core.ErrInvalidTransition) {
			core.JSONError(w, core.InvalidTransitionError(err.Error()))
			return
		}
		core.JSONError(w, core.MapDomainError(err, "order"))
		return
	}

	core.OK(w, ToOrderResponse(o))
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyCart):
		core.BadRequest(w, "El carrito está vacío")
	case errors.Is(err, ErrPaymentDeclined):
		core.JSONError(w, core.NewAppError(
			err,
			"Pago rechazado. Intenta de nuevo.",
			http.StatusPaymentRequired,
			"PAYMENT_DECLINED",
		))
	case errors.Is(err, ErrDuplicateCheckout):
		core.Conflict(w, "Ya hay un pago en curso para esta orden")
	case errors.Is(err, ErrInsufficientStock):
		core.JSONError(w, core.ConflictError("Stock insuficiente"))
	default:
		core.InternalServerError(w, err)
	}
}
