// AngelaMos | 2026
// handler.go

package catalog

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
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireSeller)

		r.Post("/seller/store", h.CreateStore)
		r.Get("/seller/store", h.GetMyStore)

		r.Post("/seller/products", h.AddProduct)
		r.Get("/seller/products", h.ListMyProducts)
		r.Patch("/seller/products/{id}", h.UpdateProduct)
		r.Delete("/seller/products/{id}", h.DeleteProduct)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireAdmin)

		r.Get("/admin/stores", h.ListStores)
		r.Patch("/admin/stores/{id}/status", h.UpdateStoreStatus)
	})
}

// ListProducts is the public storefront listing. Only active products of
// any store show up; ?store_id= and ?q= narrow the result.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("store_id")
	search := r.URL.Query().Get("q")

	products, err := h.service.ListActiveProducts(r.Context(), storeID, search)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProductResponseList(products))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetActiveProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "product")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	store, err := h.service.GetStore(r.Context(), product.StoreID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ProductWithStoreResponse{
		ProductResponse: ToProductResponse(product),
		Store:           ToStoreResponse(store),
	})
}

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Completa todos los campos")
		return
	}

	store, err := h.service.CreateStore(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, ErrStoreExists) {
			core.Conflict(w, "Ya tienes una tienda registrada")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToStoreResponse(store))
}

// GetMyStore returns 404 when the seller has not registered a store yet;
// the dashboard uses that to show the registration form instead.
func (h *Handler) GetMyStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.service.GetStoreByUserID(
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

	core.OK(w, ToStoreResponse(store))
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Completa todos los campos")
		return
	}

	product, err := h.service.AddProduct(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "store")
			return
		}
		if errors.Is(err, ErrStoreNotApproved) {
			core.Forbidden(w, "Tu tienda aún no está aprobada")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToProductResponse(product))
}

func (h *Handler) ListMyProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListStoreProducts(
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

	core.OK(w, ToProductResponseList(products))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	product, err := h.service.UpdateProduct(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "id"),
		req,
	)
	if err != nil {
		core.JSONError(w, core.MapDomainError(err, "product"))
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteProduct(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "id"),
	)
	if err != nil {
		core.JSONError(w, core.MapDomainError(err, "product"))
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	stores, err := h.service.ListStores(r.Context(), status)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToStoreResponseList(stores))
}

func (h *Handler) UpdateStoreStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStoreStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	store, err := h.service.UpdateStoreStatus(
		r.Context(),
		chi.URLParam(r, "id"),
		req.Status,
	)
	if err != nil {
		if errors.Is(err, core.ErrInvalidTransition) {
			core.JSONError(w, core.InvalidTransitionError(err.Error()))
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "store")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToStoreResponse(store))
}
