package customer

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mpereira/invoicer/internal/customer"
	authmw "github.com/mpereira/invoicer/internal/http/auth"
	"github.com/mpereira/invoicer/internal/http/respond"
	"github.com/mpereira/invoicer/internal/validate"
)

type Handler struct {
	svc *customer.Service
}

func NewHandler(svc *customer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type customerResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toResponse(c *customer.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.List(r.Context(), authmw.UserID(r.Context()))
	if err != nil {
		respond.Failure(w, "failed to list customers", err)
		return
	}

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var params customer.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.svc.Create(r.Context(), authmw.UserID(r.Context()), params)
	if err != nil {
		var vErr *validate.Error
		if errors.As(err, &vErr) {
			respond.ValidationError(w, vErr)
			return
		}

		respond.Failure(w, "failed to create customer", err)

		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	c, err := h.svc.Get(r.Context(), authmw.UserID(r.Context()), id)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "customer not found")
			return
		}

		respond.Failure(w, "failed to fetch customer", err)

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var params customer.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.svc.Update(r.Context(), authmw.UserID(r.Context()), id, params)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "customer not found")
			return
		}

		var vErr *validate.Error
		if errors.As(err, &vErr) {
			respond.ValidationError(w, vErr)
			return
		}

		respond.Failure(w, "failed to update customer", err)

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), authmw.UserID(r.Context()), id); err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "customer not found")
			return
		}

		respond.Failure(w, "failed to delete customer", err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "customer deleted"})
}
