package invoice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authmw "github.com/mpereira/invoicer/internal/http/auth"
	"github.com/mpereira/invoicer/internal/http/respond"
	"github.com/mpereira/invoicer/internal/invoice"
	"github.com/mpereira/invoicer/internal/validate"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{}

	if s := r.URL.Query().Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.Page = n
		}
	}

	if s := r.URL.Query().Get("per_page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.PerPage = n
		}
	}

	page, err := h.svc.List(r.Context(), authmw.UserID(r.Context()), filter)
	if err != nil {
		respond.Failure(w, "failed to list invoices", err)
		return
	}

	respond.JSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var params invoice.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := h.svc.Create(r.Context(), authmw.UserID(r.Context()), params)
	if err != nil {
		var vErr *validate.Error
		if errors.As(err, &vErr) {
			respond.ValidationError(w, vErr)
			return
		}

		respond.Failure(w, "failed to create invoice", err)

		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(inv))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	inv, err := h.svc.Get(r.Context(), authmw.UserID(r.Context()), id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "invoice not found")
			return
		}

		respond.Failure(w, "failed to fetch invoice", err)

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var params invoice.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := h.svc.Update(r.Context(), authmw.UserID(r.Context()), id, params)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "invoice not found")
			return
		}

		var vErr *validate.Error
		if errors.As(err, &vErr) {
			respond.ValidationError(w, vErr)
			return
		}

		respond.Failure(w, "failed to update invoice", err)

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), authmw.UserID(r.Context()), id); err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "invoice not found")
			return
		}

		respond.Failure(w, "failed to delete invoice", err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "invoice deleted"})
}
