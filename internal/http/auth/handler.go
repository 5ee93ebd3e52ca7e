package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mpereira/invoicer/internal/auth"
	"github.com/mpereira/invoicer/internal/http/respond"
	"github.com/mpereira/invoicer/internal/validate"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var params auth.RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.svc.Register(r.Context(), params)
	if err != nil {
		var vErr *validate.Error
		if errors.As(err, &vErr) {
			respond.ValidationError(w, vErr)
			return
		}

		respond.Failure(w, "failed to register", err)

		return
	}

	respond.JSON(w, http.StatusCreated, toUserResponse(u))
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var params auth.LoginParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	u, token, err := h.svc.Login(r.Context(), params)
	if err != nil {
		var vErr *validate.Error
		if errors.As(err, &vErr) {
			respond.ValidationError(w, vErr)
			return
		}

		if errors.Is(err, auth.ErrInvalidCredentials) {
			respond.Error(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		respond.Failure(w, "failed to log in", err)

		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{Token: token, User: toUserResponse(u)})
}
