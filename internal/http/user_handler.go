package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/http/middleware"
	"github.com/tnvu/storefront/internal/service"
)

type userRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (s *Service) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.userSvc.CreateUser(r.Context(), service.CreateUserParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusCreated, user)
}

func (s *Service) listUsers(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)

	users, err := s.userSvc.ListUsers(r.Context(), skip, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, map[string]any{"users": users})
}

func (s *Service) updateUser(w http.ResponseWriter, r *http.Request) {
	callerID, targetID, err := callerAndTarget(r, "userID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req userRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.userSvc.UpdateUser(r.Context(), callerID, targetID, service.UpdateUserParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, user)
}

func (s *Service) deleteUser(w http.ResponseWriter, r *http.Request) {
	callerID, targetID, err := callerAndTarget(r, "userID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.userSvc.DeleteUser(r.Context(), callerID, targetID); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, map[string]string{"message": "User deleted"})
}

func callerAndTarget(r *http.Request, param string) (uuid.UUID, uuid.UUID, error) {
	callerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, apperr.InvalidTokenErr
	}

	targetID, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.ValidationErr.WithMsg("invalid id: %s", chi.URLParam(r, param))
	}

	return callerID, targetID, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
