package http

import (
	"net/http"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/http/apierr"
	"github.com/tnvu/storefront/internal/http/middleware"
)

// login implements the password flow: it accepts form-encoded username and
// password and answers with a bearer token.
func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, apierr.BodyDecodeErr.WrapParent(err))
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		s.respondError(w, r, apperr.ValidationErr.WithMsg("username and password are required"))
		return
	}

	token, err := s.authSvc.Login(r.Context(), username, password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, token)
}

func (s *Service) refreshToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, apperr.InvalidTokenErr)
		return
	}

	token, err := s.authSvc.Refresh(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, token)
}
