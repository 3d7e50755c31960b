package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"portfolio-backend/auth"
	"portfolio-backend/errs"
	"portfolio-backend/models"
	"portfolio-backend/store"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     *store.UserStore
	jwtSecret string
}

func newAuthHandler(users *store.UserStore, jwtSecret string) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
		jwtSecret: jwtSecret,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse carries a freshly issued token and the sanitized record.
type sessionResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

type userResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
}

// register creates a user record and issues a session token
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		user, err := h.users.Register(req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				h.responder.WriteError(w, errs.NewBadRequestError("Un utilisateur avec cet email existe déjà"))
				return
			}
			h.responder.WriteError(w, err)
			return
		}

		token, err := auth.GenerateToken(user.ID, h.jwtSecret)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, sessionResponse{Success: true, Token: token, User: user})
	}
}

// login verifies credentials, refreshes lastLogin and issues a token
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		user, err := h.users.Login(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, store.ErrInvalidCredentials) {
				h.responder.WriteError(w, errs.NewUnauthorizedError("Email ou mot de passe incorrect"))
				return
			}
			h.responder.WriteError(w, err)
			return
		}

		token, err := auth.GenerateToken(user.ID, h.jwtSecret)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, sessionResponse{Success: true, Token: token, User: user})
	}
}

// me returns the authenticated user's own record
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("Token invalide"))
			return
		}

		h.responder.WriteJSON(w, userResponse{Success: true, User: user})
	}
}

// updateProfile merges the submitted fields into the authenticated user's
// record. Absent fields stay untouched; bio and location accept explicit
// empty strings.
func (h authHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("Token invalide"))
			return
		}

		var patch store.ProfilePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		updated, err := h.users.UpdateProfile(user.ID, patch)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrDuplicateEmail):
				h.responder.WriteError(w, errs.NewBadRequestError("Cet email est déjà utilisé"))
			case errors.Is(err, store.ErrNotFound):
				h.responder.WriteError(w, errs.NewNotFoundError("Utilisateur non trouvé"))
			default:
				h.responder.WriteError(w, err)
			}
			return
		}

		h.responder.WriteJSON(w, userResponse{Success: true, User: updated})
	}
}
