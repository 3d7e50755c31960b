package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"portfolio-backend/errs"
	"portfolio-backend/models"
	"portfolio-backend/store"
)

const publicUserListLimit = 10

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     *store.UserStore
}

func newUserHandler(users *store.UserStore) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
	}
}

type userListResponse struct {
	Success bool                `json:"success"`
	Count   int                 `json:"count"`
	Users   []models.PublicUser `json:"users"`
}

type publicUserResponse struct {
	Success bool              `json:"success"`
	User    models.PublicUser `json:"user"`
}

type statsResponse struct {
	Success bool                  `json:"success"`
	Stats   store.EngagementStats `json:"stats"`
}

// listUsers returns up to ten active users' public info, newest first
func (h userHandler) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users := h.users.ListPublic(publicUserListLimit)
		h.responder.WriteJSON(w, userListResponse{
			Success: true,
			Count:   len(users),
			Users:   users,
		})
	}
}

// getUser returns the public view of a single user
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Utilisateur non trouvé"))
			return
		}

		user, err := h.users.GetPublic(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				h.responder.WriteError(w, errs.NewNotFoundError("Utilisateur non trouvé"))
				return
			}
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, publicUserResponse{Success: true, User: user})
	}
}

// stats reports active-user counts and the 24h engagement rate
func (h userHandler) stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, statsResponse{
			Success: true,
			Stats:   h.users.Stats(),
		})
	}
}
