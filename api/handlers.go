package api

import (
	"portfolio-backend/database"
	"portfolio-backend/services"
	"portfolio-backend/store"
)

// initializeHandlers creates all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, users *store.UserStore, contact services.ContactService, cfg map[string]string) *routeHandlers {
	jwtSecret := jwtSecretFromConfig(cfg)
	uploadDir := uploadDirFromConfig(cfg)

	return &routeHandlers{
		authHandler:    newAuthHandler(users, jwtSecret),
		userHandler:    newUserHandler(users),
		projectHandler: newProjectHandler(db.ProjectRepo(), uploadDir),
		contactHandler: newContactHandler(contact, cfg),
	}
}
