package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler    authHandler
	userHandler    userHandler
	projectHandler projectHandler
	contactHandler contactHandler
}
