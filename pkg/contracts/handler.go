package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every resource that mounts routes on the API router.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
