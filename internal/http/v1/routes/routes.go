package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/journal-api/internal/http/root"
	"github.com/janisto/journal-api/internal/http/v1/journal"
	journalsvc "github.com/janisto/journal-api/internal/service/journal"
)

// Prefix is the path prefix shared by all versioned routes.
const Prefix = "/v1"

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, journalService journalsvc.Service) {
	root.Register(api)
	journal.Register(api, journalService, Prefix)
}
