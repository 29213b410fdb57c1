package journal

import (
	"github.com/janisto/journal-api/internal/platform/timeutil"
	journalsvc "github.com/janisto/journal-api/internal/service/journal"
)

// Entry represents a journal entry response.
type Entry struct {
	ID        string        `json:"id"        doc:"Unique identifier"          example:"4f3c2a1e-8b7d-4c6e-9f0a-1b2c3d4e5f60"`
	Work      string        `json:"work"      doc:"What was worked on"         example:"Shipped the pagination fix"`
	Struggle  string        `json:"struggle"  doc:"What was hard"              example:"Flaky integration tests"`
	Intention string        `json:"intention" doc:"Plan for the next day"      example:"Stabilize the test suite"`
	CreatedAt timeutil.Time `json:"createdAt" doc:"Creation timestamp"         example:"2024-01-15T10:30:00.000Z"`
	UpdatedAt timeutil.Time `json:"updatedAt" doc:"Last update timestamp"      example:"2024-01-15T10:30:00.000Z"`
}

func toHTTPEntry(e *journalsvc.Entry) Entry {
	return Entry{
		ID:        e.ID,
		Work:      e.Work,
		Struggle:  e.Struggle,
		Intention: e.Intention,
		CreatedAt: timeutil.Time{Time: e.CreatedAt},
		UpdatedAt: timeutil.Time{Time: e.UpdatedAt},
	}
}
