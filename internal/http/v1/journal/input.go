package journal

import "github.com/janisto/journal-api/internal/platform/pagination"

// EntryCreateInput for POST /entries
type EntryCreateInput struct {
	Body struct {
		Work      string `json:"work"      minLength:"1" maxLength:"256" required:"true" doc:"What was worked on"    example:"Shipped the pagination fix"`
		Struggle  string `json:"struggle"  minLength:"1" maxLength:"256" required:"true" doc:"What was hard"         example:"Flaky integration tests"`
		Intention string `json:"intention" minLength:"1" maxLength:"256" required:"true" doc:"Plan for the next day" example:"Stabilize the test suite"`
	}
}

// EntryListInput for GET /entries
type EntryListInput struct {
	pagination.Params
}

// EntryGetInput for GET /entries/{id}
type EntryGetInput struct {
	ID string `path:"id" maxLength:"64" doc:"Entry ID"`
}

// EntryUpdateInput for PATCH /entries/{id}
type EntryUpdateInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Entry ID"`
	Body struct {
		Work      *string `json:"work,omitempty"      minLength:"1" maxLength:"256" doc:"What was worked on"    example:"Shipped the pagination fix"`
		Struggle  *string `json:"struggle,omitempty"  minLength:"1" maxLength:"256" doc:"What was hard"         example:"Flaky integration tests"`
		Intention *string `json:"intention,omitempty" minLength:"1" maxLength:"256" doc:"Plan for the next day" example:"Stabilize the test suite"`
	}
}

// EntryDeleteInput for DELETE /entries/{id}
type EntryDeleteInput struct {
	ID string `path:"id" maxLength:"64" doc:"Entry ID"`
}

// EntryDeleteAllInput for DELETE /entries (no body needed)
type EntryDeleteAllInput struct{}
