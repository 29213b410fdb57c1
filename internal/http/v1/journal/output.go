package journal

// EntryCreateOutput for POST /entries (201 Created)
type EntryCreateOutput struct {
	Location string `header:"Location" doc:"URL of the created entry"`
	Body     Entry
}

// ListData is the response body containing a page of entries.
type ListData struct {
	Entries []Entry `json:"entries" doc:"Entries, newest first"`
	Total   int     `json:"total"   doc:"Total number of entries" example:"42"`
}

// EntryListOutput is the response wrapper with pagination Link header.
type EntryListOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body ListData
}

// EntryGetOutput for GET /entries/{id}
type EntryGetOutput struct {
	Body Entry
}

// EntryUpdateOutput for PATCH /entries/{id}
type EntryUpdateOutput struct {
	Body Entry
}

// DeleteAllData reports how many entries were removed.
type DeleteAllData struct {
	Deleted int `json:"deleted" doc:"Number of entries removed" example:"3"`
}

// EntryDeleteAllOutput for DELETE /entries
type EntryDeleteAllOutput struct {
	Body DeleteAllData
}
