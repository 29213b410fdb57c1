package pagination

const defaultLimit = 20

// Params embeds into Huma input structs for cursor pagination.
type Params struct {
	Cursor string `query:"cursor" doc:"Opaque pagination cursor from a previous Link header"`
	Limit  int    `query:"limit"  doc:"Maximum items per page" default:"20" minimum:"1" maximum:"100"`
}

// PageSize returns Limit, or the default when it is unset.
func (p Params) PageSize() int {
	if p.Limit <= 0 {
		return defaultLimit
	}
	return p.Limit
}
