package root

// Data is the root response body.
type Data struct {
	Message string `json:"message" doc:"Placeholder message" example:"hello from CI/CD Pipeline!"`
}

// GetOutput for GET /
type GetOutput struct {
	Body Data
}
