package root

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Message is the fixed placeholder payload served at the root path.
const Message = "hello from CI/CD Pipeline!"

// Register wires the root route into the provided API router.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Placeholder greeting",
		Description: "Returns a fixed message confirming the service is deployed.",
		Tags:        []string{"Root"},
	}, func(_ context.Context, _ *struct{}) (*GetOutput, error) {
		return &GetOutput{Body: Data{Message: Message}}, nil
	})
}
