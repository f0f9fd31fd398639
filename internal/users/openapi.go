package users

import "github.com/JaimeStill/redline/pkg/openapi"

// Schemas returns the OpenAPI component schemas for user endpoints.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Claim": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"uid":     {Type: "string", Description: "Identity provider subject id"},
				"email":   {Type: "string", Format: "email"},
				"name":    {Type: "string"},
				"picture": {Type: "string", Format: "uri"},
				"iat":     {Type: "integer", Description: "Issued at (Unix seconds)"},
				"exp":     {Type: "integer", Description: "Expires at (Unix seconds)"},
			},
		},
		"LoginResponse": {
			Type:     "object",
			Required: []string{"message", "user"},
			Properties: map[string]*openapi.Schema{
				"message": {Type: "string", Example: "User authenticated"},
				"user":    openapi.SchemaRef("Claim"),
			},
		},
	}
}
