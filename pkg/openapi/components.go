package openapi

import "maps"

// NewComponents creates Components with the shared error schema and the
// error responses every endpoint can produce.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error":   {Type: "string", Description: "Error message"},
					"code":    {Type: "string", Description: "Machine-readable error code", Example: "invalid_credential"},
					"details": {Type: "string", Description: "Underlying failure detail"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":      errorResponse("Invalid request"),
			"Unauthorized":    errorResponse("No credential presented"),
			"Forbidden":       errorResponse("Credential rejected"),
			"PayloadTooLarge": errorResponse("Upload exceeds the size limit"),
			"TooManyRequests": errorResponse("Rate limit exceeded"),
			"InternalError":   errorResponse("Server or model failure"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}
