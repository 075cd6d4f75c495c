package openapi

import "maps"

const problemMediaType = "application/problem+json"

// NewComponents creates Components holding the shared problem schema and the
// error responses every operation may return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Problem": {
				Type:        "object",
				Description: "RFC 7807 problem details",
				Properties: map[string]*Schema{
					"type":     {Type: "string", Example: "validation_error"},
					"title":    {Type: "string", Example: "Bad Request"},
					"status":   {Type: "integer", Example: 400},
					"detail":   {Type: "string"},
					"instance": {Type: "string"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":    problemResponse("Invalid or missing input"),
			"NotFound":      problemResponse("Resource not found"),
			"Conflict":      problemResponse("Action not allowed in the current workflow state"),
			"InternalError": problemResponse("Unexpected server error"),
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

func problemResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			problemMediaType: {Schema: SchemaRef("Problem")},
		},
	}
}
