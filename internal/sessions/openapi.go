package sessions

import (
	"github.com/JaimeStill/stagehand/pkg/openapi"
)

var stageParam = openapi.PathParam("id", "Stage identifier")

var errorResponses = map[int]*openapi.Response{
	400: openapi.ResponseRef("BadRequest"),
	404: openapi.ResponseRef("NotFound"),
	409: openapi.ResponseRef("Conflict"),
	500: openapi.ResponseRef("InternalError"),
}

func viewResponses(description string, codes ...int) map[int]*openapi.Response {
	responses := map[int]*openapi.Response{
		200: openapi.ResponseJSON(description, "View"),
	}
	for _, code := range codes {
		responses[code] = errorResponses[code]
	}
	return responses
}

var stagesOp = &openapi.Operation{
	Summary:     "List stages",
	Description: "Returns the workflow stages in order, starting with intake.",
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Stage catalog",
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Stage")}},
			},
		},
	},
}

var renderOp = &openapi.Operation{
	Summary:     "Render session",
	Description: "Returns the current view. Generates content for the current stage when it has none or has pending feedback.",
	Responses:   viewResponses("Current view", 500),
}

var intakeOp = &openapi.Operation{
	Summary:     "Complete intake",
	Description: "Stores the provider credential and project description and advances to the first generation stage. An empty credential reuses the one kept by restart.",
	RequestBody: openapi.RequestBodyJSON("IntakeRequest", true),
	Responses:   viewResponses("View of the first stage", 400, 409, 500),
}

var approveOp = &openapi.Operation{
	Summary:     "Approve stage",
	Description: "Approves the current stage and advances. Approving an already approved stage is a no-op.",
	Parameters:  []*openapi.Parameter{stageParam},
	Responses:   viewResponses("View of the next stage", 400, 404, 409, 500),
}

var feedbackOp = &openapi.Operation{
	Summary:     "Submit feedback",
	Description: "Records feedback on the current stage, revokes its approval, and regenerates it.",
	Parameters:  []*openapi.Parameter{stageParam},
	RequestBody: openapi.RequestBodyJSON("FeedbackRequest", true),
	Responses:   viewResponses("View of the regenerated stage", 400, 404, 500),
}

var downloadOp = &openapi.Operation{
	Summary:     "Download stage content",
	Description: "Downloads the generated content of one stage as a text file.",
	Parameters:  []*openapi.Parameter{stageParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseFile("Stage content", "text/plain"),
		404: errorResponses[404],
	},
}

var exportOp = &openapi.Operation{
	Summary:     "Export workflow",
	Description: "Downloads the workflow as a JSON document. When archiving is configured the X-Archive-Name header names the archived copy.",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseFile("Workflow export", "application/json"),
		500: errorResponses[500],
	},
}

var restartOp = &openapi.Operation{
	Summary:     "Restart workflow",
	Description: "Clears all workflow state except the credential and returns to intake.",
	Responses:   viewResponses("View of intake", 500),
}

var quitOp = &openapi.Operation{
	Summary:     "Quit",
	Description: "Ends the session and expires the session cookie.",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Session closed", "Closed"),
	},
}

// Schemas returns the component schemas referenced by the session routes.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Stage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":    {Type: "string", Example: "api_input"},
				"label": {Type: "string", Example: "API Input"},
			},
		},
		"StageStatus": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string"},
				"label":            {Type: "string"},
				"intake":           {Type: "boolean"},
				"current":          {Type: "boolean"},
				"approved":         {Type: "boolean"},
				"generated":        {Type: "boolean"},
				"pending_feedback": {Type: "boolean"},
			},
		},
		"View": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stage":               openapi.SchemaRef("Stage"),
				"intake":              {Type: "boolean"},
				"stages":              {Type: "array", Items: openapi.SchemaRef("StageStatus")},
				"content":             {Type: "string"},
				"has_content":         {Type: "boolean"},
				"applied_feedback":    {Type: "string"},
				"pending_feedback":    {Type: "string"},
				"error":               {Type: "string", Description: "Generation failure for the current stage"},
				"approved":            {Type: "integer"},
				"total":               {Type: "integer"},
				"complete":            {Type: "boolean"},
				"show_completion":     {Type: "boolean"},
				"project_description": {Type: "string"},
				"has_credential":      {Type: "boolean"},
			},
		},
		"IntakeRequest": {
			Type:     "object",
			Required: []string{"description"},
			Properties: map[string]*openapi.Schema{
				"credential":  {Type: "string", Format: "password", Description: "Provider API key"},
				"description": {Type: "string", Example: "Inventory service for a bakery chain"},
			},
		},
		"FeedbackRequest": {
			Type:     "object",
			Required: []string{"feedback"},
			Properties: map[string]*openapi.Schema{
				"feedback": {Type: "string", Example: "Add pagination to the list endpoints"},
			},
		},
		"Closed": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"message": {Type: "string"},
			},
		},
	}
}
