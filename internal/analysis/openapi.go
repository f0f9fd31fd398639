package analysis

import "github.com/JaimeStill/redline/pkg/openapi"

// Schemas returns the OpenAPI component schemas for analysis endpoints.
func Schemas() map[string]*openapi.Schema {
	minScore, maxScore := 0.0, 100.0

	return map[string]*openapi.Schema{
		"AnalyzeUpload": {
			Type:     "object",
			Required: []string{"master", "candidate"},
			Properties: map[string]*openapi.Schema{
				"master":    {Type: "string", Format: "binary", Description: "Master Agreement (PDF)"},
				"candidate": {Type: "string", Format: "binary", Description: "Candidate Contract (PDF)"},
			},
		},
		"Conflict": {
			Type:     "object",
			Required: []string{"id", "severity", "category", "masterText", "candidateText", "explanation"},
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "integer"},
				"severity":      {Type: "string", Enum: []any{SeverityHigh, SeverityMedium, SeverityLow}},
				"category":      {Type: "string", Example: "Termination"},
				"masterText":    {Type: "string", Description: "Exact quote from the master agreement"},
				"candidateText": {Type: "string", Description: "Exact quote from the candidate contract"},
				"explanation":   {Type: "string"},
			},
		},
		"AnalysisResult": {
			Type:     "object",
			Required: []string{"riskScore", "conflicts"},
			Properties: map[string]*openapi.Schema{
				"riskScore": {Type: "integer", Minimum: &minScore, Maximum: &maxScore},
				"conflicts": {Type: "array", Items: openapi.SchemaRef("Conflict")},
			},
		},
		"Envelope": {
			Type:     "object",
			Required: []string{"id", "message", "files", "mockAnalysis"},
			Properties: map[string]*openapi.Schema{
				"id":      {Type: "string", Format: "uuid"},
				"message": {Type: "string", Example: SuccessMessage},
				"files": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"master":    {Type: "string", Description: "Stored master filename"},
						"candidate": {Type: "string", Description: "Stored candidate filename"},
					},
				},
				"mockAnalysis": openapi.SchemaRef("AnalysisResult"),
			},
		},
	}
}
