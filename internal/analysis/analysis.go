package analysis

import "github.com/google/uuid"

// Conflict severities.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

// SuccessMessage is the message carried by every successful Envelope.
const SuccessMessage = "Analysis successful"

// Conflict is one clause of the candidate contract that diverges from the master agreement.
type Conflict struct {
	ID            int    `json:"id"`
	Severity      string `json:"severity"`
	Category      string `json:"category"`
	MasterText    string `json:"masterText"`
	CandidateText string `json:"candidateText"`
	Explanation   string `json:"explanation"`
}

// Result is the validated model output.
type Result struct {
	RiskScore int        `json:"riskScore"`
	Conflicts []Conflict `json:"conflicts"`
}

// Files names the stored uploads an analysis was produced from.
type Files struct {
	Master    string `json:"master"`
	Candidate string `json:"candidate"`
}

// Envelope is the response body of a successful analysis.
type Envelope struct {
	ID           uuid.UUID `json:"id"`
	Message      string    `json:"message"`
	Files        Files     `json:"files"`
	MockAnalysis Result    `json:"mockAnalysis"`
}
