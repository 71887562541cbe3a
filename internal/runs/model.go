package runs

import "time"

// Kinds of pipeline run.
const (
	KindGenerate = "generate"
	KindEdit     = "edit"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is the metadata recorded for one generate or edit request. Document
// content is never stored.
type Run struct {
	ID           string    `json:"runId"`
	RequestID    string    `json:"requestId,omitempty"`
	Kind         string    `json:"kind"`
	TemplateID   string    `json:"templateId,omitempty"`
	SinglePage   bool      `json:"singlePage"`
	Compiled     bool      `json:"compiled"`
	Provider     string    `json:"provider,omitempty"`
	Model        string    `json:"model,omitempty"`
	Status       string    `json:"status"`
	FailedStage  string    `json:"failedStage,omitempty"`
	ArtifactName string    `json:"artifactName,omitempty"`
	LatexBytes   int       `json:"latexBytes"`
	PDFBytes     int       `json:"pdfBytes"`
	DurationMs   int64     `json:"durationMs"`
	CreatedAt    time.Time `json:"createdAt"`
}
