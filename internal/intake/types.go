package intake

import "amie/internal/pipeline"

// UploadResponse is the response from POST /upload.
type UploadResponse struct {
	RequestID string `json:"request_id"`
	Filename  string `json:"filename"`
	Message   string `json:"message"`
}

// statusResponse is the response from GET /requests/{id}/status.
type statusResponse struct {
	Status string `json:"status"`
}

// RequestSummary is one entry from GET /requests.
type RequestSummary struct {
	RequestID  string `json:"request_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	UploadedAt string `json:"uploaded_at"`
}

// PipelineStatus returns the summary status as a pipeline status value.
func (r RequestSummary) PipelineStatus() pipeline.Status {
	return pipeline.Status(r.Status)
}

// Record is the full request record from GET /requests/{id}. The agent
// outputs are stored as they arrive from the backend: IDCA and NAA outputs
// are nested JSON documents, the aggregation output is plain text.
type Record struct {
	RequestID  string `json:"RowKey"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	UploadedAt string `json:"uploaded_at"`
	IDCAOutput string `json:"idca_output"`
	NAAOutput  string `json:"naa_output"`
	AAOutput   string `json:"aa_output"`
}

// RetryResponse is the response from POST /requests/{id}/retry.
type RetryResponse struct {
	Message        string `json:"message"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}
