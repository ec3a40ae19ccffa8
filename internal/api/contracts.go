package api

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
	TopK    int    `json:"top_k,omitempty"`
}

// ChatResponse echoes the question next to the grounded answer.
type ChatResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// HealthResponse is the fixed payload of GET /.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ErrorResponse carries a stable machine-readable code next to the human
// message. Codes are listed in handlers/errors.go.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}
