package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses. Reason is present only on access denials.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}
