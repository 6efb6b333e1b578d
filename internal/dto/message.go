package dto

// MessageResponse carries a human-readable confirmation for write operations.
type MessageResponse struct {
	Message string `json:"message"`
}
