package models

// OutboundMessageRequest represents a notification pushed to the operations WhatsApp group.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
