package models

// AssumeRequest is the body of POST /conversations/{id}/assume.
type AssumeRequest struct {
	AgentID string `json:"agentId" validate:"required,max=128"`
}

// ReturnToAIRequest is the optional body of POST /conversations/{id}/return-to-ai.
type ReturnToAIRequest struct {
	AgentID string `json:"agentId" validate:"omitempty,max=128"`
}

// ResolveRequest is the body of POST /conversations/{id}/resolve.
type ResolveRequest struct {
	AgentID string `json:"agentId" validate:"required,max=128"`
}

// SendMessageRequest is the body of POST /conversations/{id}/messages.
type SendMessageRequest struct {
	AgentID string `json:"agentId" validate:"required,max=128"`
	Text    string `json:"text" validate:"required,max=4096"`
}

// ConversationListResponse wraps GET /conversations.
type ConversationListResponse struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}

// MessageListResponse wraps GET /conversations/{id}/messages.
type MessageListResponse struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
	Total          int       `json:"total"`
}
