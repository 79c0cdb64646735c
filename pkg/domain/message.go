package domain

import "time"

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

type Message struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	ImageURL  string      `json:"image_url,omitempty"`
	ImageID   string      `json:"image_id,omitempty"`
}

type RenderedMessage struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	HTML      string      `json:"html"`
	Timestamp time.Time   `json:"timestamp"`
	ImageURL  string      `json:"image_url,omitempty"`
}
