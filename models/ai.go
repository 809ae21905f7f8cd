package models

type ChatRole string

const (
	// RoleSystem marks the catalog preamble. Gemini has no system role in
	// chat history, so it is sent as a user turn.
	RoleSystem ChatRole = "system"
	RoleUser   ChatRole = "user"
	RoleModel  ChatRole = "model"
)

// ChatTurn is one entry of a conversation history.
type ChatTurn struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// ChatPart and ChatMessage mirror the widget's Gemini-shaped transcript.
type ChatPart struct {
	Text string `json:"text"`
}

type ChatMessage struct {
	Role  string     `json:"role"`
	Parts []ChatPart `json:"parts"`
}

// SiteChatRequest is the body of POST /api/ai/site-chat.
type SiteChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
}

type SiteChatResponse struct {
	Reply string `json:"reply"`
}

// CatalogSnapshot is the live catalog data injected into AI prompts.
type CatalogSnapshot struct {
	Tours []Tour `json:"tours"`
	Buses []Bus  `json:"buses"`
}
