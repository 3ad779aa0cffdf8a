package models

// ChatMessage is one turn of the contact's conversation history.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatContext is the rolling history window fed to the language model.
type ChatContext struct {
	Messages []ChatMessage `json:"messages"`
}
