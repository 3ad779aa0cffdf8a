package models

// FormField is one externally configured intake question.
type FormField struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Required bool   `json:"required"`
	Order    int    `json:"order"`
}
