package models

// Outbox statuses as written on the send-queue sheet.
const (
	OutboxPending = "Pendiente"
	OutboxSent    = "Enviado"
	OutboxError   = "Error"
)

// OutboxMessage is one scheduled send-queue row. Row is the sheet row
// number so status updates target exactly one cell.
type OutboxMessage struct {
	Row         int    `json:"row"`
	Destination string `json:"destination"`
	Text        string `json:"text"`
	MediaURL    string `json:"mediaUrl,omitempty"`
	ScheduledAt string `json:"scheduledAt"` // DD/MM/YYYY HH:mm:ss
	Status      string `json:"status"`
}
