package sessionRepo

import (
	"context"

	"citaflow/models"
)

// SessionRepository persists per-contact dialogue sessions. Missing
// keys come back as a fresh idle session; the engine never sees "no
// session".
type SessionRepository interface {
	Get(ctx context.Context, contact string) (models.Session, error)
	Set(ctx context.Context, contact string, session models.Session) error
	Clear(ctx context.Context, contact string) error
}
