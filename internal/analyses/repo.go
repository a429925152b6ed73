package analyses

import "context"

// Repo defines persistence operations for analysis history.
type Repo interface {
	Save(ctx context.Context, record Record) error
	GetByID(ctx context.Context, sessionID, id string) (Record, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]Record, error)
	Stats(ctx context.Context) (Stats, error)
}
