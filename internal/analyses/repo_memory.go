package analyses

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu        sync.RWMutex
	byID      map[string]Record
	bySession map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:      make(map[string]Record),
		bySession: make(map[string][]string),
	}
}

// Save stores the record.
func (r *MemoryRepo) Save(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record = record.forStorage()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[record.ID]; !exists {
		r.bySession[record.SessionID] = append(r.bySession[record.SessionID], record.ID)
	}
	r.byID[record.ID] = record
	return nil
}

// GetByID returns a record owned by sessionID.
func (r *MemoryRepo) GetByID(ctx context.Context, sessionID, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byID[id]
	if !ok || record.SessionID != sessionID {
		return Record{}, ErrNotFound
	}
	return record, nil
}

// ListBySession returns the newest records for sessionID.
func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	ids := r.bySession[sessionID]
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	// ties keep reverse insertion order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats aggregates all stored records.
func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum float64
	for _, record := range r.byID {
		sum += record.Score
	}
	stats := Stats{TotalAnalyses: len(r.byID), TotalSessions: len(r.bySession)}
	if stats.TotalAnalyses > 0 {
		stats.AverageScore = round1(sum / float64(stats.TotalAnalyses))
	}
	return stats, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
