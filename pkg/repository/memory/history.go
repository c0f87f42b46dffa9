package memory

import (
	"context"
	"sync"

	"github.com/resq-lab/rollcall/pkg/domain/model"
)

type historyRepository struct {
	mu      sync.Mutex
	records []*model.HistoryRecord
}

func newHistoryRepository() *historyRepository {
	return &historyRepository{}
}

func (r *historyRepository) Append(ctx context.Context, record *model.HistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *record
	r.records = append(r.records, &copied)
	return nil
}

// Records returns a snapshot of appended records. Test support only;
// the audit log is write-only in production.
func (r *historyRepository) Records() []*model.HistoryRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*model.HistoryRecord, len(r.records))
	copy(result, r.records)
	return result
}
