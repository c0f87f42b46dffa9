package interfaces

import (
	"context"

	"github.com/resq-lab/rollcall/pkg/domain/model"
)

// HistoryRepository defines the interface for the append-only audit log.
// Records are never read back by this service.
type HistoryRepository interface {
	Append(ctx context.Context, record *model.HistoryRecord) error
}
