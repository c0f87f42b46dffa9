package interfaces

import (
	"context"

	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/types"
)

// ActivityRepository defines the interface for Activity document access.
// Documents are keyed by activity ID; Put is an upsert of the full
// entity.
type ActivityRepository interface {
	// Put creates or replaces the activity document
	Put(ctx context.Context, a *model.Activity) error

	// Delete removes the activity document. Deleting an unknown ID is
	// not an error.
	Delete(ctx context.Context, id types.ActivityID) error

	// List retrieves every activity document. No pagination: canonical
	// state is loaded whole at startup, acceptable at small-fleet scale.
	List(ctx context.Context) ([]*model.Activity, error)
}
