package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/types"
)

type activityRepository struct {
	mu         sync.RWMutex
	activities map[types.ActivityID]*model.Activity
}

func newActivityRepository() *activityRepository {
	return &activityRepository{
		activities: make(map[types.ActivityID]*model.Activity),
	}
}

func (r *activityRepository) Put(ctx context.Context, a *model.Activity) error {
	if err := a.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid activity")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.activities[a.ID] = a.Clone()
	return nil
}

func (r *activityRepository) Delete(ctx context.Context, id types.ActivityID) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid activity ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.activities, id)
	return nil
}

func (r *activityRepository) List(ctx context.Context) ([]*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Activity, 0, len(r.activities))
	for _, a := range r.activities {
		result = append(result, a.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}
