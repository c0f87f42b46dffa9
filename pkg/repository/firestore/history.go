package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/model"
)

const historyCollection = "history"

type historyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newHistoryRepository(client *firestore.Client) *historyRepository {
	return &historyRepository{client: client}
}

func (r *historyRepository) Append(ctx context.Context, record *model.HistoryRecord) error {
	col := r.client.Collection(r.collectionPrefix + historyCollection)
	if _, _, err := col.Add(ctx, record); err != nil {
		return goerr.Wrap(err, "failed to append history record")
	}

	return nil
}
