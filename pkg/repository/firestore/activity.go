package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const activitiesCollection = "activities"

type activityRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newActivityRepository(client *firestore.Client) *activityRepository {
	return &activityRepository{client: client}
}

func (r *activityRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + activitiesCollection)
}

func (r *activityRepository) Put(ctx context.Context, a *model.Activity) error {
	if err := a.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid activity")
	}

	docRef := r.collection().Doc(a.ID.String())
	if _, err := docRef.Set(ctx, a); err != nil {
		return goerr.Wrap(err, "failed to put activity to firestore", goerr.V("activityID", a.ID))
	}

	return nil
}

func (r *activityRepository) Delete(ctx context.Context, id types.ActivityID) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid activity ID")
	}

	docRef := r.collection().Doc(id.String())
	if _, err := docRef.Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return goerr.Wrap(err, "failed to delete activity from firestore", goerr.V("activityID", id))
	}

	return nil
}

func (r *activityRepository) List(ctx context.Context) ([]*model.Activity, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var result []*model.Activity
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate activities")
		}

		var a model.Activity
		if err := doc.DataTo(&a); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal activity", goerr.V("doc", doc.Ref.ID))
		}
		result = append(result, &a)
	}

	return result, nil
}
