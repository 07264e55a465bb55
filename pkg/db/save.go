package db

import (
	"context"

	"github.com/grexie/frames/pkg/frame"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SaveFrame replaces the contents of a collection with the frame's rows. The
// clear and the insert run inside one transaction when the deployment supports
// them, so readers never observe a half-written table. Insertion order is
// preserved, which keeps _id order equal to row order for a later Collect.
func SaveFrame(db *mongo.Database, ctx context.Context, collection string, f *frame.Frame) error {
	c := db.Collection(collection)

	docs := make([]any, f.Len())
	for i := 0; i < f.Len(); i++ {
		docs[i] = bson.M(f.Row(i))
	}

	_, err := WithTransaction(db, ctx, func(ctx context.Context) (any, error) {
		if _, err := c.DeleteMany(ctx, bson.D{}); err != nil {
			return nil, errors.Wrapf(err, "clearing %s", collection)
		}
		if len(docs) == 0 {
			return nil, nil
		}
		if _, err := c.InsertMany(ctx, docs); err != nil {
			return nil, errors.Wrapf(err, "writing %s", collection)
		}
		return nil, nil
	})
	return err
}
