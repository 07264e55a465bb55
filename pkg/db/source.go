// Package db connects to MongoDB and materializes collections into frames. A
// collection stands in for one distributed data table; Collect pulls the whole
// thing into the local process.
package db

import (
	"context"
	"fmt"

	"github.com/grexie/frames/pkg/frame"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Source materializes a mongo collection. With a nil Schema the schema is
// inferred from the first document; the _id cell is dropped unless the schema
// names it. SortBy selects the column that fixes row order; when empty, rows
// come back in _id order, which for documents written by SaveFrame is
// insertion order.
type Source struct {
	Collection *mongo.Collection
	Filter     bson.D
	SortBy     string
	Schema     *frame.Schema
	Progress   progress.Writer
}

func (s Source) Collect(ctx context.Context) (*frame.Frame, error) {
	filter := s.Filter
	if filter == nil {
		filter = bson.D{}
	}

	sort := bson.D{{Key: "_id", Value: 1}}
	if s.SortBy != "" {
		// mongo refuses large sorts without an index on the sort key
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: s.SortBy, Value: 1}},
			Options: options.Index().SetName(fmt.Sprintf("frames_%s", s.SortBy)),
		}
		if err := EnsureIndex(s.Collection.Database(), ctx, s.Collection.Name(), model); err != nil {
			return nil, errors.Wrapf(err, "ensuring index on %s", s.SortBy)
		}
		sort = bson.D{{Key: s.SortBy, Value: 1}}
	}

	var tracker *progress.Tracker
	if s.Progress != nil {
		total, err := s.Collection.EstimatedDocumentCount(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "counting %s", s.Collection.Name())
		}
		tracker = &progress.Tracker{
			Message: fmt.Sprintf("Collecting %s", s.Collection.Name()),
			Total:   total,
			Units:   progress.UnitsDefault,
		}
		s.Progress.AppendTracker(tracker)
		tracker.Start()
	}

	cur, err := s.Collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", s.Collection.Name())
	}
	defer cur.Close(ctx)

	keepID := false
	if s.Schema != nil {
		_, keepID = s.Schema.Field("_id")
	}

	rows := []frame.Row{}
	for cur.Next(ctx) {
		var row bson.M
		if err := cur.Decode(&row); err != nil {
			return nil, errors.Wrapf(err, "decoding row %d", len(rows))
		}
		if !keepID {
			delete(row, "_id")
		}
		rows = append(rows, frame.Row(row))
		if tracker != nil {
			tracker.Increment(1)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterating %s", s.Collection.Name())
	}
	if tracker != nil {
		tracker.MarkAsDone()
	}

	if s.Schema == nil {
		return frame.FromRows(rows)
	}

	f := frame.New(s.Schema)
	for i, row := range rows {
		if err := f.Append(row); err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
	}
	return f, nil
}
