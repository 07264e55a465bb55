package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/grexie/frames/pkg/frame"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Source materializes one remote table. With a DB, fetched records are cached
// as JSON arrays under zero-padded row keys, and Collect replays the
// contiguous cached prefix before paging the remainder from the service. A
// gap, a corrupt entry or a record that no longer parses against the table's
// columns ends the replay and the rest is refetched.
type Source struct {
	Client   *Client
	Table    string
	DB       *leveldb.DB
	Progress progress.Writer
}

func rowKey(table string, index int) []byte {
	return fmt.Appendf([]byte{}, "%s-%012d", table, index)
}

func (s Source) Collect(ctx context.Context) (*frame.Frame, error) {
	info, err := s.Client.Table(ctx, s.Table)
	if err != nil {
		return nil, err
	}

	schema, err := frame.NewSchema(info.Columns...)
	if err != nil {
		return nil, errors.Wrapf(err, "table %s", s.Table)
	}

	var tracker *progress.Tracker
	if s.Progress != nil {
		tracker = &progress.Tracker{
			Message: fmt.Sprintf("Fetching %s", s.Table),
			Total:   int64(info.Rows),
			Units:   progress.UnitsDefault,
		}
		s.Progress.AppendTracker(tracker)
		tracker.Start()
	}

	f := frame.New(schema)
	next := 0

	if s.DB != nil {
		iter := s.DB.NewIterator(util.BytesPrefix(fmt.Appendf([]byte{}, "%s-", s.Table)), nil)
		for iter.Next() {
			if next == info.Rows || !bytes.Equal(iter.Key(), rowKey(s.Table, next)) {
				break
			}
			var record []string
			if err := json.Unmarshal(iter.Value(), &record); err != nil {
				break
			}
			row, err := newRowFromRecord(info.Columns, record)
			if err != nil {
				break
			}
			if err := f.Append(row); err != nil {
				break
			}
			next++
			if tracker != nil {
				tracker.Increment(1)
			}
		}
		iter.Release()
	}

	for next < info.Rows {
		requested := time.Now()

		limit := s.Client.limit
		if next+limit > info.Rows {
			limit = info.Rows - next
		}

		records, err := s.Client.Rows(ctx, s.Table, next, limit)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, errors.Errorf("empty page at row %d of %d", next, info.Rows)
		}
		if len(records) > limit {
			records = records[:limit]
		}

		for _, record := range records {
			row, err := newRowFromRecord(info.Columns, record)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d", next)
			}
			if err := f.Append(row); err != nil {
				return nil, errors.Wrapf(err, "row %d", next)
			}
			if s.DB != nil {
				if b, err := json.Marshal(record); err != nil {
					return nil, errors.Wrapf(err, "caching row %d", next)
				} else if err := s.DB.Put(rowKey(s.Table, next), b, nil); err != nil {
					return nil, errors.Wrapf(err, "caching row %d", next)
				}
			}
			next++
			if tracker != nil {
				tracker.Increment(1)
			}
		}

		if next < info.Rows {
			time.Sleep(time.Until(requested.Add(s.Client.interval)))
		}
	}

	if tracker != nil {
		tracker.MarkAsDone()
	}
	return f, nil
}
