package frame

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// ReadCSV materializes a CSV file into a frame. The first record is the
// header. With a nil schema, kinds are inferred from the first data row: a
// cell that parses as a float is Float, then Bool, otherwise String. Parse
// failures on later rows fail the whole read; there is no skip-and-continue.
// An empty cell is recorded as a missing cell, not a zero.
func ReadCSV(path string, schema *Schema) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s header", path)
	}

	records := [][]string{}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		records = append(records, rec)
	}

	if schema == nil {
		if schema, err = inferCSVSchema(header, records); err != nil {
			return nil, err
		}
	} else {
		for _, name := range header {
			if _, ok := schema.Field(name); !ok {
				return nil, errors.Errorf("%s: header column %q not in schema", path, name)
			}
		}
	}

	f := New(schema)
	for i, rec := range records {
		row := Row{}
		for j, name := range header {
			if j >= len(rec) || rec[j] == "" {
				continue
			}
			field, _ := schema.Field(name)
			v, err := parseCell(rec[j], field.Kind)
			if err != nil {
				return nil, errors.Wrapf(err, "%s row %d column %q", path, i+1, name)
			}
			row[name] = v
		}
		if err := f.Append(row); err != nil {
			return nil, errors.Wrapf(err, "%s row %d", path, i+1)
		}
	}
	return f, nil
}

func inferCSVSchema(header []string, records [][]string) (*Schema, error) {
	fields := make([]Field, len(header))
	for i, name := range header {
		kind := String
		if len(records) > 0 && i < len(records[0]) {
			cell := records[0][i]
			if _, err := strconv.ParseFloat(cell, 64); err == nil {
				kind = Float
			} else if _, err := strconv.ParseBool(cell); err == nil {
				kind = Bool
			}
		}
		fields[i] = Field{Name: name, Kind: kind}
	}
	return NewSchema(fields...)
}

func parseCell(cell string, kind Kind) (any, error) {
	switch kind {
	case Float:
		return strconv.ParseFloat(cell, 64)
	case Int:
		return strconv.ParseInt(cell, 10, 64)
	case Bool:
		return strconv.ParseBool(cell)
	case Time:
		return time.Parse(time.RFC3339, cell)
	default:
		return cell, nil
	}
}

// WriteCSV writes the frame with a header row in schema order. Missing cells
// become empty fields.
func (f *Frame) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	names := f.schema.Names()

	if err := writer.Write(names); err != nil {
		return err
	}

	rec := make([]string, len(names))
	for _, row := range f.rows {
		for i, name := range names {
			rec[i] = formatCell(row[name])
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FileSource materializes a local CSV file. A nil Schema infers one.
type FileSource struct {
	Path   string
	Schema *Schema
}

func (s FileSource) Collect(ctx context.Context) (*Frame, error) {
	return ReadCSV(s.Path, s.Schema)
}
