package frame_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/grexie/frames/pkg/frame"
)

func TestSchema(t *testing.T) {
	if _, err := frame.NewSchema(
		frame.Field{Name: "a", Kind: frame.Float},
		frame.Field{Name: "a", Kind: frame.Int},
	); err == nil {
		t.Fatal("expected an error for duplicate fields")
	}
	if _, err := frame.NewSchema(frame.Field{Kind: frame.Float}); err == nil {
		t.Fatal("expected an error for an empty field name")
	}

	schema, err := frame.NewSchema(
		frame.Field{Name: "a", Kind: frame.Float},
		frame.Field{Name: "b", Kind: frame.String},
	)
	if err != nil {
		t.Fatalf("error building schema: %v", err)
	}
	if schema.Len() != 2 {
		t.Fatalf("expected 2 fields, got %d", schema.Len())
	}
	if field, ok := schema.Field("b"); !ok || field.Kind != frame.String {
		t.Fatalf("expected b to be a string field, got %v, %v", field, ok)
	}
	if _, ok := schema.Field("c"); ok {
		t.Fatal("expected the lookup for c to miss")
	}
	names := schema.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("expected names [a b], got %v", names)
	}
}

func TestFromRows(t *testing.T) {
	f, err := frame.FromRows([]frame.Row{
		{"price": 1.5, "volume": int64(10), "symbol": "BTC", "open": true},
	})
	if err != nil {
		t.Fatalf("error building frame: %v", err)
	}

	names := f.Schema().Names()
	want := []string{"open", "price", "symbol", "volume"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}

	kinds := map[string]frame.Kind{
		"price":  frame.Float,
		"volume": frame.Int,
		"symbol": frame.String,
		"open":   frame.Bool,
	}
	for name, kind := range kinds {
		if field, _ := f.Schema().Field(name); field.Kind != kind {
			t.Fatalf("expected %s to infer as %s, got %s", name, kind, field.Kind)
		}
	}

	empty, err := frame.FromRows(nil)
	if err != nil {
		t.Fatalf("error building empty frame: %v", err)
	}
	if empty.Len() != 0 || empty.Schema().Len() != 0 {
		t.Fatalf("expected an empty frame, got %d rows, %d fields", empty.Len(), empty.Schema().Len())
	}
}

func TestAppendValidation(t *testing.T) {
	schema, err := frame.NewSchema(
		frame.Field{Name: "price", Kind: frame.Float},
		frame.Field{Name: "symbol", Kind: frame.String},
	)
	if err != nil {
		t.Fatalf("error building schema: %v", err)
	}
	f := frame.New(schema)

	if err := f.Append(frame.Row{"price": 1.0, "symbol": "BTC"}); err != nil {
		t.Fatalf("error appending a valid row: %v", err)
	}
	if err := f.Append(frame.Row{"price": int32(2)}); err != nil {
		t.Fatalf("error appending an int cell to a float column: %v", err)
	}
	if err := f.Append(frame.Row{"symbol": nil}); err != nil {
		t.Fatalf("error appending a nil cell: %v", err)
	}
	if err := f.Append(frame.Row{"volume": 1.0}); err == nil {
		t.Fatal("expected an error for a column not in the schema")
	}
	if err := f.Append(frame.Row{"price": "expensive"}); err == nil {
		t.Fatal("expected an error for a string in a float column")
	}
	if err := f.Append(frame.Row{"symbol": 42.0}); err == nil {
		t.Fatal("expected an error for a number in a string column")
	}
	if f.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", f.Len())
	}
}

func TestFloat(t *testing.T) {
	f, err := frame.FromRows([]frame.Row{
		{"price": 1.5, "symbol": "BTC"},
		{"price": int64(2)},
	})
	if err != nil {
		t.Fatalf("error building frame: %v", err)
	}

	if v, err := f.Float(0, "price"); err != nil || v != 1.5 {
		t.Fatalf("expected 1.5, got %v, %v", v, err)
	}
	if v, err := f.Float(1, "price"); err != nil || v != 2 {
		t.Fatalf("expected 2, got %v, %v", v, err)
	}

	var notFound *frame.ColumnNotFoundError
	if _, err := f.Float(1, "symbol"); !errors.As(err, &notFound) {
		t.Fatalf("expected a lookup error for a missing cell, got %v", err)
	} else if notFound.Column != "symbol" || notFound.Row != 1 {
		t.Fatalf("expected the error to name column symbol row 1, got column %q row %d", notFound.Column, notFound.Row)
	}

	var typeErr *frame.CellTypeError
	if _, err := f.Float(0, "symbol"); !errors.As(err, &typeErr) {
		t.Fatalf("expected a type error for a string cell, got %v", err)
	}
}

func TestColumn(t *testing.T) {
	f, err := frame.FromRows([]frame.Row{
		{"price": 1.5, "symbol": "BTC"},
		{"price": 2.5, "symbol": "ETH"},
	})
	if err != nil {
		t.Fatalf("error building frame: %v", err)
	}

	vals, err := f.Column("price")
	if err != nil {
		t.Fatalf("error reading column: %v", err)
	}
	if len(vals) != 2 || vals[0] != 1.5 || vals[1] != 2.5 {
		t.Fatalf("expected [1.5 2.5], got %v", vals)
	}

	if _, err := f.Column("symbol"); err == nil {
		t.Fatal("expected an error for a string column")
	}
	if _, err := f.Column("volume"); err == nil {
		t.Fatal("expected an error for an unknown column")
	}
}

func TestHead(t *testing.T) {
	f, err := frame.FromRows([]frame.Row{
		{"a": 1.0}, {"a": 2.0}, {"a": 3.0},
	})
	if err != nil {
		t.Fatalf("error building frame: %v", err)
	}

	if got := f.Head(2).Len(); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
	if got := f.Head(10).Len(); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
	if f.Head(1).Schema() != f.Schema() {
		t.Fatal("expected head to share the schema")
	}
}

func TestWithColumn(t *testing.T) {
	f, err := frame.FromRows([]frame.Row{
		{"high": 10.0, "low": 6.0},
		{"high": 8.0, "low": 4.0},
	})
	if err != nil {
		t.Fatalf("error building frame: %v", err)
	}

	spread := func(row frame.Row) (float64, error) {
		return row["high"].(float64) - row["low"].(float64), nil
	}
	if err := f.WithColumn("spread", spread); err != nil {
		t.Fatalf("error deriving column: %v", err)
	}

	vals, err := f.Column("spread")
	if err != nil {
		t.Fatalf("error reading derived column: %v", err)
	}
	if vals[0] != 4 || vals[1] != 4 {
		t.Fatalf("expected [4 4], got %v", vals)
	}
	if field, ok := f.Schema().Field("spread"); !ok || field.Kind != frame.Float {
		t.Fatal("expected the derived column in the schema as a float")
	}

	if err := f.WithColumn("spread", spread); err == nil {
		t.Fatal("expected an error for a duplicate column")
	}

	if err := f.WithColumn("bad", func(row frame.Row) (float64, error) {
		return 0, errors.New("boom")
	}); err == nil {
		t.Fatal("expected the derivation error to propagate")
	}
	if _, ok := f.Schema().Field("bad"); ok {
		t.Fatal("expected a failed derivation to leave the schema unchanged")
	}
}

func TestWithColumnNilRow(t *testing.T) {
	schema, err := frame.NewSchema(frame.Field{Name: "price", Kind: frame.Float})
	if err != nil {
		t.Fatalf("error building schema: %v", err)
	}
	f := frame.New(schema)
	if err := f.Append(nil); err != nil {
		t.Fatalf("error appending a nil row: %v", err)
	}

	if err := f.WithColumn("flag", func(frame.Row) (float64, error) {
		return 1, nil
	}); err != nil {
		t.Fatalf("error deriving over a nil row: %v", err)
	}
	if v, err := f.Float(0, "flag"); err != nil || v != 1 {
		t.Fatalf("expected the derived cell on the empty row, got %v, %v", v, err)
	}
}

func TestRollingMean(t *testing.T) {
	out := frame.RollingMean([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	if len(out) != len(want) {
		t.Fatalf("expected %v, got %v", want, out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, out)
		}
	}

	for _, window := range []int{0, -2} {
		out := frame.RollingMean([]float64{2, 4, 6}, window)
		for i, v := range []float64{2, 4, 6} {
			if out[i] != v {
				t.Fatalf("window %d: expected the values unchanged, got %v", window, out)
			}
		}
	}
}

func TestDescribe(t *testing.T) {
	f, err := frame.FromRows([]frame.Row{
		{"price": 1.0, "symbol": "BTC"},
		{"price": 3.0, "symbol": "ETH"},
	})
	if err != nil {
		t.Fatalf("error building frame: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Describe(&buf); err != nil {
		t.Fatalf("error describing frame: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"price", "symbol", "MEAN"} {
		if !strings.Contains(out, want) {
			t.Fatalf("describe output missing %q:\n%s", want, out)
		}
	}
}
