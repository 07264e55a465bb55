package db_test

import (
	"context"
	"os"
	"testing"

	"github.com/grexie/frames/pkg/db"
	"github.com/grexie/frames/pkg/frame"
)

func TestSaveAndCollect(t *testing.T) {
	if os.Getenv("MONGO_URL") == "" {
		t.Skip("MONGO_URL not set")
	}

	database, err := db.Connect()
	if err != nil {
		t.Fatalf("error connecting: %v", err)
	}
	ctx := context.Background()
	collection := database.Collection("frames_test")
	defer collection.Drop(ctx)

	f, err := frame.FromRows([]frame.Row{
		{"price": 3.5, "symbol": "BTC"},
		{"price": 1.5, "symbol": "ETH"},
		{"price": 2.5, "symbol": "SOL"},
	})
	if err != nil {
		t.Fatalf("error building frame: %v", err)
	}
	if err := db.SaveFrame(database, ctx, "frames_test", f); err != nil {
		t.Fatalf("error saving frame: %v", err)
	}

	got, err := db.Source{Collection: collection}.Collect(ctx)
	if err != nil {
		t.Fatalf("error collecting: %v", err)
	}
	if got.Len() != f.Len() {
		t.Fatalf("expected %d rows, got %d", f.Len(), got.Len())
	}
	for i := 0; i < f.Len(); i++ {
		if got.Row(i)["symbol"] != f.Row(i)["symbol"] {
			t.Fatalf("row %d out of order: expected %v, got %v", i, f.Row(i)["symbol"], got.Row(i)["symbol"])
		}
		if _, ok := got.Row(i)["_id"]; ok {
			t.Fatalf("row %d: expected the _id cell dropped, got %v", i, got.Row(i)["_id"])
		}
	}

	sorted, err := db.Source{Collection: collection, SortBy: "price"}.Collect(ctx)
	if err != nil {
		t.Fatalf("error collecting sorted: %v", err)
	}
	prices, err := sorted.Column("price")
	if err != nil {
		t.Fatalf("error reading prices: %v", err)
	}
	for i := 1; i < len(prices); i++ {
		if prices[i-1] > prices[i] {
			t.Fatalf("expected prices ascending, got %v", prices)
		}
	}

	if err := db.SaveFrame(database, ctx, "frames_test", f.Head(2)); err != nil {
		t.Fatalf("error saving replacement frame: %v", err)
	}
	got, err = db.Source{Collection: collection}.Collect(ctx)
	if err != nil {
		t.Fatalf("error collecting replacement: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected the save to replace the table, got %d rows", got.Len())
	}
}
