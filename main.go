package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/grexie/frames/pkg/config"
	"github.com/grexie/frames/pkg/db"
	"github.com/grexie/frames/pkg/frame"
	"github.com/grexie/frames/pkg/remote"
	"github.com/grexie/frames/pkg/tensors"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/syndtr/goleveldb/leveldb"
	"go.mongodb.org/mongo-driver/mongo"
)

func loadEnv(filenames ...string) {
	for _, filename := range filenames {
		if s, err := os.Stat(filename); err == nil && !s.IsDir() {
			godotenv.Load(filename)
		}
	}
}

func main() {
	if _, ok := os.LookupEnv("ENV"); !ok {
		env := "development"
		os.Setenv("ENV", env)
	}
	loadEnv(".env."+os.Getenv("ENV")+".local", ".env."+os.Getenv("ENV"), ".env.local", ".env")

	cfg := config.NewConfigFromDefaults()
	cfg.Write(os.Stdout, "Frames Config")

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	pw := progress.NewWriter()
	pw.SetMessageLength(40)
	pw.SetNumTrackersExpected(2)
	pw.SetSortBy(progress.SortByPercentDsc)
	pw.SetStyle(progress.StyleDefault)
	pw.SetTrackerLength(15)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(time.Millisecond * 100)
	pw.Style().Colors = progress.StyleColorsExample
	pw.Style().Options.PercentFormat = "%2.0f%%"
	go pw.Render()

	var database *mongo.Database
	var src frame.Source

	switch {
	case cfg.CSVPath != "":
		src = frame.FileSource{Path: cfg.CSVPath}
	case cfg.APIURL != "":
		cache, err := leveldb.OpenFile(cfg.CachePath, nil)
		if err != nil {
			log.Fatalf("failed to open cache %s: %v", cfg.CachePath, err)
		}
		defer cache.Close()
		client := remote.NewClient(cfg.APIURL, cfg.PageLimit, cfg.FetchInterval)
		src = remote.Source{Client: client, Table: cfg.Table, DB: cache, Progress: pw}
	default:
		d, err := db.Connect()
		if err != nil {
			log.Fatalf("failed to connect to MongoDB: %v", err)
		}
		database = d
		src = db.Source{Collection: database.Collection(cfg.Table), SortBy: cfg.Sort, Progress: pw}
	}

	f, err := src.Collect(ctx)
	if err != nil {
		log.Fatalf("failed to collect %s: %v", cfg.Table, err)
	}

	pw.Stop()
	for pw.IsRenderInProgress() {
		time.Sleep(100 * time.Millisecond)
	}

	if err := f.Describe(os.Stdout); err != nil {
		log.Fatalf("failed to describe %s: %v", cfg.Table, err)
	}

	if cfg.Save != "" {
		if database == nil {
			if database, err = db.Connect(); err != nil {
				log.Fatalf("failed to connect to MongoDB: %v", err)
			}
		}
		if err := db.SaveFrame(database, ctx, cfg.Save, f); err != nil {
			log.Fatalf("failed to save %s: %v", cfg.Save, err)
		}
		log.Printf("saved %d rows to %s", f.Len(), cfg.Save)
	}

	columns := cfg.Columns
	if columns == nil {
		for _, field := range f.Schema().Fields() {
			if field.Kind.Numeric() {
				columns = append(columns, field.Name)
			}
		}
	}

	x, err := tensors.FromFrame(f, columns)
	if err != nil {
		log.Fatalf("failed to convert %s: %v", cfg.Table, err)
	}
	if x == nil {
		log.Println("no columns selected, nothing to convert")
		return
	}

	switch cfg.Scale {
	case "minmax":
		if err := tensors.ScaleMinMax(x); err != nil {
			log.Fatalf("failed to scale: %v", err)
		}
	case "standard":
		if err := tensors.ScaleStandard(x); err != nil {
			log.Fatalf("failed to scale: %v", err)
		}
	case "none":
	default:
		log.Fatalf("unknown scale %q, expected none, minmax or standard", cfg.Scale)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Tensor")
	t.AppendRows([]table.Row{
		{"Shape", fmt.Sprintf("%v", x.Shape())},
		{"Columns", strings.Join(columns, ",")},
	})

	if cfg.Label != "" {
		values, err := f.Column(cfg.Label)
		if err != nil {
			log.Fatalf("failed to read labels from %s: %v", cfg.Label, err)
		}
		classes := cfg.Classes
		if classes == 0 {
			for _, v := range values {
				if int(v)+1 > classes {
					classes = int(v) + 1
				}
			}
		}
		y, err := tensors.OneHot(values, classes)
		if err != nil {
			log.Fatalf("failed to encode labels: %v", err)
		}
		if err := tensors.Shuffle(x, y, cfg.Seed); err != nil {
			log.Fatalf("failed to shuffle: %v", err)
		}
		t.AppendRow(table.Row{"Labels", fmt.Sprintf("%v", y.Shape())})
	}

	batches, err := tensors.Batches(x, cfg.BatchSize)
	if err != nil {
		log.Fatalf("failed to batch: %v", err)
	}
	t.AppendRow(table.Row{"Batches", fmt.Sprintf("%d of up to %d rows", len(batches), cfg.BatchSize)})
	t.Render()

	if x.Size() > 0 {
		head := x.Data().([]float32)
		if len(head) > len(columns) {
			head = head[:len(columns)]
		}
		log.Printf("first row: %v", head)
	}
}
