// Package config reads runtime settings from FRAMES_* environment variables.
// Every setting has a default, so a bare environment still runs.
package config

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Config struct {
	Table    string
	CSVPath  string
	APIURL   string
	MongoURL string

	CachePath     string
	Columns       []string
	PageLimit     int
	FetchInterval time.Duration
	BatchSize     int
	Seed          int64
	Scale         string
	Timeout       time.Duration

	Sort    string
	Save    string
	Label   string
	Classes int
}

func NewConfigFromDefaults() Config {
	return Config{
		Table:    Table(),
		CSVPath:  CSVPath(),
		APIURL:   APIURL(),
		MongoURL: MongoURL(),

		CachePath:     CachePath(),
		Columns:       Columns(),
		PageLimit:     PageLimit(),
		FetchInterval: FetchInterval(),
		BatchSize:     BatchSize(),
		Seed:          Seed(),
		Scale:         Scale(),
		Timeout:       Timeout(),

		Sort:    Sort(),
		Save:    Save(),
		Label:   Label(),
		Classes: Classes(),
	}
}

func (c *Config) Write(w io.Writer, title string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendRows([]table.Row{
		{"FRAMES_TABLE", c.Table},
		{"FRAMES_CSV", c.CSVPath},
		{"FRAMES_API_URL", c.APIURL},
		{"MONGO_URL", c.MongoURL},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"FRAMES_CACHE", c.CachePath},
		{"FRAMES_COLUMNS", strings.Join(c.Columns, ",")},
		{"FRAMES_PAGE_LIMIT", fmt.Sprintf("%d", c.PageLimit)},
		{"FRAMES_FETCH_INTERVAL", fmt.Sprintf("%d", c.FetchInterval.Milliseconds())},
		{"FRAMES_BATCH_SIZE", fmt.Sprintf("%d", c.BatchSize)},
		{"FRAMES_SEED", fmt.Sprintf("%d", c.Seed)},
		{"FRAMES_SCALE", c.Scale},
		{"FRAMES_TIMEOUT", fmt.Sprintf("%0.0f", c.Timeout.Seconds())},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"FRAMES_SORT", c.Sort},
		{"FRAMES_SAVE", c.Save},
		{"FRAMES_LABEL", c.Label},
		{"FRAMES_CLASSES", fmt.Sprintf("%d", c.Classes)},
	})
	t.Render()
}

func envInt(name string, def func() int, dec func(v int) int) func() int {
	return func() int {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseInt(v, 10, 32); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = int(v)
			}
		}
		return dec(value)
	}
}

func envInt64(name string, def func() int64) func() int64 {
	return func() int64 {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseInt(v, 10, 64); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = v
			}
		}
		return value
	}
}

func envString(name string, def func() string) func() string {
	return func() string {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			value = v
		}
		return value
	}
}

func envStrings(name string, def func() []string) func() []string {
	return func() []string {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			parts := strings.Split(v, ",")
			value = make([]string, 0, len(parts))
			for _, part := range parts {
				if part = strings.TrimSpace(part); part != "" {
					value = append(value, part)
				}
			}
		}
		return value
	}
}

func envDuration(name string, def func() time.Duration) func() time.Duration {
	return func() time.Duration {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseInt(v, 10, 32); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = time.Duration(v) * time.Second
			}
		}
		return value
	}
}

func envMillis(name string, def func() time.Duration) func() time.Duration {
	return func() time.Duration {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseInt(v, 10, 32); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = time.Duration(v) * time.Millisecond
			}
		}
		return value
	}
}

func BoundPageLimit(v int) int {
	return int(math.Max(1, math.Min(1000, float64(v)))) // Default: 100
}

func BoundBatchSize(v int) int {
	return int(math.Max(1, math.Min(8192, float64(v)))) // Default: 32
}

func BoundClasses(v int) int {
	return int(math.Max(0, math.Min(4096, float64(v)))) // Default: 0, infer from labels
}

var (
	Table = envString("FRAMES_TABLE", func() string { return "quotes" })

	// CSVPath and APIURL select the table source: a non-empty CSVPath reads a
	// local file, a non-empty APIURL pages the table over HTTP, and with
	// neither set the table is read from mongo.
	CSVPath = envString("FRAMES_CSV", func() string { return "" })
	APIURL  = envString("FRAMES_API_URL", func() string { return "" })

	MongoURL = envString("MONGO_URL", func() string { return "mongodb://localhost:27017/frames" })
)

var (
	CachePath = envString("FRAMES_CACHE", func() string {
		return fmt.Sprintf("%s/frames-cache.db", os.TempDir())
	})
	Columns = envStrings("FRAMES_COLUMNS", func() []string { return nil })

	PageLimit = envInt("FRAMES_PAGE_LIMIT", func() int {
		return 100
	}, BoundPageLimit)
	FetchInterval = envMillis("FRAMES_FETCH_INTERVAL", func() time.Duration {
		return 200 * time.Millisecond
	})
	BatchSize = envInt("FRAMES_BATCH_SIZE", func() int {
		return 32
	}, BoundBatchSize)

	Seed  = envInt64("FRAMES_SEED", func() int64 { return 42 })
	Scale = envString("FRAMES_SCALE", func() string { return "none" })

	Timeout = envDuration("FRAMES_TIMEOUT", func() time.Duration { return 0 })
)

var (
	// Sort picks the column that fixes row order for the mongo source. Save
	// names a mongo collection to persist the collected table into. Label
	// selects a column to one-hot encode; Classes caps the encoding width,
	// with 0 inferring it from the labels.
	Sort  = envString("FRAMES_SORT", func() string { return "" })
	Save  = envString("FRAMES_SAVE", func() string { return "" })
	Label = envString("FRAMES_LABEL", func() string { return "" })

	Classes = envInt("FRAMES_CLASSES", func() int {
		return 0
	}, BoundClasses)
)
