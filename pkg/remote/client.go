// Package remote pulls tables from the frames table service over HTTP. Rows
// travel as pages of string records and parse into typed cells by column kind;
// a local leveldb cache keeps refetches cheap.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/grexie/frames/pkg/frame"
	"github.com/pkg/errors"
)

// TableInfo is the service's description of one table.
type TableInfo struct {
	Name    string        `json:"name"`
	Rows    int           `json:"rows"`
	Columns []frame.Field `json:"columns"`
}

type Client struct {
	base     string
	client   *resty.Client
	limit    int
	interval time.Duration
}

// NewClient builds a client for one service base URL. limit caps the rows
// requested per page; interval is the minimum spacing between page requests.
func NewClient(base string, limit int, interval time.Duration) *Client {
	return &Client{
		base:     strings.TrimSuffix(base, "/"),
		client:   resty.New(),
		limit:    limit,
		interval: interval,
	}
}

// Table fetches table metadata.
func (c *Client) Table(ctx context.Context, name string) (*TableInfo, error) {
	resp, err := c.client.R().SetContext(ctx).Get(fmt.Sprintf("%s/api/v1/tables/%s", c.base, name))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errors.Errorf("error response: %v", resp.Status())
	}

	var data struct {
		Code string    `json:"code"`
		Msg  string    `json:"msg"`
		Data TableInfo `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return nil, errors.Wrap(err, "failed to parse response body")
	}
	if data.Code != "0" {
		return nil, errors.Errorf("api error: %s", data.Msg)
	}
	return &data.Data, nil
}

// Rows fetches one page of records in row order.
func (c *Client) Rows(ctx context.Context, name string, offset, limit int) ([][]string, error) {
	params := map[string]string{
		"offset": fmt.Sprintf("%d", offset),
		"limit":  fmt.Sprintf("%d", limit),
	}

	resp, err := c.client.R().SetContext(ctx).SetQueryParams(params).Get(fmt.Sprintf("%s/api/v1/tables/%s/rows", c.base, name))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errors.Errorf("error response: %v", resp.Status())
	}

	var data struct {
		Code string     `json:"code"`
		Msg  string     `json:"msg"`
		Data [][]string `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return nil, errors.Wrap(err, "failed to parse response body")
	}
	if data.Code != "0" {
		return nil, errors.Errorf("api error: %s", data.Msg)
	}
	return data.Data, nil
}

// newRowFromRecord parses one wire record into a row. An empty cell is a
// missing cell, not a zero.
func newRowFromRecord(columns []frame.Field, record []string) (frame.Row, error) {
	if len(record) < len(columns) {
		return nil, errors.Errorf("invalid row data: %v", record)
	}

	row := frame.Row{}
	for i, col := range columns {
		cell := record[i]
		if cell == "" {
			continue
		}
		switch col.Kind {
		case frame.Float:
			if v, err := strconv.ParseFloat(cell, 64); err != nil {
				return nil, errors.Wrapf(err, "column %q", col.Name)
			} else {
				row[col.Name] = v
			}
		case frame.Int:
			if v, err := strconv.ParseInt(cell, 10, 64); err != nil {
				return nil, errors.Wrapf(err, "column %q", col.Name)
			} else {
				row[col.Name] = v
			}
		case frame.Bool:
			if v, err := strconv.ParseBool(cell); err != nil {
				return nil, errors.Wrapf(err, "column %q", col.Name)
			} else {
				row[col.Name] = v
			}
		case frame.Time:
			if v, err := time.Parse(time.RFC3339, cell); err != nil {
				return nil, errors.Wrapf(err, "column %q", col.Name)
			} else {
				row[col.Name] = v
			}
		default:
			row[col.Name] = cell
		}
	}
	return row, nil
}
