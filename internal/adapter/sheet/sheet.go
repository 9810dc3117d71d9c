// Package sheet implements the catalog store against the remote
// spreadsheet script endpoint. The script speaks a small action
// protocol: reads are GET ?action=read, writes are POST bodies with
// an action discriminator, sent as text/plain because the script
// rejects preflighted content types.
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/smartdeal/storefront/internal/core/domain"
	"github.com/smartdeal/storefront/internal/core/port"
)

var ErrNotFound = errors.New("not found")

var _ port.CatalogStore = (*Client)(nil)

const (
	actionRead   = "read"
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"

	// defaultSettleDelay gives the spreadsheet time to apply a write
	// before the refreshed collection is read back.
	defaultSettleDelay = 1 * time.Second

	writeContentType = "text/plain;charset=utf-8"
)

type Opt func(*Client)

func WithHTTPClient(cl *http.Client) Opt {
	return func(c *Client) { c.httpClient = cl }
}

func WithSettleDelay(d time.Duration) Opt {
	return func(c *Client) { c.settleDelay = d }
}

// A Client is the sheet-backed catalog store.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	settleDelay time.Duration
}

func NewClient(baseURL string, opts ...Opt) *Client {
	c := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		settleDelay: defaultSettleDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll reads the whole collection, newest first.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Product, error) {
	const op = "sheet.Client.FetchAll"

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"?action="+actionRead, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var rows []sheetProduct
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		ps = append(ps, row.toDomain())
	}
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Timestamp > ps[j].Timestamp
	})
	return ps, nil
}

// Upsert writes one product. The script has separate create and
// update actions, so the current collection decides which one to use.
func (c *Client) Upsert(
	ctx context.Context, p domain.Product,
) ([]domain.Product, error) {
	const op = "sheet.Client.Upsert"

	current, err := c.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	action := actionCreate
	for _, cur := range current {
		if cur.ID == p.ID {
			action = actionUpdate
			break
		}
	}

	body := writeRequest{Action: action, Product: toSheet(p)}
	if err := c.post(ctx, body); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := c.settle(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := c.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// Remove deletes one product by id.
func (c *Client) Remove(
	ctx context.Context, id string,
) ([]domain.Product, error) {
	const op = "sheet.Client.Remove"

	body := writeRequest{Action: actionDelete, ID: id}
	if err := c.post(ctx, body); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := c.settle(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := c.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// ApplyInteraction rewrites one row with absolute counters. The
// script updates whole rows only, so the current row is read first.
func (c *Client) ApplyInteraction(
	ctx context.Context, id string, counters domain.Counters,
) error {
	const op = "sheet.Client.ApplyInteraction"

	current, err := c.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var (
		target domain.Product
		found  bool
	)
	for _, p := range current {
		if p.ID == id {
			target = p
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	target.Likes = counters.Likes
	target.Dislikes = counters.Dislikes

	body := writeRequest{Action: actionUpdate, Product: toSheet(target)}
	if err := c.post(ctx, body); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, body writeRequest) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL, bytes.NewReader(b),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writeContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) settle(ctx context.Context) error {
	if c.settleDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.settleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
