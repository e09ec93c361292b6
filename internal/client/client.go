// Package client consumes a remote quantofoi-compatible purchase API
// (GET/POST /produtos, PATCH /produtos/{sku}/descricao).
//
// Reads degrade to an injected fallback dataset when the backend is
// unreachable: availability over consistency for a personal tool. The
// degradation is never silent; it is logged and exposed via Degraded()
// so /readyz can report it. Writes never fall back; a rejected write is
// an error the caller must surface without touching local state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"quantofoi/internal/core"
)

type Client struct {
	base     string
	cli      *http.Client
	fallback []core.Purchase
	degraded atomic.Bool
}

// New creates a client for the API at base. The fallback dataset is what
// List returns when the backend cannot be reached; pass nil to make reads
// fail hard instead.
func New(base string, fallback []core.Purchase) *Client {
	return &Client{
		base:     strings.TrimRight(base, "/"),
		cli:      &http.Client{Timeout: 8 * time.Second},
		fallback: fallback,
	}
}

// Degraded reports whether the last List served fallback data.
func (c *Client) Degraded() bool {
	return c.degraded.Load()
}

type purchaseWire struct {
	ID        string  `json:"id"`
	Descricao string  `json:"descricao"`
	SKU       string  `json:"sku"`
	Preco     float64 `json:"preco"`
	Data      string  `json:"data"`
	Local     string  `json:"local"`
}

type listResponse struct {
	Produtos []purchaseWire `json:"produtos"`
}

// List fetches all purchases. Transport failures and non-2xx responses
// degrade to the fallback dataset; a well-transported but malformed
// payload (unparseable date) is a real error, not a fallback case.
func (c *Client) List(ctx context.Context) ([]core.Purchase, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/produtos", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.cli.Do(req)
	if err != nil {
		return c.fallbackList(ctx, fmt.Errorf("fetch purchases: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.fallbackList(ctx, fmt.Errorf("fetch purchases: http %d", resp.StatusCode))
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return c.fallbackList(ctx, fmt.Errorf("decode purchases: %w", err))
	}

	out := make([]core.Purchase, len(body.Produtos))
	for i, w := range body.Produtos {
		p, err := wireToPurchase(w)
		if err != nil {
			return nil, fmt.Errorf("purchase %s: %w", w.ID, err)
		}
		out[i] = p
	}
	c.degraded.Store(false)
	return out, nil
}

func (c *Client) fallbackList(ctx context.Context, cause error) ([]core.Purchase, error) {
	if c.fallback == nil {
		return nil, cause
	}
	slog.WarnContext(ctx, "Purchase backend unreachable, serving fallback dataset",
		"error", cause,
		"fallback_count", len(c.fallback))
	c.degraded.Store(true)
	out := make([]core.Purchase, len(c.fallback))
	copy(out, c.fallback)
	return out, nil
}

type createRequest struct {
	Data      string  `json:"data"`
	Local     string  `json:"local"`
	Descricao string  `json:"descricao"`
	SKU       string  `json:"sku"`
	Preco     float64 `json:"preco"`
}

// Append submits a new record; the server assigns the id. No fallback:
// failure is returned to the caller, who must not insert optimistically.
func (c *Client) Append(ctx context.Context, in core.PurchaseInput) (core.Purchase, error) {
	if err := in.Validate(); err != nil {
		return core.Purchase{}, err
	}

	payload, err := json.Marshal(createRequest{
		Data:      in.Data.ISO(),
		Local:     in.Local,
		Descricao: in.Descricao,
		SKU:       in.SKU,
		Preco:     in.Preco.Reais(),
	})
	if err != nil {
		return core.Purchase{}, fmt.Errorf("marshal purchase: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/produtos", bytes.NewReader(payload))
	if err != nil {
		return core.Purchase{}, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.cli.Do(req)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("create purchase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return core.Purchase{}, fmt.Errorf("create purchase: http %d", resp.StatusCode)
	}

	var w purchaseWire
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return core.Purchase{}, fmt.Errorf("decode created purchase: %w", err)
	}
	return wireToPurchase(w)
}

// UpdateDescription patches the description for all records sharing the
// SKU. A 404 from the backend maps to (0, nil): unknown SKU, not a
// transport failure.
func (c *Client) UpdateDescription(ctx context.Context, sku, descricao string) (int, error) {
	payload, err := json.Marshal(map[string]string{"descricao": descricao})
	if err != nil {
		return 0, fmt.Errorf("marshal description: %w", err)
	}

	endpoint := c.base + "/produtos/" + url.PathEscape(sku) + "/descricao"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.cli.Do(req)
	if err != nil {
		return 0, fmt.Errorf("update description: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, nil
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("update description: http %d", resp.StatusCode)
	}

	var body struct {
		Atualizados int `json:"atualizados"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode update response: %w", err)
	}
	return body.Atualizados, nil
}

func wireToPurchase(w purchaseWire) (core.Purchase, error) {
	data, err := core.ParseISODate(w.Data)
	if err != nil {
		return core.Purchase{}, err
	}
	local := w.Local
	if strings.TrimSpace(local) == "" {
		local = core.DefaultLocal
	}
	return core.Purchase{
		ID:        w.ID,
		Descricao: w.Descricao,
		SKU:       w.SKU,
		Preco:     core.MoneyFromReais(w.Preco),
		Data:      data,
		Local:     local,
	}, nil
}
