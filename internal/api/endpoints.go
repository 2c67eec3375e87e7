package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/idilsaglam/storelocator/internal/model"
)

// Stores lists stores. With no parameters the service returns every store;
// store=<q> matches names, item=<q> matches stores stocking an item.
func (c *Client) Stores(ctx context.Context, q url.Values) (model.StoreMap, error) {
	var out model.StoreMap
	if err := c.getJSON(ctx, "/stores", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Categories(ctx context.Context) (model.CategoryMap, error) {
	var out model.CategoryMap
	if err := c.getJSON(ctx, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Types(ctx context.Context) (model.TypeMap, error) {
	var out model.TypeMap
	if err := c.getJSON(ctx, "/types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Items lists items; q must carry storeID and may carry item and filters.
func (c *Client) Items(ctx context.Context, q url.Values) (model.ItemMap, error) {
	var out model.ItemMap
	if err := c.getJSON(ctx, "/items", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateItem posts a new inventory item. Only 201 counts as success.
func (c *Client) CreateItem(ctx context.Context, it model.NewItem) error {
	body, err := json.Marshal(it)
	if err != nil {
		return err
	}

	req, err := c.newReq(ctx, http.MethodPost, "/items", nil, body)
	if err != nil {
		return err
	}

	resp, err := c.Doer.Do(req)
	if err != nil {
		return fmt.Errorf("POST /items: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("POST /items: read body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return ParseAPIError(resp.StatusCode, bytes.TrimSpace(b))
	}
	return nil
}
