package client

import (
	"context"
	"net/http"

	"vidctl/internal/ident"
	"vidctl/internal/model"
)

// CreateStream registers a stream and returns it as stored by the API.
func (c *Client) CreateStream(ctx context.Context, s model.Stream) (model.Stream, error) {
	path, err := c.appPath("/streams")
	if err != nil {
		return model.Stream{}, err
	}
	var out model.Stream
	if err := c.send(ctx, http.MethodPost, path, s, &out); err != nil {
		return model.Stream{}, err
	}
	return out, nil
}

// GetStream fetches one stream.
func (c *Client) GetStream(ctx context.Context, id ident.ID) (model.Stream, error) {
	path, err := c.appPath("/streams/%s", id)
	if err != nil {
		return model.Stream{}, err
	}
	var out model.Stream
	if err := c.get(ctx, path, "", &out); err != nil {
		return model.Stream{}, err
	}
	return out, nil
}
