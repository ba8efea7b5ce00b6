package client

import (
	"context"
	"fmt"
	"net/http"

	"vidctl/internal/ident"
	"vidctl/internal/model"
)

// ListFiles lists the application's files matching params.
func (c *Client) ListFiles(ctx context.Context, params model.FileListParams) ([]model.File, error) {
	path, err := c.appPath("/files")
	if err != nil {
		return nil, err
	}
	values, err := params.Values()
	rawQuery, err := c.encodeQuery(http.MethodGet, path, values, err)
	if err != nil {
		return nil, err
	}
	var out []model.File
	if err := c.get(ctx, path, rawQuery, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFile records a new file and returns it as stored by the API.
func (c *Client) CreateFile(ctx context.Context, req model.FileRequest) (model.File, error) {
	path, err := c.appPath("/files")
	if err != nil {
		return model.File{}, err
	}
	var out model.File
	if err := c.send(ctx, http.MethodPost, path, req, &out); err != nil {
		return model.File{}, err
	}
	return out, nil
}

// UpdateFile replaces the writable fields of a file.
func (c *Client) UpdateFile(ctx context.Context, id ident.ID, req model.FileRequest) (model.File, error) {
	path, err := c.appPath("/files/%s", id)
	if err != nil {
		return model.File{}, err
	}
	var out model.File
	if err := c.send(ctx, http.MethodPut, path, req, &out); err != nil {
		return model.File{}, err
	}
	return out, nil
}

// GetFile fetches one file record.
func (c *Client) GetFile(ctx context.Context, id ident.ID) (model.File, error) {
	path, err := c.appPath("/files/%s", id)
	if err != nil {
		return model.File{}, err
	}
	var out model.File
	if err := c.get(ctx, path, "", &out); err != nil {
		return model.File{}, err
	}
	return out, nil
}

// DeleteFile removes one file record.
func (c *Client) DeleteFile(ctx context.Context, id ident.ID) error {
	path, err := c.appPath("/files/%s", id)
	if err != nil {
		return err
	}
	return c.delete(ctx, path, "")
}

// DeleteFiles removes every file matching params.
func (c *Client) DeleteFiles(ctx context.Context, params model.FileListParams) error {
	path, err := c.appPath("/files")
	if err != nil {
		return err
	}
	values, err := params.Values()
	rawQuery, err := c.encodeQuery(http.MethodDelete, path, values, err)
	if err != nil {
		return err
	}
	return c.delete(ctx, path, rawQuery)
}

// SetFileCloudStatus reports upload progress. The body is the status's
// plain wire string.
func (c *Client) SetFileCloudStatus(ctx context.Context, id ident.ID, status model.FileCloudStatus) error {
	path, err := c.appPath("/files/%s/cloud_status", id)
	if err != nil {
		return err
	}
	text, err := status.MarshalText()
	if err != nil {
		return c.fail(&RequestError{Details: Details{Method: http.MethodPut, Path: path}, Err: fmt.Errorf("encode cloud status: %w", err)})
	}
	return c.putText(ctx, path, string(text))
}
