package client

import (
	"context"
	"net/http"
	"strings"

	"vidctl/internal/apierr"
	"vidctl/internal/ident"
	"vidctl/internal/model"
)

// CreateCamera registers a camera under the request's application.
func (c *Client) CreateCamera(ctx context.Context, req model.CameraRequest) (model.Camera, error) {
	var out model.Camera
	if err := c.send(ctx, http.MethodPost, scopedPath(req.ApplicationID(), "/cameras"), req, &out); err != nil {
		return model.Camera{}, err
	}
	return out, nil
}

// GetCamera fetches one camera.
func (c *Client) GetCamera(ctx context.Context, id ident.ID) (model.Camera, error) {
	path, err := c.appPath("/cameras/%s", id)
	if err != nil {
		return model.Camera{}, err
	}
	var out model.Camera
	if err := c.get(ctx, path, "", &out); err != nil {
		return model.Camera{}, err
	}
	return out, nil
}

// ListCameras lists the application's cameras.
func (c *Client) ListCameras(ctx context.Context) ([]model.Camera, error) {
	path, err := c.appPath("/cameras")
	if err != nil {
		return nil, err
	}
	var out []model.Camera
	if err := c.get(ctx, path, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCameraStreams lists the streams a camera produces.
func (c *Client) ListCameraStreams(ctx context.Context, id ident.ID) ([]model.Stream, error) {
	path, err := c.appPath("/cameras/%s/streams", id)
	if err != nil {
		return nil, err
	}
	var out []model.Stream
	if err := c.get(ctx, path, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLinkedCameras lists the cameras linked to the client's gateway.
func (c *Client) ListLinkedCameras(ctx context.Context) ([]model.Camera, error) {
	path, err := c.gatewayPath("/linked_cameras")
	if err != nil {
		return nil, err
	}
	var out []model.Camera
	if err := c.get(ctx, path, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCamera applies upd and returns the updated camera.
func (c *Client) UpdateCamera(ctx context.Context, id ident.ID, upd model.CameraUpdate) (model.Camera, error) {
	path, err := c.appPath("/cameras/%s", id)
	if err != nil {
		return model.Camera{}, err
	}
	var out model.Camera
	if err := c.send(ctx, http.MethodPut, path, upd, &out); err != nil {
		return model.Camera{}, err
	}
	return out, nil
}

// SetCameraStatuses reports the cameras the client's gateway discovered.
func (c *Client) SetCameraStatuses(ctx context.Context, cameras []model.CameraUpdate) error {
	path, err := c.gatewayPath("/cameras_statuses")
	if err != nil {
		return err
	}
	if cameras == nil {
		cameras = []model.CameraUpdate{}
	}
	return c.send(ctx, http.MethodPut, path, cameras, nil)
}

// SetCameraStatus sets one camera's status. The body is the plain status
// text.
func (c *Client) SetCameraStatus(ctx context.Context, id ident.ID, status string) error {
	path, err := c.appPath("/cameras/%s/status", id)
	if err != nil {
		return err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return c.fail(&RequestError{Details: Details{Method: http.MethodPut, Path: path}, Err: apierr.Invalid("status", "must not be blank")})
	}
	return c.putText(ctx, path, status)
}
