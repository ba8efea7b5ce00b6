package client

import (
	"context"
	"net/http"

	"vidctl/internal/ident"
)

type snapshotParams struct {
	GatewayID *ident.ID `json:"gateway_id"`
}

type snapshotResponse struct {
	FileID ident.ID `json:"file_id"`
}

// TakeCameraSnapshot asks for a still of the camera and returns the id of
// the file it is stored in.
func (c *Client) TakeCameraSnapshot(ctx context.Context, id ident.ID) (ident.ID, error) {
	return c.takeSnapshot(ctx, "/cameras/%s/snapshot", id)
}

// TakeStreamSnapshot asks for a still of the stream and returns the id of
// the file it is stored in.
func (c *Client) TakeStreamSnapshot(ctx context.Context, id ident.ID) (ident.ID, error) {
	return c.takeSnapshot(ctx, "/streams/%s/snapshot", id)
}

func (c *Client) takeSnapshot(ctx context.Context, format string, id ident.ID) (ident.ID, error) {
	path, err := c.appPath(format, id)
	if err != nil {
		return ident.ID{}, err
	}
	var out snapshotResponse
	if err := c.send(ctx, http.MethodPost, path, snapshotParams{}, &out); err != nil {
		return ident.ID{}, err
	}
	return out.FileID, nil
}

// SetCameraSnapshotFileID points the camera at a stored snapshot.
func (c *Client) SetCameraSnapshotFileID(ctx context.Context, id, fileID ident.ID) error {
	path, err := c.appPath("/cameras/%s/snapshot_file_id", id)
	if err != nil {
		return err
	}
	return c.putText(ctx, path, fileID.String())
}

// SetStreamSnapshotFileID points the stream at a stored snapshot.
func (c *Client) SetStreamSnapshotFileID(ctx context.Context, id, fileID ident.ID) error {
	path, err := c.appPath("/streams/%s/snapshot_file_id", id)
	if err != nil {
		return err
	}
	return c.putText(ctx, path, fileID.String())
}
