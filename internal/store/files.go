package store

import (
	"context"
	"database/sql"
	"fmt"

	"vidctl/internal/ident"
	"vidctl/internal/model"
)

const fileColumns = "id, application_id, name, size, duration, cloud_status, gateway_id, local_path, pipeline_id, node_id, deployment_id, camera_id, stream_id, data_url, metadata_url, created_at"

// PutFile inserts or replaces a file record.
func (s *Store) PutFile(ctx context.Context, f model.File) error {
	if f.ID().IsZero() {
		return fmt.Errorf("put file: %w", ErrMissingID)
	}
	spec := f.Spec()
	cloudStatus, err := token("cloud_status", spec.CloudStatus)
	if err != nil {
		return fmt.Errorf("put file %s: %w", spec.ID, err)
	}
	var duration any
	if spec.Duration != nil {
		duration = *spec.Duration
	}
	_, err = s.exec(ctx,
		`INSERT INTO files (`+fileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             application_id = excluded.application_id, name = excluded.name, size = excluded.size,
             duration = excluded.duration, cloud_status = excluded.cloud_status,
             gateway_id = excluded.gateway_id, local_path = excluded.local_path,
             pipeline_id = excluded.pipeline_id, node_id = excluded.node_id,
             deployment_id = excluded.deployment_id, camera_id = excluded.camera_id,
             stream_id = excluded.stream_id, data_url = excluded.data_url,
             metadata_url = excluded.metadata_url, created_at = excluded.created_at`,
		spec.ID.String(),
		optionalID(spec.ApplicationID),
		spec.Name,
		spec.Size,
		duration,
		cloudStatus,
		nullableID(spec.GatewayID),
		nullableString(spec.LocalPath),
		nullableID(spec.PipelineID),
		nullableString(spec.NodeID),
		nullableID(spec.DeploymentID),
		nullableID(spec.CameraID),
		nullableID(spec.StreamID),
		nullableString(spec.DataURL),
		nullableString(spec.MetadataURL),
		nullableTime(spec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put file %s: %w", spec.ID, err)
	}
	return nil
}

// GetFile loads a file record by id.
func (s *Store) GetFile(ctx context.Context, id ident.ID) (model.File, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id.String())
	f, err := scanFile(row)
	if err != nil {
		return model.File{}, notFound("file", id, err)
	}
	return f, nil
}

func scanFile(row scanner) (model.File, error) {
	var (
		spec                       model.FileSpec
		app, gateway, localPath    sql.NullString
		pipeline, node, deployment sql.NullString
		camera, stream             sql.NullString
		dataURL, metadataURL       sql.NullString
		created                    sql.NullString
		duration                   sql.NullInt32
		cloudStatus                string
		err                        error
	)
	if err = row.Scan(&spec.ID, &app, &spec.Name, &spec.Size, &duration, &cloudStatus, &gateway,
		&localPath, &pipeline, &node, &deployment, &camera, &stream, &dataURL, &metadataURL,
		&created); err != nil {
		return model.File{}, err
	}
	if spec.ApplicationID, err = parseID(app); err != nil {
		return model.File{}, fmt.Errorf("application_id: %w", err)
	}
	if spec.CloudStatus, err = model.ParseFileCloudStatusStorage(cloudStatus); err != nil {
		return model.File{}, fmt.Errorf("cloud_status: %w", err)
	}
	if duration.Valid {
		d := duration.Int32
		spec.Duration = &d
	}
	for _, ref := range []struct {
		field string
		raw   sql.NullString
		dst   **ident.ID
	}{
		{"gateway_id", gateway, &spec.GatewayID},
		{"pipeline_id", pipeline, &spec.PipelineID},
		{"deployment_id", deployment, &spec.DeploymentID},
		{"camera_id", camera, &spec.CameraID},
		{"stream_id", stream, &spec.StreamID},
	} {
		if *ref.dst, err = parseIDPtr(ref.raw); err != nil {
			return model.File{}, fmt.Errorf("%s: %w", ref.field, err)
		}
	}
	spec.LocalPath = stringPtr(localPath)
	spec.NodeID = stringPtr(node)
	spec.DataURL = stringPtr(dataURL)
	spec.MetadataURL = stringPtr(metadataURL)
	if spec.CreatedAt, err = parseTime(created); err != nil {
		return model.File{}, fmt.Errorf("created_at: %w", err)
	}
	return model.NewFile(spec)
}
