package store

import (
	"context"
	"database/sql"
	"fmt"

	"vidctl/internal/ident"
	"vidctl/internal/model"
	"vidctl/internal/rational"
)

const streamColumns = "id, application_id, name, source, stream_type, status, gateway_id, uri, camera_id, deployment_id, node, configuration, snapshot_file_id, framerate, metadata_json, created_at, updated_at"

// PutStream inserts or replaces a stream. A stream produced by a deployment
// requires that deployment to be stored.
func (s *Store) PutStream(ctx context.Context, st model.Stream) error {
	if st.ID().IsZero() {
		return fmt.Errorf("put stream: %w", ErrMissingID)
	}
	spec := st.Spec()
	source, err := token("source", spec.Source)
	if err != nil {
		return fmt.Errorf("put stream %s: %w", spec.ID, err)
	}
	streamType, err := token("stream_type", spec.StreamType)
	if err != nil {
		return fmt.Errorf("put stream %s: %w", spec.ID, err)
	}
	var status any
	if spec.Status != 0 {
		if status, err = token("status", spec.Status); err != nil {
			return fmt.Errorf("put stream %s: %w", spec.ID, err)
		}
	}
	metadata, err := jsonColumn(spec.Metadata)
	if err != nil {
		return fmt.Errorf("put stream %s: encode metadata: %w", spec.ID, err)
	}
	_, err = s.exec(ctx,
		`INSERT INTO streams (`+streamColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             application_id = excluded.application_id, name = excluded.name, source = excluded.source,
             stream_type = excluded.stream_type, status = excluded.status, gateway_id = excluded.gateway_id,
             uri = excluded.uri, camera_id = excluded.camera_id, deployment_id = excluded.deployment_id,
             node = excluded.node, configuration = excluded.configuration,
             snapshot_file_id = excluded.snapshot_file_id, framerate = excluded.framerate,
             metadata_json = excluded.metadata_json, created_at = excluded.created_at,
             updated_at = excluded.updated_at`,
		spec.ID.String(),
		optionalID(spec.ApplicationID),
		spec.Name,
		source,
		streamType,
		status,
		nullableID(spec.GatewayID),
		nullableString(spec.URI),
		nullableID(spec.CameraID),
		nullableID(spec.DeploymentID),
		nullableString(spec.Node),
		nullableString(spec.Configuration),
		nullableID(spec.SnapshotFileID),
		nullableRational(spec.Framerate),
		metadata,
		nullableTime(spec.CreatedAt),
		nullableTime(spec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put stream %s: %w", spec.ID, err)
	}
	return nil
}

// GetStream loads a stream by id.
func (s *Store) GetStream(ctx context.Context, id ident.ID) (model.Stream, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+streamColumns+` FROM streams WHERE id = ?`, id.String())
	st, err := scanStream(row)
	if err != nil {
		return model.Stream{}, notFound("stream", id, err)
	}
	return st, nil
}

func scanStream(row scanner) (model.Stream, error) {
	var (
		spec                      model.StreamSpec
		app, status, gateway, uri sql.NullString
		camera, deployment, node  sql.NullString
		configuration, snapshot   sql.NullString
		framerate, metadata       sql.NullString
		source, streamType        string
		times                     rowTimes
		err                       error
	)
	if err = row.Scan(&spec.ID, &app, &spec.Name, &source, &streamType, &status, &gateway, &uri,
		&camera, &deployment, &node, &configuration, &snapshot, &framerate, &metadata,
		&times.created, &times.updated); err != nil {
		return model.Stream{}, err
	}
	if spec.ApplicationID, err = parseID(app); err != nil {
		return model.Stream{}, fmt.Errorf("application_id: %w", err)
	}
	if spec.Source, err = model.ParseStreamSourceStorage(source); err != nil {
		return model.Stream{}, fmt.Errorf("source: %w", err)
	}
	if spec.StreamType, err = model.ParseStreamTypeStorage(streamType); err != nil {
		return model.Stream{}, fmt.Errorf("stream_type: %w", err)
	}
	if status.Valid {
		if spec.Status, err = model.ParseStreamStatusStorage(status.String); err != nil {
			return model.Stream{}, fmt.Errorf("status: %w", err)
		}
	}
	for _, ref := range []struct {
		field string
		raw   sql.NullString
		dst   **ident.ID
	}{
		{"gateway_id", gateway, &spec.GatewayID},
		{"camera_id", camera, &spec.CameraID},
		{"deployment_id", deployment, &spec.DeploymentID},
		{"snapshot_file_id", snapshot, &spec.SnapshotFileID},
	} {
		if *ref.dst, err = parseIDPtr(ref.raw); err != nil {
			return model.Stream{}, fmt.Errorf("%s: %w", ref.field, err)
		}
	}
	spec.URI = stringPtr(uri)
	spec.Node = stringPtr(node)
	spec.Configuration = stringPtr(configuration)
	if framerate.Valid {
		rate, err := rational.Parse(framerate.String)
		if err != nil {
			return model.Stream{}, fmt.Errorf("framerate: %w", err)
		}
		spec.Framerate = &rate
	}
	if spec.Metadata, err = parseMetadata(metadata); err != nil {
		return model.Stream{}, err
	}
	if spec.CreatedAt, spec.UpdatedAt, err = times.parse(); err != nil {
		return model.Stream{}, err
	}
	return model.NewStream(spec)
}
