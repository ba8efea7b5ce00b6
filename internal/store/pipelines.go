package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"vidctl/internal/ident"
	"vidctl/internal/logging"
	"vidctl/internal/model"
)

const pipelineColumns = "id, application_id, name, definition_json, metadata_json, created_at, updated_at"

// PutPipeline inserts or replaces a pipeline.
func (s *Store) PutPipeline(ctx context.Context, p model.Pipeline) error {
	if p.ID().IsZero() {
		return fmt.Errorf("put pipeline: %w", ErrMissingID)
	}
	definition, err := json.Marshal(p.Definition())
	if err != nil {
		return fmt.Errorf("put pipeline: encode definition: %w", err)
	}
	metadata, err := jsonColumn(p.Metadata())
	if err != nil {
		return fmt.Errorf("put pipeline: encode metadata: %w", err)
	}
	_, err = s.exec(ctx,
		`INSERT INTO pipelines (`+pipelineColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             application_id = excluded.application_id, name = excluded.name,
             definition_json = excluded.definition_json, metadata_json = excluded.metadata_json,
             created_at = excluded.created_at, updated_at = excluded.updated_at`,
		p.ID().String(),
		optionalID(p.ApplicationID()),
		p.Name(),
		string(definition),
		metadata,
		nullableTime(p.CreatedAt()),
		nullableTime(p.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("put pipeline %s: %w", p.ID(), err)
	}
	s.logger.Debug("stored pipeline", logging.Entity("pipeline", p.ID())...)
	return nil
}

// GetPipeline loads a pipeline by id.
func (s *Store) GetPipeline(ctx context.Context, id ident.ID) (model.Pipeline, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pipelineColumns+` FROM pipelines WHERE id = ?`, id.String())
	p, err := scanPipeline(row)
	if err != nil {
		return model.Pipeline{}, notFound("pipeline", id, err)
	}
	return p, nil
}

func scanPipeline(row scanner) (model.Pipeline, error) {
	var (
		spec       model.PipelineSpec
		app        sql.NullString
		definition string
		metadata   sql.NullString
		times      rowTimes
		err        error
	)
	if err = row.Scan(&spec.ID, &app, &spec.Name, &definition, &metadata, &times.created, &times.updated); err != nil {
		return model.Pipeline{}, err
	}
	if spec.ApplicationID, err = parseID(app); err != nil {
		return model.Pipeline{}, fmt.Errorf("application_id: %w", err)
	}
	if err = json.Unmarshal([]byte(definition), &spec.Definition); err != nil {
		return model.Pipeline{}, fmt.Errorf("decode definition: %w", err)
	}
	if spec.Metadata, err = parseMetadata(metadata); err != nil {
		return model.Pipeline{}, err
	}
	if spec.CreatedAt, spec.UpdatedAt, err = times.parse(); err != nil {
		return model.Pipeline{}, err
	}
	return model.NewPipeline(spec)
}
