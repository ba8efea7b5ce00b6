package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"vidctl/internal/ident"
	"vidctl/internal/logging"
	"vidctl/internal/model"
)

const deploymentColumns = "id, name, pipeline_id, gateway_id, state, definition_json, configuration_json, metadata_json, created_at, updated_at"

// PutDeployment inserts or replaces a deployment. Its pipeline and gateway
// must already be stored.
func (s *Store) PutDeployment(ctx context.Context, d model.Deployment) error {
	if d.ID().IsZero() {
		return fmt.Errorf("put deployment: %w", ErrMissingID)
	}
	spec := d.Spec()
	state, err := token("state", spec.State)
	if err != nil {
		return fmt.Errorf("put deployment %s: %w", spec.ID, err)
	}
	var definition any
	if spec.Definition != nil {
		data, err := json.Marshal(spec.Definition)
		if err != nil {
			return fmt.Errorf("put deployment %s: encode definition: %w", spec.ID, err)
		}
		definition = string(data)
	}
	configuration, err := jsonColumn(spec.Configuration)
	if err != nil {
		return fmt.Errorf("put deployment %s: encode configuration: %w", spec.ID, err)
	}
	metadata, err := jsonColumn(spec.Metadata)
	if err != nil {
		return fmt.Errorf("put deployment %s: encode metadata: %w", spec.ID, err)
	}
	_, err = s.exec(ctx,
		`INSERT INTO deployments (`+deploymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             name = excluded.name, pipeline_id = excluded.pipeline_id, gateway_id = excluded.gateway_id,
             state = excluded.state, definition_json = excluded.definition_json,
             configuration_json = excluded.configuration_json, metadata_json = excluded.metadata_json,
             created_at = excluded.created_at, updated_at = excluded.updated_at`,
		spec.ID.String(),
		spec.Name,
		spec.PipelineID.String(),
		spec.GatewayID.String(),
		state,
		definition,
		configuration,
		metadata,
		nullableTime(spec.CreatedAt),
		nullableTime(spec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put deployment %s: %w", spec.ID, err)
	}
	s.logger.Debug("stored deployment", append(logging.Entity("deployment", spec.ID), "state", state)...)
	return nil
}

// GetDeployment loads a deployment by id, including its definition and
// configuration.
func (s *Store) GetDeployment(ctx context.Context, id ident.ID) (model.Deployment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+deploymentColumns+` FROM deployments WHERE id = ?`, id.String())
	d, err := scanDeployment(row, true, true)
	if err != nil {
		return model.Deployment{}, notFound("deployment", id, err)
	}
	return d, nil
}

// ListDeployments returns stored deployments matching params, oldest first.
// Definitions and configurations are only loaded when the matching
// with_definition/with_configuration flag is set.
func (s *Store) ListDeployments(ctx context.Context, params model.DeploymentListParams) ([]model.Deployment, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		clauses = append(clauses, clause)
		args = append(args, arg)
	}
	if params.CreatedSince != nil {
		add("created_at >= ?", params.CreatedSince.String())
	}
	if params.CreatedUntil != nil {
		add("created_at < ?", params.CreatedUntil.String())
	}
	if params.UpdatedSince != nil {
		add("updated_at >= ?", params.UpdatedSince.String())
	}
	if params.UpdatedUntil != nil {
		add("updated_at < ?", params.UpdatedUntil.String())
	}
	if params.PipelineID != nil {
		add("pipeline_id = ?", params.PipelineID.String())
	}
	if params.GatewayID != nil {
		add("gateway_id = ?", params.GatewayID.String())
	}
	if params.State != nil {
		state, err := token("states", *params.State)
		if err != nil {
			return nil, err
		}
		add("state = ?", state)
	}

	query := `SELECT ` + deploymentColumns + ` FROM deployments`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at, id"
	if params.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, params.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	defer rows.Close()

	var out []model.Deployment
	for rows.Next() {
		d, err := scanDeployment(rows, params.WithDefinition, params.WithConfiguration)
		if err != nil {
			return nil, fmt.Errorf("list deployments: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	return out, nil
}

// DeleteDeployment removes a deployment together with the streams its nodes
// produce.
func (s *Store) DeleteDeployment(ctx context.Context, id ident.ID) error {
	res, err := s.exec(ctx, `DELETE FROM deployments WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete deployment %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete deployment %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete deployment %s: %w", id, ErrNotFound)
	}
	s.logger.Debug("deleted deployment", logging.Entity("deployment", id)...)
	return nil
}

func scanDeployment(row scanner, withDefinition, withConfiguration bool) (model.Deployment, error) {
	var (
		spec                            model.DeploymentSpec
		state                           string
		definition, configuration, meta sql.NullString
		times                           rowTimes
		err                             error
	)
	if err = row.Scan(&spec.ID, &spec.Name, &spec.PipelineID, &spec.GatewayID, &state,
		&definition, &configuration, &meta, &times.created, &times.updated); err != nil {
		return model.Deployment{}, err
	}
	if spec.State, err = model.ParseDeploymentStateStorage(state); err != nil {
		return model.Deployment{}, fmt.Errorf("state: %w", err)
	}
	if withDefinition && definition.Valid {
		var def model.Definition
		if err = json.Unmarshal([]byte(definition.String), &def); err != nil {
			return model.Deployment{}, fmt.Errorf("decode definition: %w", err)
		}
		spec.Definition = &def
	}
	if withConfiguration && configuration.Valid {
		if err = json.Unmarshal([]byte(configuration.String), &spec.Configuration); err != nil {
			return model.Deployment{}, fmt.Errorf("decode configuration: %w", err)
		}
	}
	if spec.Metadata, err = parseMetadata(meta); err != nil {
		return model.Deployment{}, err
	}
	if spec.CreatedAt, spec.UpdatedAt, err = times.parse(); err != nil {
		return model.Deployment{}, err
	}
	return model.NewDeployment(spec)
}
