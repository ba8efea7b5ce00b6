package store

import (
	"context"
	"database/sql"
	"fmt"

	"vidctl/internal/ident"
	"vidctl/internal/model"
)

const gatewayColumns = "id, application_id, name, status, model, ip_local, ip_ext, mac_address, metadata_json, created_at, updated_at"

// PutGateway inserts or replaces a gateway. The access token is never
// persisted.
func (s *Store) PutGateway(ctx context.Context, g model.Gateway) error {
	if g.ID().IsZero() {
		return fmt.Errorf("put gateway: %w", ErrMissingID)
	}
	spec := g.Spec()
	metadata, err := jsonColumn(spec.Metadata)
	if err != nil {
		return fmt.Errorf("put gateway: encode metadata: %w", err)
	}
	_, err = s.exec(ctx,
		`INSERT INTO gateways (`+gatewayColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             application_id = excluded.application_id, name = excluded.name, status = excluded.status,
             model = excluded.model, ip_local = excluded.ip_local, ip_ext = excluded.ip_ext,
             mac_address = excluded.mac_address, metadata_json = excluded.metadata_json,
             created_at = excluded.created_at, updated_at = excluded.updated_at`,
		spec.ID.String(),
		spec.ApplicationID.String(),
		spec.Name,
		spec.Status,
		nullableString(spec.Model),
		nullableString(spec.IPLocal),
		nullableString(spec.IPExt),
		nullableString(spec.MACAddress),
		metadata,
		nullableTime(spec.CreatedAt),
		nullableTime(spec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put gateway %s: %w", spec.ID, err)
	}
	return nil
}

// GetGateway loads a gateway by id.
func (s *Store) GetGateway(ctx context.Context, id ident.ID) (model.Gateway, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gatewayColumns+` FROM gateways WHERE id = ?`, id.String())
	g, err := scanGateway(row)
	if err != nil {
		return model.Gateway{}, notFound("gateway", id, err)
	}
	return g, nil
}

func scanGateway(row scanner) (model.Gateway, error) {
	var (
		spec                         model.GatewaySpec
		hwModel, ipLocal, ipExt, mac sql.NullString
		metadata                     sql.NullString
		times                        rowTimes
		err                          error
	)
	if err = row.Scan(&spec.ID, &spec.ApplicationID, &spec.Name, &spec.Status,
		&hwModel, &ipLocal, &ipExt, &mac, &metadata, &times.created, &times.updated); err != nil {
		return model.Gateway{}, err
	}
	spec.Model = stringPtr(hwModel)
	spec.IPLocal = stringPtr(ipLocal)
	spec.IPExt = stringPtr(ipExt)
	spec.MACAddress = stringPtr(mac)
	if spec.Metadata, err = parseMetadata(metadata); err != nil {
		return model.Gateway{}, err
	}
	if spec.CreatedAt, spec.UpdatedAt, err = times.parse(); err != nil {
		return model.Gateway{}, err
	}
	return model.NewGateway(spec)
}
