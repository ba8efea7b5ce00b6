package model

import (
	"vidctl/internal/apierr"
	"vidctl/internal/ident"
	"vidctl/internal/query"
	"vidctl/internal/rational"
	"vidctl/internal/timestamp"
)

// DeploymentListParams filters a deployment listing. Each filter takes a
// single value; unset pointers are left out of the query while limit and the
// with_ flags are always sent. A zero limit means no limit.
type DeploymentListParams struct {
	Limit             int16            `query:"limit"`
	CreatedSince      *timestamp.Time  `query:"created_ts_since"`
	CreatedUntil      *timestamp.Time  `query:"created_ts_until"`
	UpdatedSince      *timestamp.Time  `query:"updated_ts_since"`
	UpdatedUntil      *timestamp.Time  `query:"updated_ts_until"`
	PipelineID        *ident.ID        `query:"pipeline_ids"`
	GatewayID         *ident.ID        `query:"device_ids"`
	State             *DeploymentState `query:"states"`
	WithConfiguration bool             `query:"with_configuration"`
	WithDefinition    bool             `query:"with_definition"`
}

// Validate checks the filter values.
func (p DeploymentListParams) Validate() error {
	if p.Limit < 0 {
		return apierr.Invalid("limit", "must not be negative")
	}
	if err := checkWindow("created_ts_until", p.CreatedSince, p.CreatedUntil); err != nil {
		return err
	}
	if err := checkWindow("updated_ts_until", p.UpdatedSince, p.UpdatedUntil); err != nil {
		return err
	}
	if p.State != nil && !p.State.Valid() {
		return apierr.Invalid("states", "must be a declared deployment state")
	}
	return nil
}

// Values validates the filters and flattens them for a query string.
func (p DeploymentListParams) Values() (query.Values, error) {
	if err := p.Validate(); err != nil {
		return query.Values{}, err
	}
	return query.Marshal(p)
}

// ParseDeploymentListParams decodes and validates a query string.
func ParseDeploymentListParams(raw string) (DeploymentListParams, error) {
	var p DeploymentListParams
	if err := query.Decode(raw, &p); err != nil {
		return DeploymentListParams{}, err
	}
	if err := p.Validate(); err != nil {
		return DeploymentListParams{}, err
	}
	return p, nil
}

// FileListParams filters a file listing, and selects files for bulk
// deletion. Limit is always sent, like on deployments.
type FileListParams struct {
	Limit        int16           `query:"limit"`
	CreatedSince *timestamp.Time `query:"created_ts_since"`
	CreatedUntil *timestamp.Time `query:"created_ts_until"`
	NodeID       *string         `query:"node_ids"`
	DeploymentID *ident.ID       `query:"deployment_ids"`
	CameraID     *ident.ID       `query:"camera_ids"`
	StreamID     *ident.ID       `query:"stream_ids"`
	GatewayID    *ident.ID       `query:"gateway_ids"`
	PipelineID   *ident.ID       `query:"pipeline_ids"`
}

// Validate checks the filter values.
func (p FileListParams) Validate() error {
	if p.Limit < 0 {
		return apierr.Invalid("limit", "must not be negative")
	}
	if p.NodeID != nil && *p.NodeID == "" {
		return apierr.Invalid("node_ids", "must not be empty")
	}
	return checkWindow("created_ts_until", p.CreatedSince, p.CreatedUntil)
}

// Values validates the filters and flattens them for a query string.
func (p FileListParams) Values() (query.Values, error) {
	if err := p.Validate(); err != nil {
		return query.Values{}, err
	}
	return query.Marshal(p)
}

// ParseFileListParams decodes and validates a query string.
func ParseFileListParams(raw string) (FileListParams, error) {
	var p FileListParams
	if err := query.Decode(raw, &p); err != nil {
		return FileListParams{}, err
	}
	if err := p.Validate(); err != nil {
		return FileListParams{}, err
	}
	return p, nil
}

func checkWindow(field string, since, until *timestamp.Time) error {
	if since != nil && until != nil && until.Before(*since) {
		return apierr.Invalid(field, "must not precede the lower bound")
	}
	return nil
}

// RateQuery addresses a resource together with a frame rate, as used by
// rate-scoped lookups. It is the same value in a body and in a query.
type RateQuery struct {
	ID   ident.ID          `json:"id" query:"id"`
	Rate rational.Rational `json:"rate" query:"rate"`
}

// NewRateQuery requires a set id and a strictly positive rate.
func NewRateQuery(id ident.ID, rate rational.Rational) (RateQuery, error) {
	q := RateQuery{ID: id, Rate: rate}
	if err := q.Validate(); err != nil {
		return RateQuery{}, err
	}
	return q, nil
}

// Validate checks the rate. Any id, the nil one included, is accepted.
func (q RateQuery) Validate() error {
	return checkRate("rate", &q.Rate)
}

// Values validates the query and flattens it.
func (q RateQuery) Values() (query.Values, error) {
	if err := q.Validate(); err != nil {
		return query.Values{}, err
	}
	return query.Marshal(q)
}

// ParseRateQuery decodes and validates a query string.
func ParseRateQuery(raw string) (RateQuery, error) {
	var q RateQuery
	if err := query.Decode(raw, &q); err != nil {
		return RateQuery{}, err
	}
	if err := q.Validate(); err != nil {
		return RateQuery{}, err
	}
	return q, nil
}
