package client

import (
	"context"
	"net/http"

	"vidctl/internal/ident"
	"vidctl/internal/model"
)

// ListDeployments lists the application's deployments matching params.
func (c *Client) ListDeployments(ctx context.Context, params model.DeploymentListParams) ([]model.Deployment, error) {
	path, err := c.appPath("/deployments")
	if err != nil {
		return nil, err
	}
	values, err := params.Values()
	rawQuery, err := c.encodeQuery(http.MethodGet, path, values, err)
	if err != nil {
		return nil, err
	}
	var out []model.Deployment
	if err := c.get(ctx, path, rawQuery, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDeployment deploys a pipeline to a gateway.
func (c *Client) CreateDeployment(ctx context.Context, req model.DeploymentRequest) (model.Deployment, error) {
	path, err := c.appPath("/deployments")
	if err != nil {
		return model.Deployment{}, err
	}
	var out model.Deployment
	if err := c.send(ctx, http.MethodPost, path, req, &out); err != nil {
		return model.Deployment{}, err
	}
	return out, nil
}

// GetDeployment fetches one deployment. A missing deployment satisfies
// IsNotFound(err, ResourceDeployment).
func (c *Client) GetDeployment(ctx context.Context, id ident.ID) (model.Deployment, error) {
	path, err := c.appPath("/deployments/%s", id)
	if err != nil {
		return model.Deployment{}, err
	}
	var out model.Deployment
	if err := c.get(ctx, path, "", &out); err != nil {
		return model.Deployment{}, err
	}
	return out, nil
}

// UpdateDeployment applies upd and returns the updated deployment.
func (c *Client) UpdateDeployment(ctx context.Context, id ident.ID, upd model.DeploymentUpdate) (model.Deployment, error) {
	path, err := c.appPath("/deployments/%s", id)
	if err != nil {
		return model.Deployment{}, err
	}
	var out model.Deployment
	if err := c.send(ctx, http.MethodPut, path, upd, &out); err != nil {
		return model.Deployment{}, err
	}
	return out, nil
}

// DeleteDeployment removes a deployment.
func (c *Client) DeleteDeployment(ctx context.Context, id ident.ID) error {
	path, err := c.appPath("/deployments/%s", id)
	if err != nil {
		return err
	}
	return c.delete(ctx, path, "")
}

// GetDeploymentDefinition fetches the definition a deployment runs.
func (c *Client) GetDeploymentDefinition(ctx context.Context, id ident.ID) (model.Definition, error) {
	path, err := c.appPath("/deployments/%s/definition", id)
	if err != nil {
		return model.Definition{}, err
	}
	var out model.Definition
	if err := c.get(ctx, path, "", &out); err != nil {
		return model.Definition{}, err
	}
	return out, nil
}

// StartDeployment asks the gateway to start a deployment.
func (c *Client) StartDeployment(ctx context.Context, id ident.ID) error {
	return c.postAction(ctx, id, "start")
}

// StopDeployment asks the gateway to stop a deployment.
func (c *Client) StopDeployment(ctx context.Context, id ident.ID) error {
	return c.postAction(ctx, id, "stop")
}

func (c *Client) postAction(ctx context.Context, id ident.ID, action string) error {
	path, err := c.appPath("/deployments/%s/%s", id, action)
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodPost, path: path}, nil)
}
