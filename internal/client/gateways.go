package client

import (
	"context"
	"net/http"
	"net/netip"

	"vidctl/internal/model"
)

// CreateGateway registers g under its own application, whichever
// application the client is scoped to. The returned record carries the
// access token the gateway authenticates with.
func (c *Client) CreateGateway(ctx context.Context, g model.Gateway) (model.Gateway, error) {
	path := scopedPath(g.ApplicationID(), "/gateways")
	var out model.Gateway
	if err := c.send(ctx, http.MethodPost, path, g.Request(), &out); err != nil {
		return model.Gateway{}, err
	}
	return out, nil
}

// GetGateway fetches the client's own gateway.
func (c *Client) GetGateway(ctx context.Context) (model.Gateway, error) {
	path, err := c.gatewayPath("")
	if err != nil {
		return model.Gateway{}, err
	}
	var out model.Gateway
	if err := c.get(ctx, path, "", &out); err != nil {
		return model.Gateway{}, err
	}
	return out, nil
}

// UpdateGatewayIPLocal reports the gateway's LAN address.
func (c *Client) UpdateGatewayIPLocal(ctx context.Context, addr netip.Addr) error {
	path, err := c.gatewayPath("/ip_local")
	if err != nil {
		return err
	}
	return c.putText(ctx, path, addr.String())
}

// UpdateGatewayIPExt reports the gateway's public address.
func (c *Client) UpdateGatewayIPExt(ctx context.Context, addr netip.Addr) error {
	path, err := c.gatewayPath("/ip_ext")
	if err != nil {
		return err
	}
	return c.putText(ctx, path, addr.String())
}
