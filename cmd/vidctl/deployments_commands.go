package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vidctl/internal/client"
	"vidctl/internal/ident"
)

func newDeploymentsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"deployment"},
		Short:   "Manage deployments through the API",
	}
	cmd.AddCommand(newDeploymentsListCommand(ctx))
	cmd.AddCommand(newDeploymentsGetCommand(ctx))
	cmd.AddCommand(newDeploymentActionCommand(ctx, "start", "Start a deployment", (*client.Client).StartDeployment))
	cmd.AddCommand(newDeploymentActionCommand(ctx, "stop", "Stop a deployment", (*client.Client).StopDeployment))
	return cmd
}

func newDeploymentsListCommand(ctx *commandContext) *cobra.Command {
	var filters deploymentFilterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deployments of the configured application",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := filters.params()
			if err != nil {
				return err
			}
			return ctx.withClient(func(api *client.Client) error {
				list, err := api.ListDeployments(cmd.Context(), params)
				if err != nil {
					return err
				}
				return ctx.render(cmd, deploymentsView(list))
			})
		},
	}
	filters.bind(cmd)
	return cmd
}

func newDeploymentsGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ident.Parse(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(api *client.Client) error {
				d, err := api.GetDeployment(cmd.Context(), id)
				if client.IsNotFound(err, client.ResourceDeployment) {
					return fmt.Errorf("deployment %s not found", id)
				}
				if err != nil {
					return err
				}
				return ctx.render(cmd, deploymentView(d))
			})
		},
	}
}

type deploymentAction func(*client.Client, context.Context, ident.ID) error

func newDeploymentActionCommand(ctx *commandContext, use, short string, action deploymentAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ident.Parse(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(api *client.Client) error {
				if err := action(api, cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Requested %s of deployment %s\n", use, id)
				return nil
			})
		},
	}
}
