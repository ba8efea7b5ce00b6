package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidctl/internal/ident"
	"vidctl/internal/model"
	"vidctl/internal/store"
)

var storeKinds = []string{"deployment", "file", "gateway", "pipeline", "stream"}

func newStoreCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and populate the local entity store",
	}
	cmd.AddCommand(newStoreDeploymentsCommand(ctx))
	cmd.AddCommand(newStoreImportCommand(ctx))
	cmd.AddCommand(newStoreDeleteDeploymentCommand(ctx))
	return cmd
}

func newStoreDeploymentsCommand(ctx *commandContext) *cobra.Command {
	var filters deploymentFilterFlags
	cmd := &cobra.Command{
		Use:   "deployments",
		Short: "List stored deployments",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := filters.params()
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				list, err := st.ListDeployments(cmd.Context(), params)
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

func newStoreImportCommand(ctx *commandContext) *cobra.Command {
	var kind string
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate an entity file and save it to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind == "definition" {
				return fmt.Errorf("definitions are stored with their pipeline; import a pipeline instead")
			}
			data, err := readEntityFile(cmd, file)
			if err != nil {
				return err
			}
			value, err := decodeEntity(kind, data, false)
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				id, err := putEntity(cmd.Context(), st, value)
				if err != nil {
					return fmt.Errorf("store %s: %w", kind, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %s %s\n", kind, id)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Entity kind: "+strings.Join(storeKinds, ", "))
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Entity file, or - for stdin")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newStoreDeleteDeploymentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-deployment <id>",
		Short: "Remove a stored deployment and its streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ident.Parse(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				if err := st.DeleteDeployment(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted deployment %s\n", id)
				return nil
			})
		},
	}
}

func putEntity(ctx context.Context, st *store.Store, value any) (ident.ID, error) {
	switch v := value.(type) {
	case model.Pipeline:
		return v.ID(), st.PutPipeline(ctx, v)
	case model.Deployment:
		return v.ID(), st.PutDeployment(ctx, v)
	case model.Gateway:
		return v.ID(), st.PutGateway(ctx, v)
	case model.Stream:
		return v.ID(), st.PutStream(ctx, v)
	case model.File:
		return v.ID(), st.PutFile(ctx, v)
	}
	return ident.ID{}, fmt.Errorf("unsupported entity %T", value)
}
