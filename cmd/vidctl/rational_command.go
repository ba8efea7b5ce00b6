package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidctl/internal/query"
	"vidctl/internal/rational"
)

func newRationalCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "rational",
		Short:       "Rational number utilities",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "normalize <n/d>...",
		Short: "Reduce fractions and show their body and query encodings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			type result struct {
				Input string            `json:"input"`
				Value rational.Rational `json:"value"`
				Query string            `json:"query"`
			}
			results := make([]result, 0, len(args))
			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				r, err := rational.Parse(arg)
				if err != nil {
					return fmt.Errorf("normalize %q: %w", arg, err)
				}
				token := query.Escape(r.String())
				results = append(results, result{Input: arg, Value: r, Query: token})
				rows = append(rows, []string{arg, r.String(), token})
			}
			return ctx.render(cmd, view{
				value:   results,
				headers: []string{"Input", "Value", "Query"},
				rows:    rows,
			})
		},
	})
	return cmd
}
