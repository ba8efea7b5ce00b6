package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	"vidctl/internal/config"
	"vidctl/internal/model"
	"vidctl/internal/query"
)

var entityKinds = []string{"camera", "definition", "deployment", "file", "gateway", "pipeline", "stream"}

var requestKinds = []string{"camera", "deployment", "file", "gateway"}

var queryKinds = []string{"deployments", "files", "rate"}

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "encode",
		Short:       "Validate input and print its wire encoding",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	cmd.AddCommand(newEncodeBodyCommand(ctx))
	cmd.AddCommand(newEncodeQueryCommand(ctx))
	return cmd
}

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "decode",
		Short:       "Decode wire input into its fields",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	cmd.AddCommand(newDecodeQueryCommand(ctx))
	return cmd
}

func newEncodeBodyCommand(ctx *commandContext) *cobra.Command {
	var kind string
	var file string
	var request bool

	cmd := &cobra.Command{
		Use:   "body",
		Short: "Validate an entity file (JSON with comments) and print its request body",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readEntityFile(cmd, file)
			if err != nil {
				return err
			}
			value, err := decodeEntity(kind, data, request)
			if err != nil {
				return err
			}
			return ctx.render(cmd, view{value: value})
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Entity kind: "+strings.Join(entityKinds, ", "))
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Entity file, or - for stdin")
	cmd.Flags().BoolVar(&request, "request", false, "Print the create request body instead of the record (camera, deployment, file, gateway)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newEncodeQueryCommand(ctx *commandContext) *cobra.Command {
	var kind string
	var sets []string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Build a list query string from key=value pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			canonical, err := canonicalQuery(kind, values)
			if err != nil {
				return err
			}
			return ctx.render(cmd, queryView(canonical))
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Parameter set: "+strings.Join(queryKinds, ", "))
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Parameter as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newDecodeQueryCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "query <query-string>",
		Short: "Split a query string into decoded key/value pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := query.Parse(strings.TrimPrefix(args[0], "?"))
			if err != nil {
				return err
			}
			if kind != "" {
				if values, err = canonicalQuery(kind, values); err != nil {
					return err
				}
			}
			return ctx.render(cmd, queryView(values))
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Validate against a parameter set: "+strings.Join(queryKinds, ", "))
	return cmd
}

func readEntityFile(cmd *cobra.Command, path string) ([]byte, error) {
	var data []byte
	var err error
	if path = strings.TrimSpace(path); path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		var expanded string
		if expanded, err = config.ExpandPath(path); err != nil {
			return nil, fmt.Errorf("resolve entity path: %w", err)
		}
		data, err = os.ReadFile(expanded)
	}
	if err != nil {
		return nil, fmt.Errorf("read entity: %w", err)
	}
	return jsonc.ToJSON(data), nil
}

func decodeEntity(kind string, data []byte, request bool) (any, error) {
	if request && !slices.Contains(requestKinds, kind) {
		return nil, fmt.Errorf("--request is not supported for %s", kind)
	}
	var value any
	var err error
	switch kind {
	case "definition":
		value, err = decodeInto[model.Definition](data)
	case "pipeline":
		value, err = decodeInto[model.Pipeline](data)
	case "stream":
		value, err = decodeInto[model.Stream](data)
	case "file":
		var f model.File
		if f, err = decodeInto[model.File](data); err == nil && request {
			value, err = model.NewFileRequest(f.ToData())
		} else {
			value = f
		}
	case "camera":
		var c model.Camera
		if c, err = decodeInto[model.Camera](data); err == nil && request {
			value, err = model.NewCameraRequest(c.ApplicationID(), c.ToData())
		} else {
			value = c
		}
	case "gateway":
		var g model.Gateway
		if g, err = decodeInto[model.Gateway](data); err == nil && request {
			value = g.Request()
		} else {
			value = g
		}
	case "deployment":
		var d model.Deployment
		if d, err = decodeInto[model.Deployment](data); err == nil && request {
			value, err = deploymentRequest(d)
		} else {
			value = d
		}
	default:
		return nil, fmt.Errorf("unknown entity kind %q (want one of %s)", kind, strings.Join(entityKinds, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return value, nil
}

func decodeInto[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

func deploymentRequest(d model.Deployment) (model.DeploymentRequest, error) {
	spec := d.Spec()
	return model.NewDeploymentRequest(model.DeploymentRequestSpec{
		PipelineID: spec.PipelineID,
		GatewayID:  spec.GatewayID,
		Data: model.DeploymentData{
			Name:          &spec.Name,
			State:         &spec.State,
			Definition:    spec.Definition,
			Configuration: spec.Configuration,
		},
	})
}

func parseAssignments(sets []string) (query.Values, error) {
	var values query.Values
	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return query.Values{}, fmt.Errorf("invalid --set %q (want key=value)", set)
		}
		if _, dup := values.Get(key); dup {
			return query.Values{}, fmt.Errorf("duplicate --set key %q", key)
		}
		values.Set(key, value)
	}
	return values, nil
}

// canonicalQuery decodes values into the named parameter set, validates it
// and re-encodes it, so keys come back in declaration order.
func canonicalQuery(kind string, values query.Values) (query.Values, error) {
	switch kind {
	case "deployments":
		var p model.DeploymentListParams
		if err := query.Unmarshal(values, &p); err != nil {
			return query.Values{}, err
		}
		return p.Values()
	case "files":
		var p model.FileListParams
		if err := query.Unmarshal(values, &p); err != nil {
			return query.Values{}, err
		}
		return p.Values()
	case "rate":
		var q model.RateQuery
		if err := query.Unmarshal(values, &q); err != nil {
			return query.Values{}, err
		}
		return q.Values()
	}
	return query.Values{}, fmt.Errorf("unknown query kind %q (want one of %s)", kind, strings.Join(queryKinds, ", "))
}

type queryField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type queryResult struct {
	Query  string       `json:"query"`
	Fields []queryField `json:"fields"`
}

func queryView(values query.Values) view {
	result := queryResult{Query: values.Encode(), Fields: []queryField{}}
	rows := make([][]string, 0, values.Len())
	for _, key := range values.Keys() {
		value, _ := values.Get(key)
		result.Fields = append(result.Fields, queryField{Key: key, Value: value})
		rows = append(rows, []string{key, value})
	}
	if len(rows) == 0 {
		return view{value: result, text: "(empty query)"}
	}
	rows = append(rows, []string{"", ""}, []string{"query", result.Query})
	return view{
		value:   result,
		headers: []string{"Key", "Value"},
		rows:    rows,
	}
}
