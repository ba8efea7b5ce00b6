package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutputFlag(value string) error {
	switch value {
	case "", outputTable, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (want table, json or yaml)", value)
}

// view is one command result: the encoded value for json and yaml, and
// either rows or a single line of text shown on a terminal.
type view struct {
	value   any
	text    string
	headers []string
	rows    [][]string
}

// render writes v in the format chosen by --output. Without the flag a
// terminal gets the table (or text) form and anything else gets JSON.
func (c *commandContext) render(cmd *cobra.Command, v view) error {
	out := cmd.OutOrStdout()
	format := c.output()
	if format == "" {
		format = outputJSON
		if isTerminal(out) && (len(v.headers) > 0 || v.text != "") {
			format = outputTable
		}
	}
	switch {
	case format == outputYAML:
		return writeYAML(out, v.value)
	case format == outputTable && len(v.headers) > 0:
		_, err := fmt.Fprintln(out, v.table())
		return err
	case format == outputTable && v.text != "":
		_, err := fmt.Fprintln(out, v.text)
		return err
	}
	return writeJSON(out, v.value)
}

func (v view) table() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(cells(v.headers, len(v.headers)))
	for _, row := range v.rows {
		tw.AppendRow(cells(row, len(v.headers)))
	}
	return tw.Render()
}

// cells pads or truncates values to width columns.
func cells(values []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		row[i] = ""
		if i < len(values) {
			row[i] = values[i]
		}
	}
	return row
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML renders the JSON form of v as block YAML, so field names and
// value encodings match the JSON output exactly.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("convert to yaml: %w", err)
	}
	blockStyle(&doc)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles JSON input parses with; the
// encoder still quotes strings that would otherwise read as another type.
func blockStyle(node *yaml.Node) {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!str" {
		node.Style = 0
	}
	for _, child := range node.Content {
		blockStyle(child)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
