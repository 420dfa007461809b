package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// table is the tabular form of a result
type table struct {
	header []string
	rows   [][]string
}

// renderer writes command results in the selected format
type renderer struct {
	w      io.Writer
	format string
	jq     *gojq.Code
}

func newRenderer(w io.Writer, format, jqExpression string) (*renderer, error) {
	switch format {
	case formatTable, formatJSON, formatYAML:
	default:
		return nil, fmt.Errorf("invalid output format: %s (must be table, json or yaml)", format)
	}

	r := &renderer{w: w, format: format}

	if strings.TrimSpace(jqExpression) != "" {
		query, err := gojq.Parse(jqExpression)
		if err != nil {
			return nil, fmt.Errorf("invalid jq expression: %w", err)
		}
		code, err := gojq.Compile(query)
		if err != nil {
			return nil, fmt.Errorf("failed to compile jq expression: %w", err)
		}
		r.jq = code
	}

	return r, nil
}

// Render writes v. The table form is only used for the table format without
// a jq expression; jq results are printed as JSON unless yaml was requested.
func (r *renderer) Render(v any, t table) error {
	if r.jq != nil {
		return r.renderJQ(v)
	}

	switch r.format {
	case formatJSON:
		return r.writeJSON(v)
	case formatYAML:
		return r.writeYAML(v)
	default:
		return r.writeTable(t)
	}
}

func (r *renderer) renderJQ(v any) error {
	// gojq works on plain JSON values, so go through the wire form
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}

	iter := r.jq.Run(input)
	for {
		out, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := out.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				return nil
			}
			return fmt.Errorf("jq: %w", err)
		}

		if r.format == formatYAML {
			err = r.writeYAML(out)
		} else {
			err = r.writeJSON(out)
		}
		if err != nil {
			return err
		}
	}
}

func (r *renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *renderer) writeYAML(v any) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (r *renderer) writeTable(t table) error {
	if len(t.rows) == 0 {
		_, err := fmt.Fprintln(r.w, "No results.")
		return err
	}

	tw := tablewriter.NewWriter(r.w)
	tw.Header(cells(t.header)...)
	for _, row := range t.rows {
		if err := tw.Append(cells(row)...); err != nil {
			return err
		}
	}
	return tw.Render()
}

func cells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
