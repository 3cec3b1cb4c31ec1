package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nao1215/markdown"

	"github.com/WessleyAI/carhub/pkg/config"
)

type printer struct {
	w      io.Writer
	format string
}

// emit writes v as JSON, or header and rows as a table.
func (p printer) emit(v any, header []string, rows [][]string) error {
	switch p.format {
	case config.OutputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputMarkdown:
		md := markdown.NewMarkdown(p.w)
		md.Table(markdown.TableSet{Header: header, Rows: rows})
		return md.Build()
	default:
		tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		for _, r := range rows {
			fmt.Fprintln(tw, strings.Join(r, "\t"))
		}
		return tw.Flush()
	}
}

// message writes a status line, or {"message": ...} in JSON mode.
func (p printer) message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.format == config.OutputJSON {
		return json.NewEncoder(p.w).Encode(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}

func num(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *p)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
