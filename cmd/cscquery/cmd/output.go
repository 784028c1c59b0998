package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	copernicus "github.com/MrChebur/Copernicus-OData-wrapper"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/edm"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedColor  = lipgloss.Color("241")
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(mutedColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func printProducts(w io.Writer, format string, products []copernicus.Product, total *int64) error {
	switch format {
	case "json":
		return writeJSON(w, products)
	case "table", "":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	t := newTable("Name", "Id", "Published", "Sensing start", "Size", "Online")
	for _, p := range products {
		t.Row(
			p.Name,
			p.ID.String(),
			formatTime(p.PublicationDate),
			formatTime(p.ContentDate.Start),
			strconv.FormatInt(p.ContentLength, 10),
			strconv.FormatBool(p.Online),
		)
	}
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}

	summary := fmt.Sprintf("%d products", len(products))
	if total != nil {
		summary += fmt.Sprintf(" (%d matching)", *total)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}

func formatTime(d edm.DateTimeOffset) string {
	if d.IsNull() {
		return ""
	}
	return edm.FormatDateTime(d.Time())
}

func printNodes(w io.Writer, format string, nodes *copernicus.NodeListing) error {
	if format == "json" {
		return writeJSON(w, nodes)
	}

	t := newTable("Name", "Type", "Size", "Children", "Nodes")
	for _, n := range nodes.Result {
		kind := "file"
		if n.IsDir() {
			kind = "dir"
		}
		t.Row(n.Name, kind, strconv.FormatInt(n.ContentLength, 10), strconv.Itoa(n.ChildrenNumber), n.Nodes.URI)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func printAttributes(w io.Writer, attrs []copernicus.Attribute) error {
	t := newTable("Name", "Kind", "Operators")
	for _, a := range attrs {
		ops := "eq"
		if a.Kind().Ordered() {
			ops = "eq lt le ge gt"
		}
		t.Row(a.Name(), a.Kind().String(), ops)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
