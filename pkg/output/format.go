// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders report in the named output format.
func Write(w io.Writer, outputFormat string, report Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty, "":
		return PrettyFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable summary
// followed by the report's table, if any.
func PrettyFormat(w io.Writer, report Report) error {
	p := message.NewPrinter(language.English)

	if _, err := fmt.Fprintf(w, "--- %s ---\n", report.Title); err != nil {
		return err
	}
	width := 0
	for _, field := range report.Fields {
		if len(field.Label) > width {
			width = len(field.Label)
		}
	}
	for _, field := range report.Fields {
		if _, err := fmt.Fprintf(w, "%-*s : %s\n", width, field.Label, render(p, field, report.Currency)); err != nil {
			return err
		}
	}

	if report.Table == nil || len(report.Table.Rows) == 0 {
		return nil
	}

	cells := make([][]string, 0, len(report.Table.Rows))
	widths := make([]int, len(report.Table.Columns))
	for i, column := range report.Table.Columns {
		widths[i] = len(column)
	}
	for _, row := range report.Table.Rows {
		line := make([]string, len(row))
		for i, field := range row {
			line[i] = render(p, field, report.Currency)
			if i < len(widths) && len([]rune(line[i])) > widths[i] {
				widths[i] = len([]rune(line[i]))
			}
		}
		cells = append(cells, line)
	}

	header := make([]string, len(report.Table.Columns))
	separator := make([]string, len(report.Table.Columns))
	for i, column := range report.Table.Columns {
		header[i] = pad(column, widths[i])
		separator[i] = strings.Repeat("_", widths[i])
	}
	if _, err := fmt.Fprintf(w, "\n%s\n%s\n", strings.Join(header, " | "), strings.Join(separator, " | ")); err != nil {
		return err
	}
	for _, line := range cells {
		for i := range line {
			if i < len(widths) {
				line[i] = pad(line[i], widths[i])
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(line, " | ")); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormat outputs the raw result as indented JSON.
func JSONFormat(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report.Data)
}

// CsvFormat outputs in comma-separated value format. Reports with a table
// emit the table; others emit one field,value row per summary field.
func CsvFormat(w io.Writer, report Report) error {
	writer := csv.NewWriter(w)
	if report.Table != nil {
		if err := writer.Write(report.Table.Columns); err != nil {
			return err
		}
		for _, row := range report.Table.Rows {
			record := make([]string, len(row))
			for i, field := range row {
				record[i] = raw(field)
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	} else {
		if err := writer.Write([]string{"field", "value"}); err != nil {
			return err
		}
		for _, field := range report.Fields {
			if err := writer.Write([]string{field.Label, raw(field)}); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func render(p *message.Printer, field Field, currency string) string {
	switch field.Kind {
	case Money:
		return format.Money(field.Value, currency)
	case Percent:
		return p.Sprintf("%.2f%%", field.Value)
	case Count:
		return p.Sprintf("%d", int64(field.Value))
	default:
		return field.Text
	}
}

func raw(field Field) string {
	switch field.Kind {
	case Money, Percent:
		return strconv.FormatFloat(field.Value, 'f', constants.DecimalPlaces, 64)
	case Count:
		return strconv.FormatInt(int64(field.Value), 10)
	default:
		return field.Text
	}
}

func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
