package main

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormatter renders a QueryResult or a plain row count for display.
// ConsoleFormatter is the primary surface (§6) and formats all SELECT output.
// JSONFormatter is not used by the CLI: the --json output of .dbinfo and
// .tables is written directly in main.go.
type OutputFormatter interface {
	FormatRow(row Row) string
	FormatTable(result *QueryResult) string
	FormatCount(count int) string
}

// ConsoleFormatter renders pipe-separated rows, matching the literal output
// pinned by §8's end-to-end scenarios.
type ConsoleFormatter struct {
	io.Writer
}

func NewConsoleFormatter(writer io.Writer) *ConsoleFormatter {
	return &ConsoleFormatter{Writer: writer}
}

func (cf *ConsoleFormatter) FormatRow(row Row) string {
	parts := make([]string, len(row.Values))
	for i, v := range row.Values {
		parts[i] = v.String()
	}
	return strings.Join(parts, "|")
}

func (cf *ConsoleFormatter) FormatTable(result *QueryResult) string {
	var b strings.Builder
	for _, row := range result.Rows {
		b.WriteString(cf.FormatRow(row))
		b.WriteString("\n")
	}
	return b.String()
}

func (cf *ConsoleFormatter) FormatCount(count int) string {
	return fmt.Sprintf("%d", count)
}

// JSONFormatter renders query results as JSON. No CLI command uses it.
type JSONFormatter struct {
	io.Writer
}

func NewJSONFormatter(writer io.Writer) *JSONFormatter {
	return &JSONFormatter{Writer: writer}
}

func (jf *JSONFormatter) formatValue(v Value) string {
	switch v.Type() {
	case ValueTypeText, ValueTypeBlob:
		return fmt.Sprintf("%q", v.String())
	case ValueTypeNull:
		return "null"
	default:
		return v.String()
	}
}

func (jf *JSONFormatter) FormatRow(row Row) string {
	pairs := make([]string, len(row.Values))
	for i, v := range row.Values {
		pairs[i] = jf.formatValue(v)
	}
	return fmt.Sprintf("[%s]", strings.Join(pairs, ", "))
}

func (jf *JSONFormatter) FormatTable(result *QueryResult) string {
	if result.IsCount {
		return fmt.Sprintf(`{"count": %d}`, result.Count)
	}
	rows := make([]string, len(result.Rows))
	for i, row := range result.Rows {
		rows[i] = jf.FormatRow(row)
	}
	return fmt.Sprintf(`{"columns": %s, "rows": [%s]}`, jf.formatColumnNames(result.ColumnNames), strings.Join(rows, ", "))
}

func (jf *JSONFormatter) formatColumnNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("[%s]", strings.Join(quoted, ", "))
}

func (jf *JSONFormatter) FormatCount(count int) string {
	return fmt.Sprintf(`{"count": %d}`, count)
}
