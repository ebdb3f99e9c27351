package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
)

const tableCellMaxWidth = 40
const tableCellEllipsis = "..."

// TableBuilder collects rows and renders a formatted table.
type TableBuilder struct {
	headers []string
	rows    [][]string
}

func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

func (builder *TableBuilder) String() string {
	return FormatTable(builder.headers, builder.rows)
}

// FormatTable renders headers and rows as an aligned table. Styled cells are
// measured without their escape codes.
func FormatTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && displayWidth(cell) > widths[i] {
				widths[i] = displayWidth(cell)
			}
		}
	}

	var builder strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			builder.WriteString(cell)
			if i == len(row)-1 {
				builder.WriteByte('\n')
				continue
			}
			builder.WriteString(strings.Repeat(" ", widths[i]-displayWidth(cell)+2))
		}
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return builder.String()
}

// TaskTable renders tasks as a table styled with theme.
func TaskTable(tasks []model.Task, theme Theme) string {
	headers := []string{"ID", "TITLE", "DEADLINE", "PRIORITY", "STATUS"}
	for i, h := range headers {
		headers[i] = theme.Header.Render(h)
	}

	builder := NewTableBuilder(headers, len(tasks))
	for _, t := range tasks {
		title := TruncateTableCell(t.Title)
		status := string(t.Status)
		if t.Status == constants.StatusCompleted {
			title = theme.Done.Render(title)
			status = theme.Muted.Render(status)
		}
		deadline := t.DeadlineText()
		if deadline == "" {
			deadline = theme.Muted.Render("-")
		}

		builder.AddRow([]string{
			fmt.Sprintf("%d", t.ID),
			title,
			deadline,
			theme.Priority(t.Priority).Render(string(t.Priority)),
			status,
		})
	}
	return builder.String()
}

// StatsTable is the per-priority progress summary.
func StatsTable(stats model.Stats, theme Theme) string {
	builder := NewTableBuilder([]string{theme.Header.Render("PRIORITY"), theme.Header.Render("COUNT")}, len(stats.ByPriority))
	for _, pc := range stats.ByPriority {
		builder.AddRow([]string{theme.Priority(pc.Priority).Render(string(pc.Priority)), fmt.Sprintf("%d", pc.Count)})
	}
	return builder.String() + fmt.Sprintf("\n%d total, %d pending, %d completed\n", stats.Total, stats.Pending, stats.Completed)
}

// TruncateTableCell keeps a cell on one line and at most tableCellMaxWidth
// runes wide.
func TruncateTableCell(value string) string {
	value = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
	if utf8.RuneCountInString(value) <= tableCellMaxWidth {
		return value
	}
	runes := []rune(value)
	return string(runes[:tableCellMaxWidth-len(tableCellEllipsis)]) + tableCellEllipsis
}

func displayWidth(value string) int {
	return utf8.RuneCountInString(stripANSICodes(value))
}

func stripANSICodes(input string) string {
	var builder strings.Builder
	inEscape := false
	for i := 0; i < len(input); i++ {
		char := input[i]
		if inEscape {
			if char == 'm' {
				inEscape = false
			}
			continue
		}
		if char == '\x1b' {
			inEscape = true
			continue
		}
		builder.WriteByte(char)
	}
	return builder.String()
}
