package chunker

import (
	"fmt"
	"strings"
)

// Table is one sheet or table of tabular source data. The first row is
// treated as a header row when present.
type Table struct {
	Name string
	Rows [][]string
}

// RowChunks converts tabular data into one chunk per non-empty row.
// When a header row exists and is not longer than the row, each cell is
// rendered as a "field: value" pair; otherwise raw cell values are
// joined. Every chunk is prefixed with its sheet name so lookups for a
// named entity retrieve a self-contained fact instead of a fixed-width
// slice across unrelated rows.
func RowChunks(table Table) []string {
	if len(table.Rows) == 0 {
		return nil
	}

	var header []string
	for _, c := range table.Rows[0] {
		if v := strings.TrimSpace(c); v != "" {
			header = append(header, v)
		}
	}

	var chunks []string
	for _, row := range table.Rows[1:] {
		cells := make([]string, len(row))
		empty := true
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
			if cells[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		var body string
		if len(header) > 0 && len(header) <= len(cells) {
			var pairs []string
			for i, h := range header {
				if h != "" && cells[i] != "" {
					pairs = append(pairs, fmt.Sprintf("%s: %s", h, cells[i]))
				}
			}
			if len(pairs) > 0 {
				body = strings.Join(pairs, " | ")
			} else {
				body = joinNonEmpty(cells)
			}
		} else {
			body = joinNonEmpty(cells)
		}

		chunks = append(chunks, fmt.Sprintf("[Sheet: %s] %s", table.Name, body))
	}
	return chunks
}

func joinNonEmpty(cells []string) string {
	var kept []string
	for _, c := range cells {
		if c != "" {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, " | ")
}
