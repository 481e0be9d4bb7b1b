package output

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/crucial707/travel-journal/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable prints a pretty table to w
func RenderTable(w io.Writer, headers []string, rows [][]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.Render()
}

// PrintJSON writes v indented.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RenderStories prints stories as a table, favourites marked with a star.
func RenderStories(w io.Writer, stories []models.Story) {
	rows := make([][]interface{}, 0, len(stories))
	for _, s := range stories {
		fav := ""
		if s.IsFavourite {
			fav = "★"
		}
		rows = append(rows, []interface{}{
			s.ID.String(),
			fav,
			truncate(s.Title, 40),
			strings.Join(s.VisitedLocation, ", "),
			s.VisitedDate.UTC().Format(time.DateOnly),
		})
	}
	RenderTable(w, []string{"ID", "Fav", "Title", "Locations", "Visited"}, rows)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
