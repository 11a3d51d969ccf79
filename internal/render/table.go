// Package render draws a board listing as a table, one column per lane.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/starford/boards/internal/models"
)

// BoardSuffix marks items that are sub-boards.
const BoardSuffix = "/"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	idStyle     = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Table returns the listing as a bordered table. icons maps lane names to
// a glyph shown before the lane header.
func Table(listing models.Listing, icons map[string]string) string {
	headers := make([]string, len(listing.Lanes))
	height := 0
	for i, lane := range listing.Lanes {
		headers[i] = lane
		if icon := icons[lane]; icon != "" {
			headers[i] = icon + " " + lane
		}
		height = max(height, len(listing.Entries[lane]))
	}

	rows := make([][]string, height)
	for r := range rows {
		rows[r] = make([]string, len(listing.Lanes))
		for c, lane := range listing.Lanes {
			if entries := listing.Entries[lane]; r < len(entries) {
				rows[r][c] = Cell(entries[r])
			}
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// Cell formats one entry as "id stem", with sub-boards suffixed.
func Cell(e models.Entry) string {
	name := e.Stem
	if e.IsBoard {
		name += BoardSuffix
	}
	return idStyle.Render(strconv.Itoa(e.ID)) + " " + name
}

// Board writes the table followed by a newline.
func Board(w io.Writer, listing models.Listing, icons map[string]string) error {
	_, err := fmt.Fprintln(w, Table(listing, icons))
	return err
}

// Problem writes a one-line user-facing failure message.
func Problem(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, errStyle.Render(err.Error()))
}
