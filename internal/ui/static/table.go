// Package static provides non-interactive terminal output components.
//
// This package contains components for rendering formatted output
// that does not require user interaction, such as tables and
// formatted text displays.
package static

import (
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/huncholane/dothub/internal/catalog"
	"github.com/huncholane/dothub/internal/ui/styles"
)

// CatalogHeaders are the columns of the catalog table.
var CatalogHeaders = []string{"#", "Stars", "Installed", "Source"}

// CatalogTableRow formats one ranked entry; columns match CatalogHeaders.
func CatalogTableRow(e catalog.RankedEntry) []string {
	installed := "n"
	if e.Installed {
		installed = "y"
	}
	return []string{
		strconv.Itoa(e.Rank),
		strconv.FormatUint(e.Stars, 10),
		installed,
		e.SourceURL,
	}
}

// RenderCatalog renders the ranked entries as a table with rounded borders.
// An empty catalog still renders the header.
func RenderCatalog(entries []catalog.RankedEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, CatalogTableRow(e))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.BorderStyle).
		Headers(CatalogHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return styles.HeaderStyle.Padding(0, 1)
			case col == 0 || col == 1:
				return s.Align(lipgloss.Right)
			case col == 2 && rows[row][2] == "y":
				return s.Foreground(styles.Success)
			}
			return s
		})

	return t.String() + "\n"
}
