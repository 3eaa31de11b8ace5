package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Sanjarbek-2007/Tech-House/internal/catalog"
	"github.com/Sanjarbek-2007/Tech-House/internal/shop"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// Column widths of the result table.
var columns = []struct {
	title string
	width int
}{
	{"ID", 34},
	{"NAME", 44},
	{"BRAND", 12},
	{"PRICE", 16},
	{"RATING", 8},
	{"BADGE", 11},
}

// writeJSON encodes v indented. http.ResponseWriter also gets the content
// type set.
func writeJSON(w io.Writer, v interface{}) error {
	if rw, ok := w.(http.ResponseWriter); ok {
		rw.Header().Set("Content-Type", "application/json")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cell(s string, width int, style lipgloss.Style) string {
	if len([]rune(s)) > width-1 {
		s = string([]rune(s)[:width-2]) + "…"
	}
	return style.Width(width).Render(s)
}

func renderRow(values []string, style lipgloss.Style) string {
	cells := make([]string, len(columns))
	for i, c := range columns {
		cells[i] = cell(values[i], c.width, style)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// renderResult prints one grid page as a table.
func renderResult(res catalog.Result) string {
	var b strings.Builder
	if res.Empty() {
		b.WriteString(titleStyle.Render("No products found"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Try clearing some filters."))
		b.WriteString("\n")
		return b.String()
	}

	size := res.State.Pagination.PageSize
	first := (res.State.Pagination.Page-1)*size + 1
	last := first + len(res.Items) - 1
	b.WriteString(titleStyle.Render(fmt.Sprintf("Showing %d-%d of %d products", first, last, res.TotalCount)))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("(page %d/%d, sort: %s)", res.State.Pagination.Page, res.TotalPages, res.State.Sort)))
	b.WriteString("\n\n")

	titles := make([]string, len(columns))
	for i, c := range columns {
		titles[i] = c.title
	}
	b.WriteString(renderRow(titles, headerStyle))
	b.WriteString("\n")

	for _, p := range res.Items {
		badge := ""
		if p.Badge != nil {
			badge = catalog.BadgeLabel(p.Badge.Type)
		}
		b.WriteString(renderRow([]string{
			p.ID,
			p.Name,
			p.Brand,
			shop.FormatPrice(p.Price),
			strconv.FormatFloat(p.Rating, 'f', 1, 64),
			badge,
		}, lipgloss.NewStyle()))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFacets prints every facet group with its counts.
func renderFacets(fc catalog.FacetCounts) string {
	groups := []struct {
		title string
		dim   catalog.Dimension
	}{
		{"Categories", catalog.DimensionCategory},
		{"Brands", catalog.DimensionBrand},
		{"Badges", catalog.DimensionBadge},
		{"Features", catalog.DimensionFeature},
	}

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(titleStyle.Render(g.title))
		b.WriteString("\n")
		for _, v := range fc.Sorted(g.dim) {
			b.WriteString("  ")
			b.WriteString(v.Value)
			b.WriteString(" ")
			b.WriteString(badgeStyle.Render("(" + strconv.Itoa(v.Count) + ")"))
			b.WriteString("\n")
		}
	}
	return b.String()
}
