package main

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
)

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
	preview lipgloss.Style
	err     lipgloss.Style
}

// newStyles builds the report styles for w. Without color the styles still
// lay out the report but emit no escape sequences.
func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		label:   r.NewStyle().Foreground(lipgloss.Color("#666666")).Width(12),
		value:   r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		border:  r.NewStyle().Foreground(lipgloss.Color("#666666")),
		preview: r.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		err:     r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
}

func writeText(w io.Writer, st styles, r *Report) {
	fmt.Fprintln(w, st.title.Render(r.Path))

	field := func(name, value string) {
		fmt.Fprintln(w, st.label.Render(name)+st.value.Render(value))
	}
	field("size", fmt.Sprintf("%dx%d", r.Width, r.Height))
	field("set bits", strconv.Itoa(r.SetBits))
	field("shapes", strconv.Itoa(r.Shapes))
	field("largest", strconv.Itoa(r.Largest))
	field("centroid", formatPoint(r.Centroid))
	field("angle", strconv.FormatFloat(r.Angle, 'f', 2, 64))
	if r.Axes != nil {
		field("axes", fmt.Sprintf("%.2f x %.2f, eccentricity %.3f",
			r.Axes.Major, r.Axes.Minor, r.Axes.Eccentricity))
	}
	field("outline", fmt.Sprintf("%d points", len(r.Outline)))

	if len(r.Components) > 0 {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(st.border).
			Headers("#", "bounds", "pixels", "centroid", "angle").
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return st.header
				}
				return st.cell
			})
		for i, c := range r.Components {
			t.Row(
				strconv.Itoa(i+1),
				formatRect(c.Bounds),
				strconv.Itoa(c.Pixels),
				formatPoint(c.Centroid),
				strconv.FormatFloat(c.Angle, 'f', 2, 64),
			)
		}
		fmt.Fprintln(w, t.Render())
	}

	if r.Preview != "" {
		fmt.Fprintln(w, st.preview.Render(strings.TrimSuffix(r.Preview, "\n")))
	}
	fmt.Fprintln(w)
}

func writeError(w io.Writer, st styles, path string, err error) {
	fmt.Fprintln(w, st.title.Render(path))
	fmt.Fprintln(w, st.err.Render("error: "+err.Error()))
	fmt.Fprintln(w)
}

// jsonEntry is one element of the JSON output array.
type jsonEntry struct {
	*Report
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
}

func writeJSON(w io.Writer, paths []string, reports []*Report, errs []error) error {
	entries := make([]jsonEntry, len(paths))
	for i, p := range paths {
		entries[i] = jsonEntry{Report: reports[i], Path: p}
		if errs[i] != nil {
			entries[i].Error = errs[i].Error()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func formatPoint(p image.Point) string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func formatRect(r image.Rectangle) string {
	return fmt.Sprintf("%d,%d %dx%d", r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}
