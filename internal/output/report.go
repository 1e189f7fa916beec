// Package output renders human-readable reports for the CLI, separated from
// the validation logic that produces them.
package output

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Check is one validated item within a report section.
type Check struct {
	Item   string
	Status string
	OK     bool
}

// Section groups related checks under a title.
type Section struct {
	Title  string
	Checks []Check
}

// Add appends one check to the section.
func (s *Section) Add(item, status string, ok bool) {
	s.Checks = append(s.Checks, Check{Item: item, Status: status, OK: ok})
}

// Report is a checklist built by the validate command.
type Report struct {
	Sections []*Section
}

// Section appends and returns a new titled section.
func (r *Report) Section(title string) *Section {
	s := &Section{Title: title}
	r.Sections = append(r.Sections, s)
	return s
}

// OK reports whether every check in every section passed.
func (r *Report) OK() bool {
	for _, s := range r.Sections {
		for _, c := range s.Checks {
			if !c.OK {
				return false
			}
		}
	}
	return true
}

// Render writes the checklist as one table per section.
func (r *Report) Render(w io.Writer) {
	for _, s := range r.Sections {
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.SetTitle(text.FormatUpper.Apply(s.Title))
		tw.AppendHeader(table.Row{"CHECK", "STATUS", ""})
		for _, c := range s.Checks {
			marker := "ok"
			if !c.OK {
				marker = "(!)"
			}
			tw.AppendRow(table.Row{c.Item, c.Status, marker})
		}
		tw.SetStyle(table.StyleLight)
		tw.Render()
	}
}
