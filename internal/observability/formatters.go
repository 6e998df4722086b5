// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/europass-builder/internal/europass"
	"github.com/jonathan/europass-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResumeSummary outputs a human-readable summary of a canonical record.
func (p *Printer) PrintResumeSummary(r *types.Resume) {
	var sb strings.Builder
	sb.WriteString(r.FullName())
	if r.Profile.Title != "" {
		sb.WriteString(" · " + r.Profile.Title)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Jobs: %d  Studies: %d  Languages: %d\n",
		len(r.Jobs), len(r.Studies), len(r.Languages))
	fmt.Fprintf(&sb, "Skills: %d hard, %d soft", len(r.HardSkills), len(r.SoftSkills))
	if r.Photo != nil {
		fmt.Fprintf(&sb, "\nPhoto: %s, %d bytes", r.Photo.MIME, len(r.Photo.Data))
	}
	if r.RawXML != "" {
		sb.WriteString("\nRetains an imported document")
	}

	p.printBox("Resume", sb.String())
	p.printJobs(r.Jobs)
}

func (p *Printer) printJobs(jobs []types.Job) {
	if len(jobs) == 0 {
		return
	}

	var sb strings.Builder
	shown := 0
	for _, job := range jobs {
		for _, role := range job.Roles {
			if shown == maxItemsToShow {
				fmt.Fprintf(&sb, "... and more")
				p.printBox("Experience", sb.String())
				return
			}
			end := role.FinishDate
			if role.Current() {
				end = "now"
			}
			fmt.Fprintf(&sb, "%s at %s (%s - %s)\n", role.Title, job.Organization.Name, role.StartDate, end)
			shown++
		}
	}
	p.printBox("Experience", strings.TrimRight(sb.String(), "\n"))
}

// PrintValidationResult outputs a validation result with its findings.
func (p *Printer) PrintValidationResult(result europass.Result) {
	title := "Validation: passed"
	if !result.Valid {
		title = "Validation: FAILED"
	}

	var sb strings.Builder
	for _, e := range result.Errors {
		fmt.Fprintf(&sb, "error: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(&sb, "warning: %s\n", w)
	}
	if sb.Len() == 0 {
		sb.WriteString("no findings")
	}

	p.printBox(title, strings.TrimRight(sb.String(), "\n"))
}
