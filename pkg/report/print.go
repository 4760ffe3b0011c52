package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openswoop/pensum/pkg/catalog"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true).Padding(1, 0, 0, 0)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(22)
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

// PrintSummary renders the statistics of a run, the most shared courses and
// every non-fatal issue collected while loading.
func PrintSummary(w io.Writer, s Summary, top []catalog.CourseRecord, issues []error) {
	fmt.Fprintln(w, titleStyle.Render("Catalog summary"))
	line := func(label string, n int) {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), countStyle.Render(fmt.Sprint(n)))
	}
	line("Total subjects", s.Total)
	line("Shared subjects", s.Shared)
	line("Single program", s.Unique)
	line("With credits", s.WithCredits)
	line("With requirements", s.WithRequirements)
	line("With groups", s.WithGroups)
	line("Total groups", s.TotalGroups)

	if len(s.Distribution) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Subjects by number of programs"))
		for _, n := range s.ProgramCounts() {
			line(fmt.Sprintf("%d program(s)", n), s.Distribution[n])
		}
	}

	if len(top) > 0 {
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Top %d shared subjects", len(top))))
		for _, rec := range top {
			fmt.Fprintf(w, "• %s %s %s\n", rec.SKU, rec.Name,
				mutedStyle.Render(fmt.Sprintf("(%d programs)", len(rec.Programs))))
		}
	}

	PrintIssues(w, issues)
}

// PrintIssues lists non-fatal problems, if any.
func PrintIssues(w io.Writer, issues []error) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(w, warnStyle.Bold(true).Render(fmt.Sprintf("\n%d input(s) skipped or partially read:", len(issues))))
	for _, err := range issues {
		fmt.Fprintln(w, warnStyle.Render("  "+strings.TrimSpace(err.Error())))
	}
}
