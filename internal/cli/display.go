package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nmr-tools/xcpd-launch/internal/launcher"
)

// Styles contains the lipgloss styles for launcher output.
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Value lipgloss.Style
	Cmd   lipgloss.Style
	OK    lipgloss.Style
	Fail  lipgloss.Style
}

// DefaultStyles returns the default output styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Cmd:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		OK:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// PlainStyles returns styles with no colors or attributes, for batch
// logs and redirected output.
func PlainStyles() Styles {
	return Styles{}
}

// SummaryRenderer prints the resolved configuration and final command
// line before execution.
type SummaryRenderer struct {
	out    io.Writer
	styles Styles
}

// NewSummaryRenderer creates a renderer; useColor should be false
// when the destination is not a terminal.
func NewSummaryRenderer(out io.Writer, useColor bool) *SummaryRenderer {
	styles := PlainStyles()
	if useColor {
		styles = DefaultStyles()
	}
	return &SummaryRenderer{out: out, styles: styles}
}

// Render writes the launch summary for a resolved plan.
func (r *SummaryRenderer) Render(plan *launcher.Plan) {
	s := r.styles
	row := func(label, value string) {
		fmt.Fprintf(r.out, "  %s %s\n",
			s.Label.Render(fmt.Sprintf("%-14s", label)),
			s.Value.Render(value))
	}

	fmt.Fprintln(r.out, s.Title.Render("xcpd-launch"))
	row("job", plan.Job.ID)
	row("processors", fmt.Sprintf("%d", plan.Job.NumProc))
	row("image", plan.ImagePath)
	row("work dir", plan.WorkdirPath)
	for i, b := range plan.Spec.Binds {
		label := ""
		if i == 0 {
			label = "binds"
		}
		row(label, b.String())
	}
	fmt.Fprintf(r.out, "  %s %s\n",
		s.Label.Render(fmt.Sprintf("%-14s", "command")),
		s.Cmd.Render(strings.Join(plan.CommandLine(), " ")))
}

// checkMark renders a pass/fail symbol for doctor output.
func (r *SummaryRenderer) checkMark(ok bool) string {
	if ok {
		return r.styles.OK.Render("✓")
	}
	return r.styles.Fail.Render("✗")
}
