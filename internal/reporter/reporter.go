package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alammarimalak/scrumDealer/internal/cpm"
	"github.com/alammarimalak/scrumDealer/internal/planner"
	"github.com/alammarimalak/scrumDealer/internal/ui"
)

// Reporter renders a scheduled project for the terminal and for export.
type Reporter struct {
	Plan *planner.ProjectPlan
}

// New creates a new Reporter.
func New(plan *planner.ProjectPlan) *Reporter {
	return &Reporter{Plan: plan}
}

// PrintSummary writes the project header: counts, team and duration.
func (r *Reporter) PrintSummary(w io.Writer) {
	p := r.Plan

	fmt.Fprintf(w, "🎯 %s\n", ui.BoldCyan(p.Title))
	fmt.Fprintln(w, ui.Cyan(strings.Repeat("═", len([]rune(p.Title))+3)))
	if p.Manager != "" {
		fmt.Fprintf(w, "Manager:   %s\n", ui.Bold(p.Manager))
	}
	team := fmt.Sprintf("%d", p.TeamSize)
	if len(p.Team) > 0 {
		team += ui.Dim(fmt.Sprintf(" (PM + %d members: %s)", len(p.Team), strings.Join(p.Team, ", ")))
	}
	fmt.Fprintf(w, "Team:      %s\n", team)
	fmt.Fprintf(w, "Tasks:     %s total, %s with subtasks, %s critical\n",
		ui.Bold(p.TotalTasks), ui.Bold(p.TasksWithSubtasks), ui.Bold(p.CriticalTasks))

	duration := fmt.Sprintf("%d days", p.Duration)
	if p.ReadableDuration != "" {
		duration += ui.Dim(" (" + p.ReadableDuration + ")")
	}
	fmt.Fprintf(w, "Duration:  %s\n", duration)
	fmt.Fprintf(w, "Waves:     %s\n\n", ui.Bold(p.TotalWaves))
}

// PrintTable writes the results table in topological order. Critical rows
// are highlighted.
func (r *Reporter) PrintTable(w io.Writer) {
	fmt.Fprintf(w, "  %s %-8s %-32s %5s  %-12s %4s %4s %4s %4s %4s %4s\n",
		" ", "Task", "Title", "Dur", "Responsible", "ES", "EF", "LS", "LF", "MT", "ML")
	fmt.Fprintln(w, ui.Dim("  "+strings.Repeat("─", 96)))

	for _, t := range r.Plan.OrderedTasks() {
		r.printRow(w, t)
	}
	fmt.Fprintln(w)
}

func (r *Reporter) printRow(w io.Writer, t *planner.PlannedTask) {
	id := fmt.Sprintf("%-8s", t.TaskID)
	if t.IsCritical {
		id = ui.BoldYellow(id)
	} else {
		id = ui.BoldMagenta(id)
	}

	title := t.Title
	if title == "" {
		title = "-"
	}
	title = truncate(title, 32, "...")

	dur := fmt.Sprintf("%5d", t.Duration)
	if t.IsDummy {
		dur = ui.Dim(fmt.Sprintf("%5s", "dummy"))
	}

	resp := t.Responsible
	if resp == "" {
		resp = "-"
	}
	resp = truncate(resp, 12, "…")

	fmt.Fprintf(w, "  %s %s %-32s %s  %-12s %4d %4d %4d %4d %s %s\n",
		ui.CriticalMark(t.IsCritical), id, title, dur, resp,
		t.ES, t.EF, t.LS, t.LF,
		pad(ui.Float(t.MT), t.MT), pad(ui.Float(t.ML), t.ML))
}

// truncate shortens s to at most limit runes, ending with suffix when cut.
func truncate(s string, limit int, suffix string) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-len([]rune(suffix))]) + suffix
}

// pad right-aligns an already colored number in a 4-wide column.
func pad(s string, v int) string {
	width := len(fmt.Sprintf("%d", v))
	if width >= 4 {
		return s
	}
	return strings.Repeat(" ", 4-width) + s
}

// PrintCriticalPath writes the critical path line.
func (r *Reporter) PrintCriticalPath(w io.Writer) {
	p := r.Plan
	if len(p.CriticalPath) == 0 {
		fmt.Fprintf(w, "⚡ Critical path: %s\n", ui.Dim("none"))
		return
	}
	fmt.Fprintf(w, "⚡ Critical path: %s (%d tasks, %d days)\n",
		ui.BoldYellow(strings.Join(p.CriticalPath, " → ")), len(p.CriticalPath), p.Duration)
}

// PrintASCII writes the dependency graph wave by wave.
func (r *Reporter) PrintASCII(w io.Writer) {
	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Task Dependency Graph"))
	fmt.Fprintln(w, ui.Cyan("═══════════════════════"))
	fmt.Fprintln(w)

	for _, wave := range r.Plan.Waves {
		fmt.Fprintf(w, "%s 🌊 Wave %d %s %s\n", ui.Cyan("──"), wave.Index+1,
			ui.Dim(fmt.Sprintf("(day %d)", wave.Start)), ui.Cyan("──────────────────────────"))
		for _, t := range wave.Tasks {
			label := t.Title
			if t.IsDummy {
				label = ui.Dim("(dummy)")
			}
			fmt.Fprintf(w, "  %s [%s] %s %s\n", ui.CriticalMark(t.IsCritical), ui.BoldMagenta(t.TaskID), label,
				ui.Dim(fmt.Sprintf("%d→%d", t.ES, t.EF)))

			for _, succ := range r.Plan.Deps.Successors[t.TaskID] {
				fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), ui.Magenta(succ))
			}
		}
		fmt.Fprintln(w)
	}
}

// PrintDOT writes the network as a Graphviz digraph. Critical tasks and the
// zero-slack edges between them are drawn in red; dummies are dashed.
func (r *Reporter) PrintDOT(w io.Writer) {
	p := r.Plan
	fmt.Fprintln(w, "digraph scrumdealer {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	for _, t := range p.OrderedTasks() {
		label := t.TaskID
		if t.Title != "" {
			label += `\n` + escapeDOT(t.Title)
		}
		label += fmt.Sprintf(`\nES %d  EF %d\nLS %d  LF %d`, t.ES, t.EF, t.LS, t.LF)

		attrs := fmt.Sprintf(`label="%s"`, label)
		switch {
		case t.IsCritical:
			attrs += `, style="rounded,bold", color=red`
		case t.IsDummy:
			attrs += `, style="rounded,dashed", color=gray`
		}
		fmt.Fprintf(w, "  %q [%s];\n", t.TaskID, attrs)
	}

	fmt.Fprintln(w)

	for _, t := range p.OrderedTasks() {
		for _, pred := range t.Predecessors {
			from := p.Tasks[pred]
			style := ""
			switch {
			case from != nil && from.IsCritical && t.IsCritical && from.EF == t.ES:
				style = ` [color=red, penwidth=2]`
			case t.IsDummy || (from != nil && from.IsDummy):
				style = ` [style=dashed]`
			}
			fmt.Fprintf(w, "  %q -> %q%s;\n", pred, t.TaskID, style)
		}
	}

	fmt.Fprintln(w, "}")
}

func escapeDOT(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// JSON returns the plan as indented JSON.
func (r *Reporter) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Plan, "", "  ")
}

// PrintErrors writes every message of a failed scheduling attempt.
func PrintErrors(w io.Writer, source string, err error) {
	header := "Scheduling failed"
	if source != "" {
		header = source
	}
	fmt.Fprintf(w, "%s %s %s\n", ui.StatusIcon("failed"), ui.BoldRed(header), ui.Dim("("+cpm.KindName(err)+")"))
	for _, msg := range cpm.Messages(err) {
		for _, line := range strings.Split(msg, "\n") {
			fmt.Fprintf(w, "    %s %s\n", ui.Red("•"), line)
		}
	}
}
