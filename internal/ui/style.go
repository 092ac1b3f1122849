package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// SetColor turns ANSI colors on or off for every styled string.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// PrintLogo renders the colored scrumdealer logo to stderr.
func PrintLogo() {
	FprintLogo(os.Stderr)
}

// FprintLogo renders the logo to w.
func FprintLogo(w io.Writer) {
	frame := color.New(color.FgCyan)
	bars := color.New(color.FgYellow)
	crit := color.New(color.FgRed, color.Bold)
	brand := color.New(color.Bold, color.FgMagenta)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +----------------------------------+")
	bars.Fprintln(w, "   |  ====                            |")
	crit.Fprintln(w, "   |  ####======                      |")
	bars.Fprintln(w, "   |      ====  ======                |")
	crit.Fprintln(w, "   |            ##########====        |")
	frame.Fprintln(w, "   |==================================|")
	brand.Fprintln(w, "   |   S C R U M   D E A L E R        |")
	frame.Fprintln(w, "   +----------------------------------+")
	tag.Fprintf(w, "   %s Critical path scheduling\n", Dim("⏱"))
	fmt.Fprintln(w)
}

// taskColors is a palette of distinct bold colors for differentiating sources.
var taskColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// taskColorIndex hashes a name to a palette index.
func taskColorIndex(name string) int {
	var h uint32
	for _, c := range name {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(taskColors)))
}

// Prefix returns a colored [name] prefix string. The same name always gets
// the same color, so output from several task files stays readable.
func Prefix(name string) string {
	c := taskColors[taskColorIndex(name)]
	return Dim("[") + c(name) + Dim("]")
}

// StatusIcon returns a colored icon for a check or scheduling outcome.
func StatusIcon(status string) string {
	switch status {
	case "ok":
		return Green("✓")
	case "failed":
		return Red("✗")
	case "skipped":
		return Yellow("⊘")
	default:
		return Dim("◌")
	}
}

// CriticalMark returns the marker shown next to critical tasks.
func CriticalMark(critical bool) string {
	if critical {
		return BoldYellow("⚡")
	}
	return " "
}

// Float colors a float value: zero is critical, small slack is a warning.
func Float(v int) string {
	s := fmt.Sprintf("%d", v)
	switch {
	case v == 0:
		return BoldRed(s)
	case v <= 2:
		return Yellow(s)
	default:
		return Green(s)
	}
}
