package planner

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
)

const defaultReportTemplate = `# {{.Title}}

- Plan: {{.ID}}
- Generated: {{.CreatedAt.Format "January 2, 2006"}}
{{- if .Manager}}
- Project manager: {{.Manager}}
{{- end}}
- Team size: {{.TeamSize}}{{if .Team}} (PM + {{len .Team}} members: {{join .Team ", "}}){{end}}
- Total tasks: {{.TotalTasks}} ({{.TasksWithSubtasks}} with subtasks)
- Critical tasks: {{.CriticalTasks}}
- Project duration: {{.Duration}} days{{if .ReadableDuration}} ({{.ReadableDuration}}){{end}}

## Critical path

{{join .CriticalPath " → "}}

## Schedule

| Task | Title | Duration | Predecessors | Responsible | ES | EF | LS | LF | MT | ML |
|------|-------|----------|--------------|-------------|----|----|----|----|----|----|
{{- range .OrderedTasks}}
| {{.TaskID}}{{if .IsCritical}} ⚡{{end}} | {{or .Title "-"}} | {{if .IsDummy}}0 (dummy){{else}}{{.Duration}}{{end}} | {{if .Predecessors}}{{join .Predecessors ", "}}{{else}}Start{{end}} | {{or .Responsible "Unassigned"}} | {{.ES}} | {{.EF}} | {{.LS}} | {{.LF}} | {{.MT}} | {{.ML}} |
{{- end}}

## Waves
{{range .Waves}}
### Wave {{inc .Index}} (day {{.Start}})
{{range .Tasks}}
- {{.TaskID}}{{if .Title}}: {{.Title}}{{end}}{{if .IsCritical}} (critical){{end}}
{{- range .Subtasks}}
  - {{.}}
{{- end}}
{{- end}}
{{end}}
Durations are in days. Dummy tasks have zero duration.
`

var reportFuncs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}

// RenderReport renders a markdown report for plan using either a custom
// template file or the default.
func RenderReport(plan *ProjectPlan, templatePath string) (string, error) {
	tmplStr := defaultReportTemplate
	if templatePath != "" {
		content, err := os.ReadFile(templatePath)
		if err != nil {
			return "", fmt.Errorf("read report template: %w", err)
		}
		tmplStr = string(content)
	}

	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, plan); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}
