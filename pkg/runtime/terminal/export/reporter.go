package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/cri-tools/study-atlas/pkg/models/domain"
)

type TableConfig struct {
	LabelWidth int
	FileWidth  int
	CountWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth: 12,
		FileWidth:  28,
		CountWidth: 9,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(label, file, records, malformed, columns interface{}) string {
			return fmt.Sprintf("| %-*v | %-*v | %-*v | %-*v | %-*v |",
				c.config.LabelWidth, label,
				c.config.FileWidth, file,
				c.config.CountWidth, records,
				c.config.CountWidth, malformed,
				c.config.CountWidth, columns)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.LabelWidth+2),
				strings.Repeat("-", c.config.FileWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.CountWidth+2))
		},
		"join": strings.Join,
	}
}

func (c *Reporter) Handle(summary *domain.RunSummary) error {
	tmpl := `
Aggregation Run {{.RunID}}

Data Dir: {{.DataDir}}
{{if .OutputPath}}Output: {{.OutputPath}}
{{end}}Unique Patients: {{.UniquePatients}}

{{separator}}
{{formatRow "Timepoint" "File" "Records" "Malformed" "Columns"}}
{{separator}}
{{range .Waves}}{{formatRow .Timepoint .File .Records .Malformed .Columns}}
{{end}}{{separator}}
{{if .Skipped}}
Skipped files:
{{range .Skipped}}  - {{.File}} ({{.Timepoint}}): {{.Reason}}
{{end}}{{end}}`

	t, err := template.New("run").Funcs(c.funcMap()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, summary)
}

func (c *Reporter) HandleScan(report *domain.ScanReport) error {
	tmpl := `
Data Scan

Data Dir: {{.DataDir}}
Unique Patients: {{.UniquePatients}}

{{separator}}
{{formatRow "Timepoint" "File" "Records" "Malformed" "Columns"}}
{{separator}}
{{range .Waves}}{{formatRow .Timepoint .File .Records .Malformed .Columns}}
{{end}}{{separator}}
{{range .Waves}}{{if or .OpioidColumns .TreatmentColumns}}
{{.Timepoint}}:
{{if .OpioidColumns}}  opioid use columns: {{join .OpioidColumns ", "}}
{{end}}{{if .TreatmentColumns}}  treatment columns: {{join .TreatmentColumns ", "}}
{{end}}{{end}}{{end}}{{if .Skipped}}
Skipped files:
{{range .Skipped}}  - {{.File}} ({{.Timepoint}}): {{.Reason}}
{{end}}{{end}}`

	t, err := template.New("scan").Funcs(c.funcMap()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
