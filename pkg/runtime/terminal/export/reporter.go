package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/invoice-atlas/pkg/models/domain"
)

type TableConfig struct {
	KindWidth        int
	SeverityWidth    int
	SubjectWidth     int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		KindWidth:        20,
		SeverityWidth:    8,
		SubjectWidth:     28,
		DescriptionWidth: 72,
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

func (r *Reporter) Handle(report domain.DiscrepancyReport) error {
	funcMap := template.FuncMap{
		"severity": func(s domain.Severity) string {
			switch s {
			case domain.SeverityHigh:
				return "high"
			case domain.SeverityMedium:
				return "medium"
			default:
				return "low"
			}
		},
		"formatRow": func(kind, severity, subject, desc string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s |",
				r.config.KindWidth, kind,
				r.config.SeverityWidth, severity,
				r.config.SubjectWidth, truncate(subject, r.config.SubjectWidth),
				r.config.DescriptionWidth, truncate(desc, r.config.DescriptionWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", r.config.KindWidth+2),
				strings.Repeat("-", r.config.SeverityWidth+2),
				strings.Repeat("-", r.config.SubjectWidth+2),
				strings.Repeat("-", r.config.DescriptionWidth+2))
		},
	}

	tmpl := `
Discrepancy Report {{.AuditID}} ({{.CreatedAt.Format "2006-01-02 15:04:05"}} UTC)

Labor entries: {{.Summary.LaborEntries}}    Material entries: {{.Summary.MaterialEntries}}
Total discrepancies: {{.Summary.TotalDiscrepancies}}
Identified savings: ${{printf "%.2f" .Summary.TotalSavings}}
Charged labor cost: ${{printf "%.2f" .Summary.TotalLaborCost}} (expected ${{printf "%.2f" .Summary.ExpectedLaborCost}})
{{if .Flags}}
{{separator}}
{{formatRow "Kind" "Severity" "Subject" "Description"}}
{{separator}}
{{range .Flags}}{{formatRow (printf "%s" .Kind) (severity .Severity) .Subject .Description}}
{{end}}{{separator}}
{{else}}
No discrepancies found.
{{end}}{{if .Issues}}
Excluded entries:
{{range .Issues}}  - {{.Subject}}: {{.Reason}}
{{end}}{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(r.writer, report)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
