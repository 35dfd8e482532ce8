// Package export renders a task view as JSON, CSV, or a PDF report.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/nibzard/studyplan/internal/query"
	"github.com/nibzard/studyplan/internal/utils"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat parses a format name. Blank means json.
func ParseFormat(s string) (Format, error) {
	switch f := Format(utils.NormalizeName(s)); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json|csv|pdf)", s)
	}
}

// Extension returns the file extension for f, with the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// CSVHeader is the first row of a CSV export.
var CSVHeader = []string{"id", "subject", "topic", "date", "priority", "completed"}

// Export encodes vm in format.
func Export(vm query.ViewModel, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		if vm.Entries == nil {
			vm.Entries = []query.Entry{}
		}
		data, err := json.MarshalIndent(vm, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatCSV:
		return exportCSV(vm)
	case FormatPDF:
		return exportPDF(vm)
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}

func exportCSV(vm query.ViewModel) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, e := range vm.Entries {
		row := []string{
			strconv.FormatInt(e.ID, 10),
			e.SubjectBadge,
			e.Topic,
			e.Date,
			string(e.Priority),
			strconv.FormatBool(e.Completed),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func exportPDF(vm query.ViewModel) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Study plan", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Study Plan Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	summary := fmt.Sprintf("Filter: %s   Total: %d   Completed: %d   Progress: %d%%   Today's subject: %s",
		vm.Filter, vm.Stats.Total, vm.Stats.Completed, vm.Stats.CompletionRate, vm.TodaySubject)
	pdf.MultiCell(0, 6, tr(summary), "0", "L", false)
	pdf.Ln(4)

	if vm.IsEmpty() {
		pdf.MultiCell(0, 6, tr(query.EmptyMessage), "0", "L", false)
	}
	for _, e := range vm.Entries {
		mark := "[ ]"
		if e.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s  %s  (%s, %s priority)", mark, e.FormattedDate, e.Topic, e.SubjectBadge, e.PriorityBadge)
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
