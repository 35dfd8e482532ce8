package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nibzard/studyplan/internal/query"
	"github.com/nibzard/studyplan/internal/task"
)

func sampleView() query.ViewModel {
	return query.ViewModel{
		Filter: query.FilterAll,
		Entries: []query.Entry{
			{ID: 1, Topic: "Algebra", Date: "2024-06-10", FormattedDate: "Jun 10, 2024", SubjectBadge: "Math", PriorityBadge: "High", Priority: task.PriorityHigh},
			{ID: 2, Topic: "Essay, draft \"two\"", Date: "2024-06-11", FormattedDate: "Jun 11, 2024", SubjectBadge: "Literatura", PriorityBadge: "Low", Priority: task.PriorityLow, Completed: true},
		},
		Stats:        query.Stats{Total: 2, Completed: 1, CompletionRate: 50},
		TodaySubject: "Math",
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{" pdf ", FormatPDF, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	if FormatPDF.Extension() != ".pdf" {
		t.Errorf("Extension = %q", FormatPDF.Extension())
	}
}

func TestExportJSON(t *testing.T) {
	data, err := Export(sampleView(), FormatJSON)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var got struct {
		Filter string `json:"filter"`
		Tasks  []struct {
			ID    int64  `json:"id"`
			Topic string `json:"topic"`
		} `json:"tasks"`
		Stats query.Stats `json:"stats"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if got.Filter != "all" || len(got.Tasks) != 2 || got.Tasks[1].ID != 2 {
		t.Errorf("unexpected export: %+v", got)
	}
	if got.Stats.CompletionRate != 50 {
		t.Errorf("stats = %+v", got.Stats)
	}
}

func TestExportJSONEmpty(t *testing.T) {
	data, err := Export(query.ViewModel{Filter: query.FilterToday}, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"tasks": []`) {
		t.Errorf("empty export should have an empty task array: %s", data)
	}
}

func TestExportCSV(t *testing.T) {
	data, err := Export(sampleView(), FormatCSV)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("output is not csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(CSVHeader, ",") {
		t.Errorf("header = %v", rows[0])
	}
	want := []string{"2", "Literatura", "Essay, draft \"two\"", "2024-06-11", "low", "true"}
	if strings.Join(rows[2], "|") != strings.Join(want, "|") {
		t.Errorf("row = %v, want %v", rows[2], want)
	}
}

func TestExportPDF(t *testing.T) {
	for _, vm := range []query.ViewModel{sampleView(), {Filter: query.FilterAll, TodaySubject: query.NoSubject}} {
		data, err := Export(vm, FormatPDF)
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Errorf("output does not look like a pdf: %q", data[:min(len(data), 16)])
		}
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if _, err := Export(sampleView(), Format("xml")); err == nil {
		t.Fatal("expected error")
	}
}
