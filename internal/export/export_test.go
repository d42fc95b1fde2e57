package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/manageros/internal/report"
)

func sampleReport() report.Report {
	return report.Report{
		GeneratedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		Blocks: []report.InitiativeBlock{
			{
				InitiativeID: "i1",
				Title:        "Platform Migration",
				TeamName:     "Ops",
				OwnerName:    "Alice",
				Progress:     67,
				Rows: []report.Row{
					{
						ActivityTitle: "Cutover plan",
						StatusLabel:   "Completed",
						Message:       "dry run passed",
						Timestamp:     "2026-03-15 09:30",
						EndDate:       "2026-03-20",
						Severity:      report.SeverityGreen,
					},
					{
						ActivityTitle: "DNS switch",
						StatusLabel:   "Blocked",
						Message:       report.PlaceholderMessage,
						Timestamp:     report.PlaceholderDate,
						EndDate:       report.PlaceholderDate,
						Severity:      report.SeverityRed,
					},
				},
			},
			{
				InitiativeID: "i2",
				Title:        "Hiring",
				TeamName:     "Personal",
				OwnerName:    "Bob",
				Progress:     0,
			},
		},
	}
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := ToCSV(sampleReport(), path); err != nil {
		t.Fatalf("ToCSV() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	// header + 2 rows + 1 placeholder line for the empty block
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[0][0] != "Initiative" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][6] != "dry run passed" || records[1][3] != "67%" {
		t.Errorf("unexpected data row: %v", records[1])
	}
	if records[3][6] != report.NoUpdatesLine {
		t.Errorf("empty block should carry placeholder line, got %v", records[3])
	}
}

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	if err := ToJSON(sampleReport(), path); err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var parsed jsonExport
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("parse exported json: %v", err)
	}
	if len(parsed.Initiatives) != 2 {
		t.Fatalf("expected 2 initiatives, got %d", len(parsed.Initiatives))
	}
	if parsed.Initiatives[0].Progress != 67 {
		t.Errorf("progress = %d, want 67", parsed.Initiatives[0].Progress)
	}
	if len(parsed.Initiatives[0].Rows) != 2 {
		t.Errorf("expected 2 update rows, got %d", len(parsed.Initiatives[0].Rows))
	}
	if len(parsed.Initiatives[1].Rows) != 0 {
		t.Errorf("empty block should export an empty updates list")
	}
	if !strings.Contains(string(data), "\"generated_at\": \"2026-03-15T12:00:00Z\"") {
		t.Errorf("generated_at missing or wrong: %s", data)
	}
}
