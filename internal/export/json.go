package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/manageros/internal/report"
)

type jsonExport struct {
	GeneratedAt string           `json:"generated_at"`
	Initiatives []jsonInitiative `json:"initiatives"`
}

type jsonInitiative struct {
	Title    string    `json:"title"`
	Team     string    `json:"team,omitempty"`
	Owner    string    `json:"owner,omitempty"`
	Progress int       `json:"progress"`
	Rows     []jsonRow `json:"updates"`
}

type jsonRow struct {
	Activity string `json:"activity"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	LoggedAt string `json:"logged_at"`
	EndDate  string `json:"end_date"`
	Severity string `json:"severity"`
}

func ToJSON(rpt report.Report, path string) error {
	export := jsonExport{
		GeneratedAt: rpt.GeneratedAt.UTC().Format(time.RFC3339),
	}

	for _, b := range rpt.Blocks {
		ji := jsonInitiative{
			Title:    b.Title,
			Team:     b.TeamName,
			Owner:    b.OwnerName,
			Progress: b.Progress,
			Rows:     []jsonRow{},
		}
		for _, r := range b.Rows {
			ji.Rows = append(ji.Rows, jsonRow{
				Activity: r.ActivityTitle,
				Status:   r.StatusLabel,
				Message:  r.Message,
				LoggedAt: r.Timestamp,
				EndDate:  r.EndDate,
				Severity: string(r.Severity),
			})
		}
		export.Initiatives = append(export.Initiatives, ji)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
