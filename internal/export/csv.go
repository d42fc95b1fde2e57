package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/manageros/internal/report"
)

func ToCSV(rpt report.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Initiative", "Team", "Owner", "Progress", "Activity", "Status", "Update", "Logged At", "End Date", "Severity"}); err != nil {
		return err
	}

	for _, b := range rpt.Blocks {
		if len(b.Rows) == 0 {
			row := []string{b.Title, b.TeamName, b.OwnerName, fmt.Sprintf("%d%%", b.Progress), "", "", report.NoUpdatesLine, "", "", ""}
			if err := w.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, r := range b.Rows {
			row := []string{
				b.Title,
				b.TeamName,
				b.OwnerName,
				fmt.Sprintf("%d%%", b.Progress),
				r.ActivityTitle,
				r.StatusLabel,
				r.Message,
				r.Timestamp,
				r.EndDate,
				string(r.Severity),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}
