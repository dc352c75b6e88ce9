package meals

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ResidentRow is the roster data printed in a report line. Callers sort rows
// by room then name before exporting; the exporter keeps their order.
type ResidentRow struct {
	ID        int64  `json:"id"`
	Room      string `json:"room"`
	Name      string `json:"name"`
	Admission string `json:"admission"`
}

// DaysEaten is the number of days of the month the resident did not skip
// entirely.
func DaysEaten(matrix OptOutMatrix, residentID int64, daysInMonth int) int {
	return daysInMonth - matrix.OptOutDays(residentID)
}

// WriteCSV writes the monthly report. The summary form has the columns
// Room,Name,Admission No,Days; the detailed form appends one column per day
// holding 1 when the resident ate that day and 0 when they skipped it.
// Fields containing commas or quotes are quoted.
func WriteCSV(w io.Writer, residents []ResidentRow, matrix OptOutMatrix, daysInMonth int, detailed bool) error {
	cw := csv.NewWriter(w)

	header := []string{"Room", "Name", "Admission No", "Days"}
	if detailed {
		for day := 1; day <= daysInMonth; day++ {
			header = append(header, strconv.Itoa(day))
		}
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range residents {
		record := []string{
			r.Room,
			r.Name,
			r.Admission,
			strconv.Itoa(DaysEaten(matrix, r.ID, daysInMonth)),
		}
		if detailed {
			for day := 1; day <= daysInMonth; day++ {
				if matrix.OptedOut(r.ID, day) {
					record = append(record, "0")
				} else {
					record = append(record, "1")
				}
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row for %s: %w", r.Admission, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SummaryCSV renders the summary report as a string.
func SummaryCSV(residents []ResidentRow, matrix OptOutMatrix, daysInMonth int) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, residents, matrix, daysInMonth, false); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DetailedCSV renders the per-day report as a string.
func DetailedCSV(residents []ResidentRow, matrix OptOutMatrix, daysInMonth int) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, residents, matrix, daysInMonth, true); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExportFileName names a report download, e.g. "bh1-2024-march.csv".
func ExportFileName(hostelID string, info MonthInfo) string {
	return fmt.Sprintf("%s-%d-%s.csv", hostelID, info.Year, strings.ToLower(info.Name))
}
