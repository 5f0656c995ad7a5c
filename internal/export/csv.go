// Package export renders fuel records as CSV for download. Fields with
// embedded commas or quotes are quoted per RFC 4180.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/harborops/portfleet/internal/models"
)

// fuelHeader is the fixed column order of the fuel ledger export.
var fuelHeader = []string{"Date", "Machine ID", "Fuel Type", "Quantity", "Unit", "Operator", "Location", "Notes"}

// WriteFuelCSV writes records to w as CSV, header first, timestamps as full
// ISO-8601.
func WriteFuelCSV(w io.Writer, records []models.FuelRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fuelHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.Format(time.RFC3339),
			r.EquipmentID,
			string(r.FuelType),
			strconv.FormatFloat(r.Quantity, 'f', -1, 64),
			string(r.Unit),
			r.Operator,
			r.Location,
			r.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FuelExportFilename names a download after the moment it was produced.
func FuelExportFilename(now time.Time) string {
	return fmt.Sprintf("fuel-records-%s.csv", now.Format(time.RFC3339))
}
