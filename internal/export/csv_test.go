package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harborops/portfleet/internal/models"
)

func TestWriteFuelCSV(t *testing.T) {
	ts := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	records := []models.FuelRecord{
		{
			Timestamp:   ts,
			EquipmentID: "EQ000001",
			FuelType:    models.FuelDiesel,
			Quantity:    120.5,
			Unit:        models.UnitLiters,
			Operator:    "Maria Soto",
			Location:    "North Wharf",
			Notes:       "topped off",
		},
	}

	var buf bytes.Buffer
	assert.NoError(t, WriteFuelCSV(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "Date,Machine ID,Fuel Type,Quantity,Unit,Operator,Location,Notes", lines[0])
	assert.Equal(t, "2024-06-01T08:30:00Z,EQ000001,DIESEL,120.5,LITERS,Maria Soto,North Wharf,topped off", lines[1])
}

func TestWriteFuelCSV_QuotesEmbeddedDelimiters(t *testing.T) {
	records := []models.FuelRecord{
		{
			Timestamp:   time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC),
			EquipmentID: "EQ000002",
			FuelType:    models.FuelGas,
			Quantity:    40,
			Unit:        models.UnitGallons,
			Operator:    `Jim "Big Rig" Ortega`,
			Location:    "Pier 4, Gate B",
			Notes:       "spill reported,\ncleaned",
		},
	}

	var buf bytes.Buffer
	assert.NoError(t, WriteFuelCSV(&buf, records))

	// The output must reparse to the original fields despite the embedded
	// comma, quote and newline.
	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, `Jim "Big Rig" Ortega`, rows[1][5])
	assert.Equal(t, "Pier 4, Gate B", rows[1][6])
	assert.Equal(t, "spill reported,\ncleaned", rows[1][7])
}

func TestWriteFuelCSV_EmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteFuelCSV(&buf, nil))
	assert.Equal(t, "Date,Machine ID,Fuel Type,Quantity,Unit,Operator,Location,Notes\n", buf.String())
}

func TestFuelExportFilename(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, "fuel-records-2024-06-01T08:30:00Z.csv", FuelExportFilename(now))
}
