package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gatelog/internal/entity"
)

func reread(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	back, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer back.Close()

	rows, err := back.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestVisitsWorkbook(t *testing.T) {
	expected := "10:00"
	persons := 2
	visits := []entity.Visit{
		{
			ID: 7, ArrivalDate: "2025-01-06", ExpectedTime: &expected,
			HostEmployee: "Ana", ObjectName: "Warehouse", GuestName: "Guest",
			PersonsCount: &persons,
		},
		{ID: 8, ArrivalDate: "2025-01-08", HostEmployee: "Bojan", ObjectName: "Main building", GuestName: "Other"},
	}

	f, err := VisitsWorkbook(visits)
	require.NoError(t, err)

	rows := reread(t, f, "Visits")
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"ID", "Arrival date", "Expected time", "Host", "Object", "Guest",
		"Phone", "Document number", "Plate", "Persons", "Entry time",
		"Exit time", "Note",
	}, rows[0])

	assert.Equal(t, "7", rows[1][0])
	assert.Equal(t, "2025-01-06", rows[1][1])
	assert.Equal(t, "10:00", rows[1][2])
	assert.Equal(t, "2", rows[1][9])
	// Second record has no expected time; the cell stays empty.
	assert.Equal(t, "8", rows[2][0])
	assert.Equal(t, "", rows[2][2])
}

func TestTrucksWorkbook(t *testing.T) {
	departure := "2025-04-01 12:40:00"
	trucks := []entity.Truck{
		{
			ID: 3, DriverName: "Driver", Plate: "BG-123", Destination: "Ramp 1",
			ArrivalDate: "2025-04-01", ArrivalTime: "07:15",
			DepartureDatetime: &departure,
		},
	}

	f, err := TrucksWorkbook(trucks)
	require.NoError(t, err)

	rows := reread(t, f, "Trucks")
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"ID", "Driver", "Driver document", "Driver phone", "Codriver",
		"Codriver document", "Plate", "Destination", "Arrival date",
		"Arrival time", "Departure",
	}, rows[0])

	assert.Equal(t, "BG-123", rows[1][6])
	assert.Equal(t, "2025-04-01 12:40:00", rows[1][10])
}

func TestEmptyWorkbookHasHeaderOnly(t *testing.T) {
	f, err := VisitsWorkbook(nil)
	require.NoError(t, err)

	rows := reread(t, f, "Visits")
	assert.Len(t, rows, 1)
}
