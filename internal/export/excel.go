// Package export renders filtered gate-log query results as xlsx
// workbooks: one header row, one row per record, fixed column order.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gatelog/internal/entity"
)

var visitHeaders = []any{
	"ID", "Arrival date", "Expected time", "Host", "Object", "Guest",
	"Phone", "Document number", "Plate", "Persons", "Entry time",
	"Exit time", "Note",
}

var truckHeaders = []any{
	"ID", "Driver", "Driver document", "Driver phone", "Codriver",
	"Codriver document", "Plate", "Destination", "Arrival date",
	"Arrival time", "Departure",
}

func VisitsWorkbook(visits []entity.Visit) (*excelize.File, error) {
	return workbook("Visits", visitHeaders, len(visits), func(i int) []any {
		v := visits[i]
		return []any{
			v.ID, v.ArrivalDate, strOrEmpty(v.ExpectedTime), v.HostEmployee,
			v.ObjectName, v.GuestName, strOrEmpty(v.Phone),
			strOrEmpty(v.DocumentNumber), strOrEmpty(v.VehiclePlate),
			intOrEmpty(v.PersonsCount), strOrEmpty(v.EntryTime),
			strOrEmpty(v.ExitTime), strOrEmpty(v.Note),
		}
	})
}

func TrucksWorkbook(trucks []entity.Truck) (*excelize.File, error) {
	return workbook("Trucks", truckHeaders, len(trucks), func(i int) []any {
		t := trucks[i]
		return []any{
			t.ID, t.DriverName, strOrEmpty(t.DriverDocument),
			strOrEmpty(t.DriverPhone), strOrEmpty(t.CodriverName),
			strOrEmpty(t.CodriverDocument), t.Plate, t.Destination,
			t.ArrivalDate, t.ArrivalTime, strOrEmpty(t.DepartureDatetime),
		}
	})
}

func workbook(sheet string, headers []any, rows int, row func(int) []any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}
	for i := 0; i < rows; i++ {
		cells := row(i)
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func strOrEmpty(s *string) any {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(i *int) any {
	if i == nil {
		return ""
	}
	return *i
}
