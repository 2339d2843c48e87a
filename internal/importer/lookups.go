// Package importer loads dropdown reference lists from a spreadsheet.
// Columns 1, 3 and 5 of the lookup sheet carry employee, object and
// destination values; the first row is a header. The three lists are
// replaced wholesale, so the workbook is the source of truth.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"gatelog/internal/entity"
	"gatelog/internal/repository"
)

type Summary struct {
	Employees    int
	Objects      int
	Destinations int
}

// columns maps 0-based sheet columns to lookup types.
var columns = map[int]entity.LookupType{
	0: entity.LookupEmployee,
	2: entity.LookupObject,
	4: entity.LookupDestination,
}

// ReadLookups extracts the deduplicated reference lists from one sheet.
// An empty sheet name means the first sheet in the workbook.
func ReadLookups(path, sheet string) (map[entity.LookupType][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	seen := map[entity.LookupType]map[string]bool{}
	lists := map[entity.LookupType][]string{}
	for _, typ := range columns {
		seen[typ] = map[string]bool{}
		lists[typ] = []string{}
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		for col, typ := range columns {
			if col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" || seen[typ][value] {
				continue
			}
			seen[typ][value] = true
			lists[typ] = append(lists[typ], value)
		}
	}

	return lists, nil
}

// Run reads the workbook and atomically replaces the stored lists.
func Run(ctx context.Context, repo *repository.LookupRepository, path, sheet string) (Summary, error) {
	lists, err := ReadLookups(path, sheet)
	if err != nil {
		return Summary{}, err
	}

	if err := repo.ReplaceAll(ctx, lists); err != nil {
		return Summary{}, fmt.Errorf("replace lookups: %w", err)
	}

	return Summary{
		Employees:    len(lists[entity.LookupEmployee]),
		Objects:      len(lists[entity.LookupObject]),
		Destinations: len(lists[entity.LookupDestination]),
	}, nil
}
