package importer

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"

	"gatelog/internal/entity"
	"gatelog/internal/repository"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "lookups.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadLookupsColumnsAndDedup(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Employee", "", "Object", "", "Destination"},
		{"Ana", "", "Warehouse", "", "Ramp 1"},
		{"  Zoran  ", "", "Warehouse", "", "Ramp 2"},
		{"Ana", "", "", "", ""},
		{"", "", "Main building", "", ""},
	})

	lists, err := ReadLookups(path, "")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Ana", "Zoran"}, lists[entity.LookupEmployee])
	assert.ElementsMatch(t, []string{"Warehouse", "Main building"}, lists[entity.LookupObject])
	assert.ElementsMatch(t, []string{"Ramp 1", "Ramp 2"}, lists[entity.LookupDestination])
}

func TestRunReplacesStoredLists(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "import_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`CREATE TABLE lookups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		value TEXT NOT NULL
	)`)
	require.NoError(t, err)

	repo := repository.NewLookupRepository(db)
	require.NoError(t, repo.Add(ctx, entity.LookupEmployee, "Stale Name"))
	require.NoError(t, repo.Add(ctx, entity.LookupDestination, "Stale Ramp"))

	path := writeWorkbook(t, [][]any{
		{"Employee", "", "Object", "", "Destination"},
		{"Mika", "", "Warehouse", "", "Ramp 1"},
		{"Laza", "", "", "", ""},
	})

	summary, err := Run(ctx, repo, path, "")
	require.NoError(t, err)
	assert.Equal(t, Summary{Employees: 2, Objects: 1, Destinations: 1}, summary)

	employees, err := repo.Values(ctx, entity.LookupEmployee)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	// Stored sorted, stale rows gone.
	assert.Equal(t, "Laza", employees[0].Value)
	assert.Equal(t, "Mika", employees[1].Value)

	destinations, err := repo.Values(ctx, entity.LookupDestination)
	require.NoError(t, err)
	require.Len(t, destinations, 1)
	assert.Equal(t, "Ramp 1", destinations[0].Value)
}
