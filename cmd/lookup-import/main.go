package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gatelog/internal/config"
	"gatelog/internal/database"
	"gatelog/internal/importer"
	"gatelog/internal/repository"
)

func main() {
	path := flag.String("file", "", "path to the .xlsx workbook with the reference lists")
	sheet := flag.String("sheet", "Sheet1", "worksheet holding the lists")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: lookup-import -file lists.xlsx [-sheet Sheet1]")
		os.Exit(2)
	}

	cfg := config.Load()
	db, err := database.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "run migrations: %v\n", err)
		os.Exit(1)
	}

	lookups := repository.NewLookupRepository(db)
	summary, err := importer.Run(context.Background(), lookups, *path, *sheet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import lookups: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("imported %d employees, %d objects, %d destinations\n",
		summary.Employees, summary.Objects, summary.Destinations)
}
