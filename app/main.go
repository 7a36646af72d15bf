package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Usage: your_program.sh sample.db .dbinfo
//        your_program.sh sample.db ".tables"
//        your_program.sh sample.db "SELECT COUNT(*) FROM apples"
//        your_program.sh sample.db "SELECT name, color FROM apples WHERE color = 'Yellow'"
func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args, opens the database, and dispatches one command, writing
// its output to stdout. Split out of main so tests can drive it directly
// without a subprocess.
func run(args []string, stdout io.Writer) error {
	var jsonOutput bool
	var positional []string
	for _, a := range args {
		if a == "--json" {
			jsonOutput = true
			continue
		}
		positional = append(positional, a)
	}
	if len(positional) < 2 {
		return fmt.Errorf("usage: your_program.sh <database path> <command>")
	}
	databaseFilePath := positional[0]
	command := positional[1]

	db, err := OpenDatabase(databaseFilePath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch command {
	case ".dbinfo":
		return runDBInfo(db, stdout, jsonOutput)
	case ".tables":
		return runTables(db, stdout, jsonOutput)
	default:
		// --json only affects the introspection commands above (§6); SELECT
		// output always goes through the console formatter.
		return runSQL(db, command, stdout, NewConsoleFormatter(stdout))
	}
}

func runDBInfo(db *Database, stdout io.Writer, jsonOutput bool) error {
	cat, err := LoadCatalog(db)
	if err != nil {
		return err
	}
	if jsonOutput {
		fmt.Fprintf(stdout, "{\"page_size\": %d, \"pages\": %d, \"tables\": %d}\n",
			db.PageSize(), db.HeaderPageCount(), cat.SchemaRowCount)
		return nil
	}
	fmt.Fprintf(stdout, "database page size: %d\n", db.PageSize())
	fmt.Fprintf(stdout, "number of pages %d\n", db.HeaderPageCount())
	// "number of tables" reports the raw schema-row count (every object kind),
	// not just rows of kind "table" — matches sqlite3's own .dbinfo wording.
	fmt.Fprintf(stdout, "number of tables: %d\n", cat.SchemaRowCount)
	return nil
}

func runTables(db *Database, stdout io.Writer, jsonOutput bool) error {
	cat, err := LoadCatalog(db)
	if err != nil {
		return err
	}
	if jsonOutput {
		quoted := make([]string, len(cat.TableOrder))
		for i, name := range cat.TableOrder {
			quoted[i] = fmt.Sprintf("%q", name)
		}
		fmt.Fprintf(stdout, "[%s]\n", strings.Join(quoted, ", "))
		return nil
	}
	fmt.Fprintln(stdout, strings.Join(cat.TableOrder, " "))
	return nil
}

// runSQL parses and executes command as SQL. An unparseable command is not
// an error (§6: "Invalid command: <command>" exits 0); any other failure
// (unknown table/column, decode error) is returned to the caller.
func runSQL(db *Database, command string, stdout io.Writer, formatter OutputFormatter) error {
	req, err := parseStatement(command)
	if err != nil {
		fmt.Fprintf(stdout, "Invalid command: %s\n", command)
		return nil
	}

	cat, err := LoadCatalog(db)
	if err != nil {
		return err
	}

	engine := NewQueryEngine(db, cat)
	result, err := engine.Execute(req)
	if err != nil {
		return err
	}

	if result.IsCount {
		fmt.Fprintln(stdout, formatter.FormatCount(result.Count))
		return nil
	}
	fmt.Fprint(stdout, formatter.FormatTable(result))
	return nil
}
