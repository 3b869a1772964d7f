package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/cprefsql/cprefengine/internal/engine"
	"github.com/cprefsql/cprefengine/internal/parser"
	"github.com/cprefsql/cprefengine/internal/record"
	"github.com/cprefsql/cprefengine/repl"
)

func main() {
	if len(os.Args) == 1 {
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	if len(os.Args) < 4 {
		fmt.Println("Usage: cprefctl <preferences.pref> <table.csv> <table-name> [strategy]")
		fmt.Println("       cprefctl              (interactive REPL)")
		fmt.Println("Strategies: classical, partition, extended, formulas, maxpref (default classical)")
		os.Exit(1)
	}

	prefPath, csvPath, tableName := os.Args[1], os.Args[2], os.Args[3]

	strategy := engine.Classical
	if len(os.Args) > 4 {
		s, err := engine.ParseStrategy(os.Args[4])
		if err != nil {
			color.Red("%s", err)
			os.Exit(1)
		}
		strategy = s
	}

	source, err := os.ReadFile(prefPath)
	if err != nil {
		color.Red("failed to read preferences: %s", err)
		os.Exit(1)
	}
	prefText := string(source)

	// Parse up front so syntax errors point at the offending line
	// before any records are touched.
	if _, parseErrs := parser.ParseSource(prefPath, prefText); len(parseErrs) > 0 {
		reportParseError(prefPath, prefText, parseErrs[0])
		os.Exit(1)
	}

	records, err := loadTable(csvPath, tableName)
	if err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}

	color.Cyan("Input records:")
	printRecords(records)

	best, err := engine.Best(strategy, prefText, records)
	if err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}
	color.Green("Best records (%s):", strategy)
	printRecords(best)

	topk, err := engine.TopK(strategy, prefText, records, 3)
	if err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}
	color.Green("Top-3 records (%s):", strategy)
	printRecords(topk)
}

func loadTable(csvPath, tableName string) ([]record.Record, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open relational source: %w", err)
	}
	defer f.Close()

	source, err := record.NewCSVSource(map[string]io.Reader{tableName: f})
	if err != nil {
		return nil, err
	}
	return source.Table(tableName)
}

func printRecords(records []record.Record) {
	for _, r := range records {
		parts := make([]string, 0, len(r))
		for _, att := range r.Attrs() {
			parts = append(parts, fmt.Sprintf("%s: %s", att, r[att]))
		}
		fmt.Printf("  {%s}\n", strings.Join(parts, ", "))
	}
	if len(records) == 0 {
		fmt.Println("  (none)")
	}
}

// reportParseError prints a friendly caret-style parse error message.
func reportParseError(path, src string, perr parser.ParseError) {
	lines := strings.Split(src, "\n")
	pos := perr.Position
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("Syntax error in %s: %s", path, perr.Message)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("Syntax error in %s at line %d, column %d:", path, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", perr.Message)
}
