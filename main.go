package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/cprefsql/cprefengine/internal/parser"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: cprefengine <file.pref>")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("Failed to read file: %s", err)
		os.Exit(1)
	}

	theory, parseErrs := parser.ParseSource(path, string(source))
	if len(parseErrs) > 0 {
		reportParseError(string(source), parseErrs[0])
		os.Exit(1)
	}

	fmt.Println("Parsed theory:")
	for i, r := range theory.Rules {
		fmt.Printf("%d: %s\n", i+1, r.String())
	}

	color.Green("Successfully parsed %s (%d rules)", path, len(theory.Rules))
}

// reportParseError prints a friendly caret-style parse error message.
func reportParseError(src string, perr parser.ParseError) {
	pos := perr.Position
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("Syntax error at unknown location: %s", perr.Message)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", perr.Message)
}
