// Package repl implements an interactive top-level for exploring
// CP-theories: type rules to grow the current theory, point it at a
// CSV table, and ask for the best or top-k records.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/cprefsql/cprefengine/internal/engine"
	"github.com/cprefsql/cprefengine/internal/parser"
	"github.com/cprefsql/cprefengine/internal/record"
)

const PROMPT = ">> "

type session struct {
	rules   []string
	records []record.Record
	out     io.Writer
}

// Start runs the read-eval-print loop until EOF or :quit.
func Start(in io.Reader, out io.Writer) {
	s := &session{out: out}
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "cpref REPL - type rules, :help for commands")
	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if !s.command(line) {
				return
			}
			continue
		}
		s.addRule(line)
	}
}

// command dispatches a ':' directive; returns false to exit the loop.
func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprintln(s.out, "  <rule text>            add a rule (e.g. PRICE < 100 BETTER PRICE >= 100)")
		fmt.Fprintln(s.out, "  :rules                 show the current theory")
		fmt.Fprintln(s.out, "  :clear                 drop all rules")
		fmt.Fprintln(s.out, "  :table <csv> <name>    load records from a CSV table")
		fmt.Fprintln(s.out, "  :best [strategy]       non-dominated records")
		fmt.Fprintln(s.out, "  :top <k> [strategy]    first k records in preference order")
		fmt.Fprintln(s.out, "  :quit                  exit")
	case ":rules":
		if len(s.rules) == 0 {
			fmt.Fprintln(s.out, "(no rules)")
		}
		for i, r := range s.rules {
			fmt.Fprintf(s.out, "%d: %s\n", i+1, r)
		}
	case ":clear":
		s.rules = nil
	case ":table":
		if len(fields) != 3 {
			color.New(color.FgRed).Fprintln(s.out, "usage: :table <csv> <name>")
			break
		}
		s.loadTable(fields[1], fields[2])
	case ":best":
		strategy, ok := s.strategyArg(fields, 1)
		if !ok {
			break
		}
		s.run(func(text string) ([]record.Record, error) {
			return engine.Best(strategy, text, s.records)
		})
	case ":top":
		if len(fields) < 2 {
			color.New(color.FgRed).Fprintln(s.out, "usage: :top <k> [strategy]")
			break
		}
		k, err := strconv.Atoi(fields[1])
		if err != nil || k < 1 {
			color.New(color.FgRed).Fprintln(s.out, "k must be a positive integer")
			break
		}
		strategy, ok := s.strategyArg(fields, 2)
		if !ok {
			break
		}
		s.run(func(text string) ([]record.Record, error) {
			return engine.TopK(strategy, text, s.records, k)
		})
	default:
		color.New(color.FgRed).Fprintf(s.out, "unknown command %s (:help for help)\n", fields[0])
	}
	return true
}

// addRule parses the candidate rule on its own before admitting it to
// the theory, so a typo is rejected immediately instead of poisoning
// every later query.
func (s *session) addRule(line string) {
	if _, errs := parser.ParseSource("<repl>", line); len(errs) > 0 {
		color.New(color.FgRed).Fprintf(s.out, "parse error: %s\n", errs[0].Message)
		return
	}
	s.rules = append(s.rules, line)
	fmt.Fprintf(s.out, "rule %d added\n", len(s.rules))
}

func (s *session) strategyArg(fields []string, idx int) (engine.Strategy, bool) {
	if len(fields) <= idx {
		return engine.Classical, true
	}
	strategy, err := engine.ParseStrategy(fields[idx])
	if err != nil {
		color.New(color.FgRed).Fprintln(s.out, err)
		return 0, false
	}
	return strategy, true
}

func (s *session) loadTable(path, name string) {
	f, err := os.Open(path)
	if err != nil {
		color.New(color.FgRed).Fprintf(s.out, "failed to open %s: %s\n", path, err)
		return
	}
	defer f.Close()

	source, err := record.NewCSVSource(map[string]io.Reader{name: f})
	if err != nil {
		color.New(color.FgRed).Fprintln(s.out, err)
		return
	}
	records, err := source.Table(name)
	if err != nil {
		color.New(color.FgRed).Fprintln(s.out, err)
		return
	}
	s.records = records
	fmt.Fprintf(s.out, "loaded %d records from %s\n", len(records), name)
}

func (s *session) run(query func(string) ([]record.Record, error)) {
	if len(s.rules) == 0 {
		color.New(color.FgYellow).Fprintln(s.out, "no rules loaded")
		return
	}
	if len(s.records) == 0 {
		color.New(color.FgYellow).Fprintln(s.out, "no records loaded (:table <csv> <name>)")
		return
	}
	result, err := query(strings.Join(s.rules, " AND "))
	if err != nil {
		color.New(color.FgRed).Fprintln(s.out, err)
		return
	}
	if len(result) == 0 {
		fmt.Fprintln(s.out, "(empty result - is the theory consistent?)")
		return
	}
	for _, r := range result {
		parts := make([]string, 0, len(r))
		for _, att := range r.Attrs() {
			parts = append(parts, fmt.Sprintf("%s: %s", att, r[att]))
		}
		fmt.Fprintf(s.out, "{%s}\n", strings.Join(parts, ", "))
	}
}
