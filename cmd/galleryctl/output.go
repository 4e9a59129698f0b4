package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"
)

// useJSON reports whether output to w should be JSON: always when forced,
// and whenever w is not an interactive terminal.
func useJSON(w io.Writer, forced bool) bool {
	if forced {
		return true
	}
	f, ok := w.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes rows under headers with aligned columns.
func printTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// emit prints v as JSON or, on a terminal, as the table built by rows.
func emit(w io.Writer, opts *rootOptions, v any, headers []string, rows func() [][]string) error {
	if useJSON(w, opts.json) {
		return printJSON(w, v)
	}
	return printTable(w, headers, rows())
}
