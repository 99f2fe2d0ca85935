// Package mtl reads vendor Level-1 MTL metadata text and assembles the
// canonical scene metadata graph.
package mtl

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/lsrd/espa-convert/internal/meta"
)

// Record is one (group, label, value) triple from the MTL text.
type Record struct {
	Group string
	Label string
	Value string
}

// separators mirrors the vendor tokenization: '=', quote, space and tab
// all delimit tokens.
func isSeparator(r rune) bool {
	return r == '=' || r == '"' || r == ' ' || r == '\t'
}

// ScanRecords tokenizes grouped key/value metadata text into an ordered
// record sequence. GROUP/END_GROUP lines set and clear the current group
// and produce no records; the END label terminates the stream. Lines
// without any token are skipped.
func ScanRecords(r io.Reader) ([]Record, error) {
	var records []Record
	group := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.FieldsFunc(scanner.Text(), isSeparator)
		if len(fields) == 0 {
			continue
		}

		label := fields[0]
		value := ""
		if len(fields) > 1 {
			value = fields[1]
		}

		switch label {
		case "GROUP":
			group = value
			continue
		case "END_GROUP":
			group = ""
			continue
		case "END":
			return records, nil
		}

		records = append(records, Record{Group: group, Label: label, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// parseFloat converts a required numeric field, attaching the offending
// label and value on failure.
func parseFloat(rec Record) (float64, error) {
	v, err := strconv.ParseFloat(rec.Value, 64)
	if err != nil {
		return 0, &meta.FormatError{Label: rec.Label, Value: rec.Value, Err: err}
	}
	return v, nil
}

func parseInt(rec Record) (int, error) {
	v, err := strconv.Atoi(rec.Value)
	if err != nil {
		return 0, &meta.FormatError{Label: rec.Label, Value: rec.Value, Err: err}
	}
	return v, nil
}
