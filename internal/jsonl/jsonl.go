// Package jsonl reads and writes line-delimited JSON, the persistence
// format exchanged between the parse, normalise and index stages.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// maxLineSize bounds a single record line. Catalog records with long
// subject lists stay well under this.
const maxLineSize = 4 * 1024 * 1024

// ReadAll decodes every line of r into a value of type T.
// Blank lines are skipped. A malformed line fails the whole read: the
// files are machine-written, so corruption is not a per-record
// condition.
func ReadAll[T any](r io.Reader) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var items []T
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("decoding line %d: %w", line, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return items, nil
}

// WriteAll encodes each item as one JSON line on w.
func WriteAll[T any](w io.Writer, items []T) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i := range items {
		if err := enc.Encode(items[i]); err != nil {
			return fmt.Errorf("encoding item %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
