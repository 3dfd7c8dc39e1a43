// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read parses CSV from r into a Table. A leading UTF-8 BOM, common in
// spreadsheet exports, is stripped. The first record is the header;
// every row must have the same number of fields.
func Read(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, fmt.Errorf("skipping byte order mark: %w", err)
		}
	}

	records, err := csv.NewReader(br).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	if len(records) == 0 {
		return nil, errors.New("csv input is empty")
	}

	table := New(records[0])
	for _, row := range records[1:] {
		table.Append(row)
	}

	return table, nil
}

// Write emits t as CSV prefixed with a UTF-8 BOM so spreadsheet
// applications pick up the encoding of non-ASCII place names.
func Write(w io.Writer, t *Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing byte order mark: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(t.header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, row := range t.rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}
