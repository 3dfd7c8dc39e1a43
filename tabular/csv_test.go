// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadStripsByteOrderMark(t *testing.T) {
	input := "\xEF\xBB\xBFlatitude,longitude\n48.85,2.35\n"

	table, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, []string{"latitude", "longitude"}, table.Header())
	require.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"48.85", "2.35"}, table.Row(0))
}

func TestReadWithoutByteOrderMark(t *testing.T) {
	table, err := Read(strings.NewReader("a,b\n1,2\n3,4\n"))
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"3", "4"}, table.Row(1))
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestReadRaggedRows(t *testing.T) {
	_, err := Read(strings.NewReader("a,b\n1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading csv")
}

func TestWriteEmitsByteOrderMark(t *testing.T) {
	table := New([]string{"city"})
	table.Append([]string{"Montevideo"})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, table))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	assert.Equal(t, "city\nMontevideo\n", strings.TrimPrefix(buf.String(), "\xEF\xBB\xBF"))
}

// TestRoundTrip verifies that feeding the written output back as input
// reproduces the same table, non-ASCII place names included.
func TestRoundTrip(t *testing.T) {
	table := New([]string{"latitude", "longitude", "note"})
	table.Append([]string{"48.8566", "2.3522", "contains, a comma"})
	table.Append([]string{"-34.9011", "-56.1645", "San José de Mayo"})
	table.Append([]string{"35.6762", "139.6503", "東京"})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, table))

	got, err := Read(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(table.Header(), got.Header()); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, table.Len(), got.Len())

	for i := 0; i < table.Len(); i++ {
		if diff := cmp.Diff(table.Row(i), got.Row(i)); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}
