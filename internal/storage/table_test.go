package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	ID    string `csv:"id"`
	Name  string `csv:"name"`
	Count int    `csv:"count"`
}

func newTestTable(t *testing.T) *Table[testRow] {
	t.Helper()
	tbl, err := NewTable[testRow](filepath.Join(t.TempDir(), "rows.csv"))
	require.NoError(t, err)
	return tbl
}

func TestTableMissingFileReadsEmpty(t *testing.T) {
	tbl := newTestTable(t)

	rows, err := tbl.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTableRoundTrip(t *testing.T) {
	tbl := newTestTable(t)

	want := []testRow{
		{ID: "a", Name: "первый", Count: 1},
		{ID: "b", Name: "второй, с запятой", Count: 2},
		{ID: "c", Name: "", Count: 0},
	}
	require.NoError(t, tbl.WriteAll(want))

	got, err := tbl.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTableAppend(t *testing.T) {
	tbl := newTestTable(t)

	require.NoError(t, tbl.Append(testRow{ID: "a", Count: 1}))
	require.NoError(t, tbl.Append(testRow{ID: "b", Count: 2}))

	got, err := tbl.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestTableUpdateErrorCancelsWrite(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.WriteAll([]testRow{{ID: "a", Count: 1}}))

	err := tbl.Update(func(rows []testRow) ([]testRow, error) {
		return nil, os.ErrInvalid
	})
	require.Error(t, err)

	got, err := tbl.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestTableUpdateSerializesConcurrentAppends(t *testing.T) {
	tbl := newTestTable(t)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = tbl.Update(func(rows []testRow) ([]testRow, error) {
				return append(rows, testRow{ID: "x", Count: len(rows)}), nil
			})
		}()
	}
	wg.Wait()

	got, err := tbl.ReadAll()
	require.NoError(t, err)
	assert.Len(t, got, n)
}
