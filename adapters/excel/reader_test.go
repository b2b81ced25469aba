package excel

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"uidlens/domain/core"
)

func workbook(t *testing.T, grid [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range grid {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	// a second sheet must be ignored
	_, err := f.NewSheet("Ignored")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Ignored", "A1", "friend_id"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadWorkbookFirstSheet(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{" uid ", "name", "posted_at"},
		{"1", "Anh", "2023-01-01"},
		{nil, nil, nil},
		{"2", "", "2023-02-01"},
	})

	rows, err := NewDataReader().Read(context.Background(), "posts.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"uid", "name", "posted_at"}, rows[0].Keys())
	assert.Equal(t, []string{"uid", "posted_at"}, rows[1].Keys(), "empty cells are omitted")
	v, _ := rows[1].Get("uid")
	assert.Equal(t, "2", v)
}

func TestReadCSV(t *testing.T) {
	body := "\ufefffriend_id,friend_name,friend_id,\n10,Binh,11,x\n,,,\n12, Chi ,,\n"
	rows, err := NewDataReader().Read(context.Background(), "export.CSV", strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"friend_id", "friend_name", "friend_id_1", "__EMPTY"}, rows[0].Keys())
	name, _ := rows[1].Get("friend_name")
	assert.Equal(t, "Chi", name)
}

func TestReadRejectsUnsupportedExtension(t *testing.T) {
	_, err := NewDataReader().Read(context.Background(), "notes.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, core.ErrUnsupportedFile)
}

func TestReadRejectsCorruptWorkbook(t *testing.T) {
	_, err := NewDataReader().Read(context.Background(), "friends.xls", strings.NewReader("not a zip"))
	assert.ErrorIs(t, err, core.ErrUnsupportedFile)
}

func TestReadEmptyCSV(t *testing.T) {
	_, err := NewDataReader().Read(context.Background(), "empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, core.ErrEmptySheet)
}

func TestReadHeaderOnly(t *testing.T) {
	rows, err := NewDataReader().Read(context.Background(), "groups.csv", strings.NewReader("group_id,name\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestHeaders(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"a", "b"}, []string{"a", "b"}},
		{[]string{"a", "a", "a"}, []string{"a", "a_1", "a_2"}},
		{[]string{"", " ", "x"}, []string{"__EMPTY", "__EMPTY_1", "x"}},
		{[]string{"a", "a_1", "a"}, []string{"a", "a_1", "a_2"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Headers(tt.in))
	}
}

func TestFormatOf(t *testing.T) {
	for name, want := range map[string]string{
		"a.xlsx": FormatXLSX, "b.XLSM": FormatXLSX, "c.xls": FormatXLSX, "d.csv": FormatCSV,
	} {
		got, ok := FormatOf(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := FormatOf("e.txt")
	assert.False(t, ok)
}
