package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Posi�o", HeaderPosition},
		{"Posi��o", HeaderPosition},
		{"PosiÇão", HeaderPosition},
		{"Posição ", HeaderPosition},
		{"  Posição", HeaderPosition},
		{"PosiÃ§Ã£o", HeaderPosition},
		{"Observa�o", HeaderObservation},
		{"Observa��o", HeaderObservation},
		{"ObservaÇão", HeaderObservation},
		{"Observação ", HeaderObservation},
		{" Data ", HeaderDate},
		{"Piso", HeaderFloor},
		{"Responsável", "Responsável"},
		{"Posic\u0327a\u0303o", HeaderPosition},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeader(tt.raw))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"01/03/2024", date(2024, time.March, 1), true},
		{"1/3/2024", date(2024, time.March, 1), true},
		{"13/12/2023", date(2023, time.December, 13), true},
		{"01-03-2024", date(2024, time.March, 1), true},
		{"01.03.2024", date(2024, time.March, 1), true},
		{"01/03/24", date(2024, time.March, 1), true},
		{"01/03/2024 14:35", date(2024, time.March, 1), true},
		{"01/03/2024 14:35:10", date(2024, time.March, 1), true},
		{"01.03.2024 10:00", date(2024, time.March, 1), true},
		{"01.03.2024 10:00:00", date(2024, time.March, 1), true},
		{"01/03/24 10:00", date(2024, time.March, 1), true},
		{"01/03/24 10:00:05", date(2024, time.March, 1), true},
		{"01-03-24 10:00", date(2024, time.March, 1), true},
		{"01-03-24 10:00:05", date(2024, time.March, 1), true},
		{"01-03-2024 10:00:05", date(2024, time.March, 1), true},
		{"2024-03-01", date(2024, time.March, 1), true},
		{"", time.Time{}, false},
		{"ontem", time.Time{}, false},
		{"32/01/2024", time.Time{}, false},
		{"12/13/2024", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestLoader_LoadUTF8(t *testing.T) {
	content := "Data;Piso;Posição ;Observação ;Extra\n" +
		"01/03/2024;FloorA;P1;Crack;x\n" +
		"01/03/2024;FloorA;P2;Crack;y\n" +
		"01/03/2024;FloorB;P3;Leak;z\n"
	path := writeFile(t, t.TempDir(), "checklist.csv", []byte(content))

	ds, err := NewLoader(nil).Load(path)
	require.NoError(t, err)

	want := []Record{
		{Date: date(2024, time.March, 1), Floor: "FloorA", Position: "P1", Observation: "Crack"},
		{Date: date(2024, time.March, 1), Floor: "FloorA", Position: "P2", Observation: "Crack"},
		{Date: date(2024, time.March, 1), Floor: "FloorB", Position: "P3", Observation: "Leak"},
	}
	if diff := cmp.Diff(want, ds.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Data", "Piso", "Posição", "Observação"}, ds.Headers())
	assert.Equal(t, path, ds.Source)
	assert.False(t, ds.ModTime.IsZero())
}

func TestLoader_LoadLatin1(t *testing.T) {
	content := "Data;Piso;Posição;Observação\n" +
		"05/02/2024;Térreo;Corredor;Fissura no revestimento\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(content)
	require.NoError(t, err)
	path := writeFile(t, t.TempDir(), "latin1.csv", []byte(encoded))

	ds, err := NewLoader(nil).Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	rec := ds.At(0)
	assert.Equal(t, "Térreo", rec.Floor)
	assert.Equal(t, "Corredor", rec.Position)
	assert.Equal(t, "Fissura no revestimento", rec.Observation)
	assert.True(t, date(2024, time.February, 5).Equal(rec.Date))
}

func TestLoader_LatinBytesUndefinedInWindows1252(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want string
	}{
		{name: "0x81", cell: "A\x81", want: "A\u0081"},
		{name: "0x8D", cell: "B\x8D", want: "B\u008D"},
		{name: "0x8F", cell: "C\x8F", want: "C\u008F"},
		{name: "0x90", cell: "D\x90", want: "D\u0090"},
		{name: "0x9D", cell: "E\x9D", want: "E\u009D"},
		{name: "euro stays windows-1252", cell: "F\x80", want: "F\u20AC"},
		{name: "latin letter", cell: "T\xE9rreo", want: "Térreo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "Data;Piso;Posi\xE7\xE3o;Observa\xE7\xE3o\n05/02/2024;" + tt.cell + ";P1;O1\n"
			ds, err := NewLoader(nil).Parse(strings.NewReader(content), "latin1")
			require.NoError(t, err)
			require.Equal(t, 1, ds.Len())
			assert.Equal(t, tt.want, ds.At(0).Floor)
			assert.NotContains(t, ds.At(0).Floor, "\uFFFD")
		})
	}
}

func TestLoader_HeaderVariantsYieldCanonicalColumns(t *testing.T) {
	variants := []string{
		"Data;Piso;Posi�o;Observa�o",
		"Data;Piso;PosiÇão;ObservaÇão",
		"Data;Piso;Posição ;Observação ",
		" Data ; Piso ;Posi��o;Observa��o",
	}
	for _, header := range variants {
		t.Run(header, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "c.csv", []byte(header+"\n02/01/2024;F1;P1;Obs\n"))
			ds, err := NewLoader(nil).Load(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"Data", "Piso", "Posição", "Observação"}, ds.Headers())
			assert.Equal(t, Record{Date: date(2024, time.January, 2), Floor: "F1", Position: "P1", Observation: "Obs"}, ds.At(0))
		})
	}
}

func TestLoader_InvalidDatesBecomeNull(t *testing.T) {
	content := "Data;Piso;Posição;Observação\n" +
		"not-a-date;F1;P1;A\n" +
		";F2;P2;B\n" +
		"03/04/2024;F3;P3;C\n"
	path := writeFile(t, t.TempDir(), "c.csv", []byte(content))

	ds, err := NewLoader(nil).Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.False(t, ds.At(0).HasDate())
	assert.False(t, ds.At(1).HasDate())
	assert.True(t, ds.At(2).HasDate())
	assert.Equal(t, 2, ds.InvalidDates)
	assert.Equal(t, "", ds.At(0).Value(ColumnDate))
}

func TestLoader_ShortRowsAndBlankLines(t *testing.T) {
	content := "Data;Piso;Posição;Observação\n" +
		"01/03/2024;F1\n" +
		";;;\n" +
		"\n" +
		"01/03/2024;F2;P2;\"Trinca; grande\"\n"
	path := writeFile(t, t.TempDir(), "c.csv", []byte(content))

	ds, err := NewLoader(nil).Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, Record{Date: date(2024, time.March, 1), Floor: "F1"}, ds.At(0))
	assert.Equal(t, "Trinca; grande", ds.At(1).Observation)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(nil).Load(filepath.Join(dir, "nope.csv"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := NewLoader(nil).Load(dir)
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("missing column", func(t *testing.T) {
		path := writeFile(t, dir, "missing.csv", []byte("Data;Piso;Posição\n01/01/2024;F;P\n"))
		_, err := NewLoader(nil).Load(path)
		require.ErrorIs(t, err, ErrMissingColumn)
		var mc *MissingColumnsError
		require.True(t, errors.As(err, &mc))
		assert.Equal(t, []string{"Observação"}, mc.Columns)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "empty.csv", nil)
		_, err := NewLoader(nil).Load(path)
		assert.ErrorIs(t, err, ErrMissingColumn)
	})
}

func TestLoader_Idempotent(t *testing.T) {
	content := "Data;Piso;Posição;Observação\n01/03/2024;F1;P1;A\n02/03/2024;F2;P2;B\n"
	path := writeFile(t, t.TempDir(), "c.csv", []byte(content))

	loader := NewLoader(nil)
	first, err := loader.Load(path)
	require.NoError(t, err)
	second, err := loader.Load(path)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first.Records(), second.Records()))
}

func TestLoader_ParseWithBOM(t *testing.T) {
	content := "\xEF\xBB\xBFData;Piso;Posição;Observação\n01/03/2024;F1;P1;A\n"
	ds, err := NewLoader(nil).Parse(strings.NewReader(content), "inline")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, "inline", ds.Source)
}

func TestParseColumn(t *testing.T) {
	for _, name := range []string{"floor", "Piso", "PISO", " floor "} {
		c, err := ParseColumn(name)
		require.NoError(t, err)
		assert.Equal(t, ColumnFloor, c)
	}
	c, err := ParseColumn("Observação")
	require.NoError(t, err)
	assert.Equal(t, ColumnObservation, c)

	_, err = ParseColumn("responsavel")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}
