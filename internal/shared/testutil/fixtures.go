package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// ChecklistHeader is a well-formed header row of the checklist file.
const ChecklistHeader = "Data;Piso;Posição;Observação"

// ChecklistRow is one data row of a checklist fixture.
type ChecklistRow struct {
	Date        string
	Floor       string
	Position    string
	Observation string
}

// SampleRows covers two dates, a dominant floor on the first and a null date.
var SampleRows = []ChecklistRow{
	{"01/03/2024", "FloorA", "P1", "Crack"},
	{"01/03/2024", "FloorA", "P2", "Crack"},
	{"01/03/2024", "FloorB", "P3", "Leak"},
	{"02/03/2024", "FloorB", "P3", "Leak"},
	{"02/03/2024", "FloorC", "P1", "Stain"},
	{"sem data", "FloorC", "P4", "Crack"},
}

// ChecklistCSV renders rows under header.
func ChecklistCSV(header string, rows []ChecklistRow) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(strings.Join([]string{r.Date, r.Floor, r.Position, r.Observation}, ";"))
		b.WriteString("\n")
	}
	return b.String()
}

// WriteChecklist writes a UTF-8 checklist file into dir and returns its path.
func WriteChecklist(t *testing.T, dir string, rows []ChecklistRow) string {
	t.Helper()
	return writeFixture(t, filepath.Join(dir, "dados_checklist.csv"), []byte(ChecklistCSV(ChecklistHeader, rows)))
}

// WriteLatin1Checklist writes the checklist in ISO-8859-1, as spreadsheet exports do.
func WriteLatin1Checklist(t *testing.T, dir string, rows []ChecklistRow) string {
	t.Helper()
	encoded, err := charmap.ISO8859_1.NewEncoder().String(ChecklistCSV(ChecklistHeader, rows))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return writeFixture(t, filepath.Join(dir, "dados_checklist.csv"), []byte(encoded))
}

func writeFixture(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
