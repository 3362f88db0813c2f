package dataset

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// headerRepairs maps header spellings produced by inconsistent source encodings
// to their canonical names. Keys are matched after trimming and NFC normalisation.
var headerRepairs = map[string]string{
	"Posi\uFFFDo":       HeaderPosition,
	"Posi\uFFFD\uFFFDo": HeaderPosition,
	"PosiÇão":           HeaderPosition,
	"PosiÃ§Ã£o":         HeaderPosition,
	"Posicao":           HeaderPosition,
	"Posiço":            HeaderPosition,
	"Posiçço":           HeaderPosition,

	"Observa\uFFFDo":       HeaderObservation,
	"Observa\uFFFD\uFFFDo": HeaderObservation,
	"ObservaÇão":           HeaderObservation,
	"ObservaÃ§Ã£o":         HeaderObservation,
	"Observacao":           HeaderObservation,
	"Observaço":            HeaderObservation,
	"Observaçço":           HeaderObservation,
}

// NormalizeHeader trims a raw column name and repairs known encoding artifacts.
// Names with no known repair are returned trimmed but otherwise untouched.
func NormalizeHeader(raw string) string {
	name := norm.NFC.String(strings.TrimSpace(raw))
	if fixed, ok := headerRepairs[name]; ok {
		return fixed
	}
	return name
}

// columnIndexes locates each canonical column in a header row.
// The first occurrence wins when a repaired name collides with an existing one.
func columnIndexes(header []string) (map[Column]int, error) {
	idx := make(map[Column]int, len(Columns))
	for i, raw := range header {
		name := NormalizeHeader(raw)
		for _, c := range Columns {
			if name != c.Header() {
				continue
			}
			if _, seen := idx[c]; !seen {
				idx[c] = i
			}
		}
	}

	var missing []string
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c.Header())
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return idx, nil
}

// MissingColumnsError names the canonical columns absent from a header row.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing columns: " + strings.Join(e.Columns, ", ")
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumn
}
