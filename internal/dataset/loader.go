package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DefaultDelimiter separates fields in the checklist export.
const DefaultDelimiter = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads checklist files into Datasets.
type Loader struct {
	Delimiter rune
	logger    *slog.Logger
}

// NewLoader creates a loader using the default delimiter.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		Delimiter: DefaultDelimiter,
		logger:    logger.With(slog.String("component", "dataset_loader")),
	}
}

// Load reads the file at path. A missing or unreadable file yields ErrFileNotFound.
func (l *Loader) Load(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}

	ds, err := l.Parse(bytes.NewReader(raw), path)
	if err != nil {
		return nil, err
	}
	ds.ModTime = info.ModTime()
	return ds, nil
}

// Parse decodes and parses checklist content. source labels the Dataset.
func (l *Loader) Parse(r io.Reader, source string) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	text := decode(raw)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = l.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s has no header row", ErrMissingColumn, source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}

	idx, err := columnIndexes(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	ds := &Dataset{Source: source, LoadedAt: time.Now()}
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		if blank(fields) {
			continue
		}

		rec := Record{
			Floor:       field(fields, idx[ColumnFloor]),
			Position:    field(fields, idx[ColumnPosition]),
			Observation: field(fields, idx[ColumnObservation]),
		}
		rawDate := field(fields, idx[ColumnDate])
		if d, ok := ParseDate(rawDate); ok {
			rec.Date = d
		} else {
			ds.InvalidDates++
			if rawDate != "" {
				l.logger.Debug("unparsable date nulled",
					slog.String("source", source),
					slog.Int("line", line),
					slog.String("value", rawDate))
			}
		}
		ds.records = append(ds.records, rec)
	}

	l.logger.Info("dataset parsed",
		slog.String("source", source),
		slog.Int("rows", len(ds.records)),
		slog.Int("invalid_dates", ds.InvalidDates))

	return ds, nil
}

// decode returns the content as UTF-8. Valid UTF-8 input is kept as-is;
// anything else is treated as Windows-1252. The five bytes Windows-1252 leaves
// undefined keep their Latin-1 meaning so no cell byte is lost.
func decode(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}
	var b strings.Builder
	b.Grow(len(raw) + len(raw)/8)
	for _, c := range raw {
		if r := charmap.Windows1252.DecodeByte(c); r != utf8.RuneError {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(charmap.ISO8859_1.DecodeByte(c))
	}
	return b.String()
}

func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
