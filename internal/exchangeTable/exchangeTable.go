package exchangeTable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

const (
	codeColumn      = "exchCode"
	suffixSeparator = "/"
)

var ErrMissingColumn = errors.New("exchange table: missing column")

// Table maps a broker exchange code to the ordered market-data suffixes used on that exchange.
// An empty suffix means the bare ticker. It is read-only after loading.
type Table struct {
	suffixes map[string][]string
}

func New(suffixes map[string][]string) *Table {
	t := &Table{suffixes: make(map[string][]string, len(suffixes))}
	for code, s := range suffixes {
		t.suffixes[normalizeCode(code)] = append([]string{}, s...)
	}
	return t
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exchange table: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load exchange table %s: %w", path, err)
	}

	slog.Info("exchange table loaded", slog.String("path", path), slog.Int("exchanges", len(t.suffixes)))

	return t, nil
}

// Load parses a semicolon-delimited table with an exchCode column and a Yahoo suffix column.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	codeIdx, suffixIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, codeColumn):
			codeIdx = i
		case suffixIdx == -1 && strings.Contains(strings.ToLower(name), "yahoo"):
			suffixIdx = i
		}
	}
	if codeIdx == -1 {
		return nil, fmt.Errorf("%w %q, found %v", ErrMissingColumn, codeColumn, header)
	}
	if suffixIdx == -1 {
		return nil, fmt.Errorf("%w: yahoo suffix, found %v", ErrMissingColumn, header)
	}

	t := &Table{suffixes: make(map[string][]string)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		code := normalizeCode(field(record, codeIdx))
		if code == "" {
			continue
		}
		t.suffixes[code] = parseSuffixes(field(record, suffixIdx))
	}

	return t, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return record[idx]
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func parseSuffixes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return []string{""}
	}

	var suffixes []string
	for _, part := range strings.Split(raw, suffixSeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			suffixes = append(suffixes, part)
		}
	}
	if len(suffixes) == 0 {
		return []string{""}
	}
	return suffixes
}

// Has reports whether the broker trades on the exchange.
func (t *Table) Has(code string) bool {
	_, ok := t.suffixes[normalizeCode(code)]
	return ok
}

// Suffixes returns a copy of the suffix list, or a single empty suffix for unknown codes.
func (t *Table) Suffixes(code string) []string {
	suffixes, ok := t.suffixes[normalizeCode(code)]
	if !ok || len(suffixes) == 0 {
		return []string{""}
	}
	return append([]string{}, suffixes...)
}

func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.suffixes))
	for code := range t.suffixes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
