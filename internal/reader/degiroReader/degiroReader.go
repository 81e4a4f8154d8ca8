package degiroReader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/KotFed0t/isin_resolver/config"
	"github.com/KotFed0t/isin_resolver/internal/service"
)

const bom = "\ufeff"

// DegiroReader extracts the ISIN list from a broker export.
type DegiroReader struct {
	isinColumn string
	cashMarker string
}

func New(cfg *config.Config) *DegiroReader {
	return &DegiroReader{
		isinColumn: cfg.Ingest.IsinColumn,
		cashMarker: cfg.Ingest.CashMarker,
	}
}

func (d *DegiroReader) ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open broker export: %w", err)
	}
	defer f.Close()

	return d.ReadISINs(f)
}

// ReadISINs returns the trimmed, non-blank ISINs in first-seen order without duplicates.
// Values containing the cash marker, compared case-insensitively, are skipped.
func (d *DegiroReader) ReadISINs(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file, column %q required", service.ErrInputSchema, d.isinColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	isinIdx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == d.isinColumn {
			isinIdx = i
			break
		}
	}
	if isinIdx == -1 {
		return nil, fmt.Errorf("%w: column %q required, found %q", service.ErrInputSchema, d.isinColumn, header)
	}

	marker := strings.ToUpper(d.cashMarker)
	seen := make(map[string]struct{})
	isins := make([]string, 0)
	rows, skipped := 0, 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows+2, err)
		}
		rows++

		if isinIdx >= len(record) {
			skipped++
			continue
		}

		isin := strings.TrimSpace(record[isinIdx])
		if isin == "" || (marker != "" && strings.Contains(strings.ToUpper(isin), marker)) {
			skipped++
			continue
		}

		if _, ok := seen[isin]; ok {
			continue
		}
		seen[isin] = struct{}{}
		isins = append(isins, isin)
	}

	slog.Debug(
		"broker export read",
		slog.Int("rows", rows),
		slog.Int("skipped", skipped),
		slog.Int("uniqueISINs", len(isins)),
	)

	return isins, nil
}
