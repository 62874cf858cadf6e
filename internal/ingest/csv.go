package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/yungbote/cinesync/internal/domain"
	"github.com/yungbote/cinesync/internal/normalize"
	"github.com/yungbote/cinesync/internal/pkg/logger"
)

// ReadDelimited loads a delimited tabular file: separator sniffed from the
// header line, UTF-8 first with a Latin-1 retry when the bytes are not
// valid UTF-8, malformed lines skipped with their position logged. The
// returned rows include the header.
func ReadDelimited(path string, log *logger.Logger) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}

	text, encoding := decode(data)
	sep := sniffSeparator(text)
	log.Debug("Reading delimited file", "path", path, "encoding", encoding, "separator", string(sep))

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := [][]string{}
	width := 0
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			log.Warn("Skipping malformed line", "line", line, "error", err)
			continue
		}
		if width == 0 {
			width = len(record)
		} else if len(record) != width {
			log.Warn("Skipping line with unexpected field count", "line", line, "fields", len(record), "expected", width)
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// decode tries UTF-8 first, then falls back to Latin-1, which accepts any
// byte sequence.
func decode(data []byte) (string, string) {
	if utf8.Valid(data) {
		return string(data), "utf-8"
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data), "utf-8"
	}
	return string(decoded), "latin-1"
}

// sniffSeparator picks the candidate occurring most often in the header line.
func sniffSeparator(text string) rune {
	header := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		header = text[:i]
	}
	best := ','
	bestCount := strings.Count(header, ",")
	for _, cand := range []rune{';', '\t', '|'} {
		if n := strings.Count(header, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}

// ParseAwardRows maps header-keyed rows into typed award rows. Absent
// columns and empty cells come through as empty strings before typed
// parsing; numeric cells that fail to parse degrade to zero.
func ParseAwardRows(rows [][]string, log *logger.Logger) []domain.AwardRow {
	out := []domain.AwardRow{}
	if len(rows) < 2 {
		return out
	}

	index := map[string]int{}
	for i, col := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for _, row := range rows[1:] {
		out = append(out, domain.AwardRow{
			YearFilm:     atoiOrZero(field(row, "year_film")),
			YearCeremony: atoiOrZero(field(row, "year_ceremony")),
			Ceremony:     atoiOrZero(field(row, "ceremony")),
			Category:     field(row, "category"),
			Name:         field(row, "name"),
			Film:         field(row, "film"),
			Winner:       normalize.ParseBooleanFlag(field(row, "winner")),
		})
	}
	return out
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
