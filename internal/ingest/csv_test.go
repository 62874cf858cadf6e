package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/cinesync/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestReadDelimitedCommaSeparated(t *testing.T) {
	path := writeFile(t, "awards.csv", []byte(
		"year_film,year_ceremony,ceremony,category,name,film,winner\n"+
			"1999,2000,72,BEST PICTURE,Producers,American Beauty,True\n"+
			"1999,2000,72,DIRECTING,Sam Mendes,American Beauty,True\n"))
	rows, err := ReadDelimited(path, testLogger(t))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows including header, got %d", len(rows))
	}
}

func TestReadDelimitedSniffsSemicolon(t *testing.T) {
	path := writeFile(t, "awards.csv", []byte(
		"category;name;film;winner\n"+
			"BEST PICTURE;Producers;Gladiator;True\n"))
	rows, err := ReadDelimited(path, testLogger(t))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 || len(rows[1]) != 4 {
		t.Fatalf("expected semicolon split into 4 fields, got %v", rows)
	}
	if rows[1][2] != "Gladiator" {
		t.Fatalf("unexpected film field: %q", rows[1][2])
	}
}

func TestReadDelimitedSkipsShortLines(t *testing.T) {
	path := writeFile(t, "awards.csv", []byte(
		"category,name,film,winner\n"+
			"BEST PICTURE,Producers,Titanic,True\n"+
			"just,two\n"+
			"DIRECTING,James Cameron,Titanic,True\n"))
	rows, err := ReadDelimited(path, testLogger(t))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected malformed line skipped, got %d rows", len(rows))
	}
}

func TestReadDelimitedEncodingFallback(t *testing.T) {
	// "Amélie" with a Latin-1 0xE9 byte, which is invalid UTF-8.
	latin1 := []byte("category,name,film,winner\nBEST PICTURE,Producers,Am\xe9lie,False\n")
	utf8Version := []byte("category,name,film,winner\nBEST PICTURE,Producers,Amélie,False\n")

	log := testLogger(t)
	latinRows, err := ReadDelimited(writeFile(t, "latin1.csv", latin1), log)
	if err != nil {
		t.Fatalf("latin-1 read: %v", err)
	}
	utfRows, err := ReadDelimited(writeFile(t, "utf8.csv", utf8Version), log)
	if err != nil {
		t.Fatalf("utf-8 read: %v", err)
	}
	if len(latinRows) != len(utfRows) {
		t.Fatalf("expected identical row counts across encodings, got %d vs %d", len(latinRows), len(utfRows))
	}
	if latinRows[1][2] != "Amélie" {
		t.Fatalf("expected fallback decode to recover accented title, got %q", latinRows[1][2])
	}
}

func TestParseAwardRows(t *testing.T) {
	rows := [][]string{
		{"year_film", "year_ceremony", "ceremony", "category", "name", "film", "winner"},
		{"2019", "2020", "92", "BEST PICTURE", "Producers", "Parasite", "True"},
		{"", "", "", "DIRECTING", "", "", "nope"},
	}
	got := ParseAwardRows(rows, testLogger(t))
	if len(got) != 2 {
		t.Fatalf("expected 2 parsed rows, got %d", len(got))
	}
	first := got[0]
	if first.YearCeremony != 2020 || first.Ceremony != 92 || !first.Winner {
		t.Fatalf("unexpected first row: %+v", first)
	}
	second := got[1]
	if second.YearFilm != 0 || second.Film != "" || second.Winner {
		t.Fatalf("expected absent values to degrade to zero values: %+v", second)
	}
}

func TestParseAwardRowsHeaderOnly(t *testing.T) {
	rows := [][]string{{"category", "name", "film", "winner"}}
	if got := ParseAwardRows(rows, testLogger(t)); len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
}
