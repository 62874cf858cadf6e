package normalize

import (
	"testing"
	"time"
)

func TestParseCrewPairs(t *testing.T) {
	got := ParseCrew("Tom Hanks, Actor, Meg Ryan, Actress")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Name != "Tom Hanks" || got[0].Role != "Actor" {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if got[1].Name != "Meg Ryan" || got[1].Role != "Actress" {
		t.Fatalf("unexpected second entry: %+v", got[1])
	}
}

func TestParseCrewDropsTrailingToken(t *testing.T) {
	got := ParseCrew("A, B, C")
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Name != "A" || got[0].Role != "B" {
		t.Fatalf("unexpected entry: %+v", got[0])
	}
}

func TestParseCrewEmpty(t *testing.T) {
	if got := ParseCrew(""); len(got) != 0 {
		t.Fatalf("expected empty slice, got %+v", got)
	}
}

func TestParseDelimitedList(t *testing.T) {
	got := ParseDelimitedList(" Action,  Drama ,,Comedy", ",")
	want := []string{"Action", "Drama", "Comedy"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q got %q", i, want[i], got[i])
		}
	}
	if got := ParseDelimitedList("   ", ","); len(got) != 0 {
		t.Fatalf("expected empty slice for blank input, got %v", got)
	}
}

func TestParseCurrency(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{"$1,000,000", 1000000},
		{"", 0},
		{nil, 0},
		{"garbage", 0},
		{"250.5", 250.5},
		{float64(42), 42},
		{int32(7), 7},
		{int64(9), 9},
	}
	for _, c := range cases {
		if got := ParseCurrency(c.in); got != c.want {
			t.Errorf("ParseCurrency(%v): expected %v got %v", c.in, c.want, got)
		}
	}
}

func TestNormalizeTitle(t *testing.T) {
	a := NormalizeTitle("The Matrix (1999)!")
	b := NormalizeTitle("the  matrix 1999")
	if a != "thematrix1999" || b != "thematrix1999" {
		t.Fatalf("expected both forms to normalize to thematrix1999, got %q and %q", a, b)
	}
	if got := NormalizeTitle(""); got != "" {
		t.Fatalf("expected empty result for empty input, got %q", got)
	}
}

func TestParseBooleanFlag(t *testing.T) {
	for _, truthy := range []string{"true", "TRUE", "1", "yes", " Yes "} {
		if !ParseBooleanFlag(truthy) {
			t.Errorf("expected %q to be truthy", truthy)
		}
	}
	for _, falsy := range []string{"", "0", "no", "False", "si"} {
		if ParseBooleanFlag(falsy) {
			t.Errorf("expected %q to be falsy", falsy)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("03/02/2023", MonthDayYearLayout)
	if !ok {
		t.Fatal("expected valid parse")
	}
	if got.Month() != time.March || got.Day() != 2 || got.Year() != 2023 {
		t.Fatalf("unexpected date: %v", got)
	}
	if _, ok := ParseDate("2023-03-02", MonthDayYearLayout); ok {
		t.Fatal("expected mismatched layout to report no value")
	}
	if _, ok := ParseDate("", MonthDayYearLayout); ok {
		t.Fatal("expected empty input to report no value")
	}
}

func TestParseObjectIDOrRaw(t *testing.T) {
	if _, isString := ParseObjectIDOrRaw("573a1390f29313caabcd42e8").(string); isString {
		t.Fatal("expected valid hex to convert to a native id")
	}
	raw := ParseObjectIDOrRaw("tt0133093")
	if s, isString := raw.(string); !isString || s != "tt0133093" {
		t.Fatalf("expected raw fallback, got %v", raw)
	}
}
