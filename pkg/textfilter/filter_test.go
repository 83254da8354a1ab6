package textfilter

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanNarrationStripsEmphasis(t *testing.T) {
	in := "Bocchi **sangat** gugup, tapi *mencoba* tersenyum."
	want := "Bocchi sangat gugup, tapi mencoba tersenyum."
	if got := CleanNarration(in); got != want {
		t.Errorf("CleanNarration = %q, want %q", got, want)
	}
}

func TestCleanNarrationCollapsesWhitespace(t *testing.T) {
	in := "Baris satu.\n\n\n\nBaris  dua."
	want := "Baris satu.\n\nBaris dua."
	if got := CleanNarration(in); got != want {
		t.Errorf("CleanNarration = %q, want %q", got, want)
	}
}

func TestCleanNarrationCapsLength(t *testing.T) {
	sentence := "Kalimat yang cukup panjang untuk mengisi ruang. "
	in := strings.Repeat(sentence, 200)
	got := CleanNarration(in)
	if len(got) > MaxNarrationLength {
		t.Errorf("length = %d, want at most %d", len(got), MaxNarrationLength)
	}
	if !strings.HasSuffix(got, ".") {
		t.Errorf("truncation should end at a sentence boundary, got %q", got[len(got)-10:])
	}
}

func TestCleanNarrationTruncatesOnRuneBoundary(t *testing.T) {
	// No sentence ends and no spaces, so truncation falls through to the
	// raw cut. Multibyte runes must not be split at the cap.
	in := strings.Repeat("え", MaxNarrationLength)
	got := CleanNarration(in)
	if len(got) > MaxNarrationLength {
		t.Errorf("length = %d, want at most %d", len(got), MaxNarrationLength)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8 near the end: %q", got[len(got)-8:])
	}
}

func TestCleanNarrationShortTextUntouched(t *testing.T) {
	in := "Hujan turun di Shimokitazawa."
	if got := CleanNarration(in); got != in {
		t.Errorf("CleanNarration changed clean text: %q", got)
	}
}

func TestTitleName(t *testing.T) {
	cases := map[string]string{
		"bocchi": "Bocchi",
		"nijika": "Nijika",
		"ryo":    "Ryo",
		"kita":   "Kita",
	}
	for in, want := range cases {
		if got := TitleName(in); got != want {
			t.Errorf("TitleName(%q) = %q, want %q", in, got, want)
		}
	}
}
