package extract

import (
	"strings"
	"testing"
)

func TestNormalize_CollapsesSpaceRuns(t *testing.T) {
	got := Normalize("some    text  with   runs")
	want := "some text with runs"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalize_CollapsesNewlineRuns(t *testing.T) {
	got := Normalize("first\n\n\n\n\nsecond")
	want := "first\n\nsecond"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalize_ConvertsTabs(t *testing.T) {
	got := Normalize("a\tb\t\tc")
	want := "a b c"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalize_StripsControlCharacters(t *testing.T) {
	got := Normalize("clean\x00\x07 text\x1b here")
	want := "clean text here"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalize_CollapsesAroundStrippedCharacters(t *testing.T) {
	got := Normalize("control\x00 chars \x1f mixed in")
	want := "control chars mixed in"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalize_Trims(t *testing.T) {
	got := Normalize("  \n padded \n  ")
	want := "padded"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"plain sentence with words.",
		"multi\n\nparagraph   text\twith\ttabs and\n\n\n\nruns",
		"  control\x00 chars \x1f mixed in\n\n",
		"para one\n\x1f\n\npara two",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Expected normalization to be idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalize_PreservesParagraphBreaks(t *testing.T) {
	got := Normalize("para one\n\npara two")
	if !strings.Contains(got, "\n\n") {
		t.Errorf("Expected double newline to survive, got %q", got)
	}
}
