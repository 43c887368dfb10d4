package extract

import (
	"strings"
	"testing"
)

func TestBuildExcerpt_JoinsFirstTwoSentences(t *testing.T) {
	content := "The first sentence has plenty of characters in it. The second one is also long enough to qualify. A third sentence should not appear."

	got := buildExcerpt(content)
	want := "The first sentence has plenty of characters in it. The second one is also long enough to qualify."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestBuildExcerpt_SkipsShortFragments(t *testing.T) {
	content := "Ok. Yes. This sentence is clearly long enough to be kept. And so is this other trailing sentence here."

	got := buildExcerpt(content)
	if strings.HasPrefix(got, "Ok") {
		t.Errorf("Expected short fragments to be skipped, got %q", got)
	}
	if !strings.Contains(got, "clearly long enough") {
		t.Errorf("Expected first qualifying fragment, got %q", got)
	}
}

func TestBuildExcerpt_FallsBackWithoutSentences(t *testing.T) {
	content := strings.Repeat("word ", 100) // no terminal punctuation

	got := buildExcerpt(content)
	if len([]rune(got)) != excerptMaxLength+3 {
		t.Errorf("Expected 300-char fallback with ellipsis, got %d chars", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncation marker, got %q", got)
	}
}

func TestBuildExcerpt_TruncatesLongSentences(t *testing.T) {
	content := strings.Repeat("a", 400) + ". " + strings.Repeat("b", 400) + "."

	got := buildExcerpt(content)
	if len([]rune(got)) != excerptMaxLength+3 {
		t.Errorf("Expected hard cap at 300 chars plus marker, got %d chars", len([]rune(got)))
	}
}

func TestBuildExcerpt_ShortContentUnchanged(t *testing.T) {
	content := "A single qualifying sentence that stays intact here"

	got := buildExcerpt(content)
	want := content + "."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
