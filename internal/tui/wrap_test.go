package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestFindWords(t *testing.T) {
	words := findWords([]rune("  one two  "))
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].start != 2 || words[0].end != 5 || words[1].start != 6 {
		t.Fatalf("unexpected ranges %+v", words)
	}
}

func TestWrapTextRespectsWidth(t *testing.T) {
	text := "The risk-adjusted DCF suggests £12.3m, while comparable analysis suggests £15.0m."
	out := wrapText(text, 20)
	for _, line := range strings.Split(out, "\n") {
		if w := runewidth.StringWidth(line); w > 20 {
			t.Fatalf("line %q is %d columns wide", line, w)
		}
	}
	if strings.Join(strings.Fields(out), " ") != text {
		t.Fatalf("wrapping lost words: %q", out)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	out := wrapText("abcdefghij", 4)
	if out != "abcd\nefgh\nij" {
		t.Fatalf("unexpected split %q", out)
	}
}

func TestWrapTextKeepsParagraphs(t *testing.T) {
	out := wrapText("a b\n\nc", 10)
	if out != "a b\n\nc" {
		t.Fatalf("unexpected paragraphs %q", out)
	}
}
