package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type wordRange struct {
	start int
	end   int
}

// findWords returns the space-delimited words of runes.
func findWords(runes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range runes {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(runes)})
	}
	return words
}

// wrapText breaks plain text at spaces so that no line exceeds width display
// columns. Words wider than width are split.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	paragraphs := strings.Split(s, "\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		out = append(out, wrapParagraph([]rune(p), width)...)
	}
	return strings.Join(out, "\n")
}

func wrapParagraph(runes []rune, width int) []string {
	words := findWords(runes)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, w := range words {
		word := runes[w.start:w.end]
		wordWidth := runewidth.StringWidth(string(word))
		if lineWidth > 0 && lineWidth+1+wordWidth > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		for wordWidth > width {
			head, rest := splitAtWidth(word, width-lineWidth)
			line.WriteString(string(head))
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
			word = rest
			wordWidth = runewidth.StringWidth(string(word))
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(string(word))
		lineWidth += wordWidth
	}
	lines = append(lines, line.String())
	return lines
}

func splitAtWidth(word []rune, width int) ([]rune, []rune) {
	total := 0
	for i, r := range word {
		rw := runewidth.RuneWidth(r)
		if total+rw > width && i > 0 {
			return word[:i], word[i:]
		}
		total += rw
	}
	return word, nil
}
