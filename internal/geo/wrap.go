package geo

import (
	"strings"
	"unicode"
)

const tabSize = 8

// Wrap breaks text into lines of at most width characters.
//
// Tabs expand to the next multiple of eight columns and every other
// whitespace character becomes one space. Runs of spaces are kept inside a
// line and dropped where a line breaks. Words break after a hyphen joining
// two letter runs ("anti-" "government"). Words longer than width are cut,
// at a hyphen when one fits, filling the rest of the current line first.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	return wrapChunks(splitChunks(normalizeSpace(text)), width)
}

func normalizeSpace(text string) []rune {
	out := make([]rune, 0, len(text))
	col := 0
	for _, r := range text {
		switch r {
		case '\t':
			n := tabSize - col%tabSize
			for range n {
				out = append(out, ' ')
			}
			col += n
		case '\n', '\r':
			out = append(out, ' ')
			col = 0
		case '\v', '\f':
			out = append(out, ' ')
			col++
		default:
			out = append(out, r)
			col++
		}
	}
	return out
}

func isSpace(r rune) bool { return r == ' ' }

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isLetter is a word character that is not a decimal digit.
func isLetter(r rune) bool { return isWordChar(r) && !unicode.IsDigit(r) }

// isWordEnd reports characters after which a dash run counts as an em-dash.
func isWordEnd(r rune) bool { return isWordChar(r) || strings.ContainsRune(`!"'&.,?`, r) }

// splitChunks cuts text into runs of spaces and words, where a word also
// ends after a hyphen joining two letter runs or before an em-dash.
func splitChunks(text []rune) [][]rune {
	at := func(i int) rune {
		if i < 0 || i >= len(text) {
			return 0
		}
		return text[i]
	}
	letter := func(i int) bool { return i >= 0 && i < len(text) && isLetter(text[i]) }

	// dashRun reports whether a run of two or more dashes starting at i is
	// followed by a word character, and where the run ends.
	dashRun := func(i int) (int, bool) {
		j := i
		for at(j) == '-' {
			j++
		}
		return j, j-i >= 2 && j < len(text) && isWordChar(text[j])
	}

	var chunks [][]rune
	for i := 0; i < len(text); {
		if isSpace(text[i]) {
			j := i
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			chunks = append(chunks, text[i:j])
			i = j
			continue
		}
		if at(i) == '-' && i > 0 && isWordEnd(text[i-1]) {
			if j, ok := dashRun(i); ok {
				chunks = append(chunks, text[i:j])
				i = j
				continue
			}
		}

		end := len(text)
		for j := i + 1; j <= len(text); j++ {
			if j == len(text) || isSpace(text[j]) {
				end = j
				break
			}
			if text[j] == '-' &&
				((letter(j-2) && letter(j-1)) || (letter(j-3) && at(j-2) == '-' && letter(j-1))) &&
				letter(j+1) && (letter(j+2) || (at(j+2) == '-' && letter(j+3))) {
				end = j + 1
				break
			}
			if isWordEnd(text[j-1]) {
				if _, ok := dashRun(j); ok {
					end = j
					break
				}
			}
		}
		chunks = append(chunks, text[i:end])
		i = end
	}
	return chunks
}

func isBlank(chunk []rune) bool {
	for _, r := range chunk {
		if !isSpace(r) {
			return false
		}
	}
	return true
}

func wrapChunks(chunks [][]rune, width int) []string {
	var lines []string
	for len(chunks) > 0 {
		if len(lines) > 0 && isBlank(chunks[0]) {
			chunks = chunks[1:]
		}

		var cur [][]rune
		n := 0
		for len(chunks) > 0 && n+len(chunks[0]) <= width {
			cur = append(cur, chunks[0])
			n += len(chunks[0])
			chunks = chunks[1:]
		}

		if len(chunks) > 0 && len(chunks[0]) > width {
			word := chunks[0]
			cut := width - n
			if cut > 0 && len(word) > cut {
				if h := lastHyphen(word[:cut]); h > 0 && !allDashes(word[:h]) {
					cut = h + 1
				}
			}
			cur = append(cur, word[:cut])
			chunks[0] = word[cut:]
		}

		if len(cur) > 0 && isBlank(cur[len(cur)-1]) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 0 {
			var b strings.Builder
			for _, c := range cur {
				b.WriteString(string(c))
			}
			lines = append(lines, b.String())
		}
	}
	return lines
}

func lastHyphen(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == '-' {
			return i
		}
	}
	return -1
}

func allDashes(rs []rune) bool {
	for _, r := range rs {
		if r != '-' {
			return false
		}
	}
	return true
}
