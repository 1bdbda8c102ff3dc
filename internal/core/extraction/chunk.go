package extraction

import "unicode/utf8"

// SplitText partitions oversized document text into overlapping chunks so no
// single request exceeds the service's size limit. Boundaries are pulled back
// to rune starts so a chunk never carries a torn multi-byte character. The
// split is deterministic: same text and limits, same chunks.
func SplitText(text string, maxChars, overlap int) []string {
	if maxChars <= 0 || len(text) <= maxChars {
		return []string{text}
	}
	if overlap < 0 || overlap >= maxChars {
		overlap = 0
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + maxChars
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		end = runeStart(text, end, start)
		if end == start {
			// A single rune wider than maxChars; take it torn rather
			// than loop.
			end = start + maxChars
		}
		chunks = append(chunks, text[start:end])

		next := runeStart(text, end-overlap, start)
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// runeStart walks pos back to the nearest rune boundary, never past floor.
func runeStart(text string, pos, floor int) int {
	for pos > floor && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
