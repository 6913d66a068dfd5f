package rag

import "strings"

// Chunk splits text into overlapping, boundary-aware segments of at most
// size bytes. Break points prefer a paragraph separator, then a sentence
// terminator, then a plain space, and are only taken past the midpoint of
// the window so chunks never degenerate; otherwise the window is hard-cut.
// The next window starts at max(previousStart+1, end-overlap), which
// guarantees forward progress even when overlap >= size.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		if start+size >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		window := text[start : start+size]
		end := start + boundaryCut(window)
		chunks = append(chunks, text[start:end])

		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// boundaryCut returns the cut position within window, preferring natural
// boundaries that fall past the window midpoint.
func boundaryCut(window string) int {
	half := len(window) / 2

	if i := strings.LastIndex(window, "\n\n"); i > half {
		return i + 2
	}

	best := -1
	for _, sep := range []string{". ", ".\n", "! ", "!\n", "? ", "?\n"} {
		if i := strings.LastIndex(window, sep); i > half && i+len(sep) > best {
			best = i + len(sep)
		}
	}
	if best > 0 {
		return best
	}

	if i := strings.LastIndex(window, " "); i > half {
		return i + 1
	}
	return len(window)
}
