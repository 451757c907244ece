package utils

// SplitText splits a long string into chunks of roughly chunkSize runes with
// an overlap that preserves context across boundaries. Chunks prefer to break
// at whitespace so statute articles are not cut mid-word.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		} else {
			end = breakAtWhitespace(runes, i, end)
		}

		chunks = append(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// breakAtWhitespace walks back from end looking for a space to break at,
// giving up after a short window so a pathological unbroken run still splits.
func breakAtWhitespace(runes []rune, start, end int) int {
	const window = 80
	for i := end; i > end-window && i > start; i-- {
		if runes[i-1] == ' ' || runes[i-1] == '\n' {
			return i
		}
	}
	return end
}
