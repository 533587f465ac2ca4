package splitter

// Split divides text into overlapping fixed-size windows. Window i+1
// starts size-overlap characters after window i, so the same parameters
// always produce the same windows. Text shorter than one window yields
// exactly one window. The caller guarantees 0 <= overlap < size.
func Split(text string, size, overlap int) []string {
	if text == "" {
		return []string{""}
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	stride := size - overlap
	chunks := make([]string, 0, (len(runes)+stride-1)/stride)
	for start := 0; start < len(runes); start += stride {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
