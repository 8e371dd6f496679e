package search

// LetterCounts is a multiset of available letters indexed by byte.
type LetterCounts [256]int

// CountLetters builds the multiset for letters.
func CountLetters(letters string) LetterCounts {
	var counts LetterCounts
	for i := 0; i < len(letters); i++ {
		counts[letters[i]]++
	}
	return counts
}

// IsLiteral reports whether a template byte pins its position to that letter.
// Every other byte is a wildcard.
func IsLiteral(c byte) bool {
	return c >= 'a' && c <= 'z'
}

// LiteralPrefix returns the leading run of literal template bytes.
func LiteralPrefix(template string) string {
	for i := 0; i < len(template); i++ {
		if !IsLiteral(template[i]) {
			return template[:i]
		}
	}
	return template
}

// Match reports whether word fits template using letters from counts.
// Each word byte consumes one available letter; literal template bytes must
// equal the word byte at that position. counts is taken by value.
func Match(word, template string, counts LetterCounts) bool {
	if len(word) != len(template) {
		return false
	}
	for i := 0; i < len(word); i++ {
		w := word[i]
		if counts[w] == 0 {
			return false
		}
		if t := template[i]; IsLiteral(t) && t != w {
			return false
		}
		counts[w]--
	}
	return true
}
