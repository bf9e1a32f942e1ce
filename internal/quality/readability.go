package quality

import (
	"strings"
	"unicode"
)

// FleschReadingEase computes 206.835 − 1.015×(words/sentences) −
// 84.6×(syllables/words) over plain text. Empty text scores 0.
func FleschReadingEase(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordCount := float64(len(words))
	return 206.835 - 1.015*(wordCount/float64(sentences)) - 84.6*(float64(syllables)/wordCount)
}

func countSentences(text string) int {
	count := 0
	inTerminator := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inTerminator {
				count++
				inTerminator = true
			}
		default:
			inTerminator = false
		}
	}
	return count
}

// countSyllables approximates syllables as runs of vowel letters, with a
// minimum of one per word.
func countSyllables(word string) int {
	count := 0
	inVowelRun := false
	for _, r := range strings.ToLower(word) {
		if !unicode.IsLetter(r) {
			inVowelRun = false
			continue
		}
		if isVowel(r) {
			if !inVowelRun {
				count++
				inVowelRun = true
			}
		} else {
			inVowelRun = false
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
