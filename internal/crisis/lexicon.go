package crisis

import (
	"strings"
	"unicode"
)

// stressLexicon matches anxiety and stress vocabulary in journal text
type stressLexicon struct {
	terms map[string]bool
}

func newStressLexicon() *stressLexicon {
	return &stressLexicon{terms: defaultStressTerms()}
}

// Count returns the number of lexicon matches in text, case-insensitive
func (l *stressLexicon) Count(text string) int {
	count := 0
	for _, word := range tokenize(text) {
		if l.terms[word] {
			count++
		}
	}
	return count
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func defaultStressTerms() map[string]bool {
	words := []string{
		// pt
		"ansiedade", "ansioso", "ansiosa", "estresse", "estressado", "estressada",
		"pânico", "panico", "desesperado", "desesperada", "desespero", "angústia",
		"angustiado", "angustiada", "medo", "preocupado", "preocupada", "preocupação",
		"nervoso", "nervosa", "exausto", "exausta", "sobrecarregado", "sobrecarregada",
		"sozinho", "sozinha", "tristeza", "chorando", "chorei", "insônia", "vazio",
		"inútil", "desamparado", "desamparada", "sufocado", "sufocada",
		// en
		"anxiety", "anxious", "stress", "stressed", "panic", "hopeless", "desperate",
		"overwhelmed", "worried", "afraid", "scared", "exhausted", "lonely",
		"worthless", "insomnia", "crying",
		// es
		"ansiedad", "estrés", "estresado", "estresada", "pánico", "agobiado", "agobiada",
		"miedo", "angustia",
	}

	result := make(map[string]bool, len(words))
	for _, w := range words {
		result[w] = true
	}
	return result
}
