package report

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/logics-tools/logics/internal/docs"
	"github.com/logics-tools/logics/internal/repo"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// DuplicatePair is a pair of documents whose normalized titles are more
// similar than the configured threshold.
type DuplicatePair struct {
	A, B  *docs.Document
	Score float64
}

// Duplicates scans every document and reports title pairs whose similarity
// meets the threshold. Exact slug collisions always score 1.0.
func Duplicates(r *repo.Repository, threshold float64) ([]DuplicatePair, []repo.ScanWarning, error) {
	all, warnings, err := r.ScanAll()
	if err != nil {
		return nil, nil, err
	}

	var pairs []DuplicatePair
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			score := titleSimilarity(all[i].Title, all[j].Title)
			if all[i].Slug() == all[j].Slug() {
				score = 1.0
			}
			if score >= threshold {
				pairs = append(pairs, DuplicatePair{A: all[i], B: all[j], Score: score})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		return pairs[i].A.Ref < pairs[j].A.Ref
	})
	return pairs, warnings, nil
}

// RenderDuplicates formats the pairs as a report document.
func RenderDuplicates(pairs []DuplicatePair, threshold float64) string {
	var lines []string
	lines = append(lines,
		"# Logics Duplicates", "",
		fmt.Sprintf("Similarity threshold: %.2f", threshold), "",
	)
	if len(pairs) == 0 {
		lines = append(lines, "_No likely duplicates found._")
	}
	for _, p := range pairs {
		lines = append(lines, fmt.Sprintf("- %.2f: [%s](%s) ↔ [%s](%s)",
			p.Score, p.A.Ref, p.A.Path, p.B.Ref, p.B.Path))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

// titleSimilarity is the Sørensen–Dice coefficient over word bigrams of
// the normalized titles. 1.0 for identical normalized titles.
func titleSimilarity(a, b string) float64 {
	na, nb := normalizeTitle(a), normalizeTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	ba, bb := bigrams(na), bigrams(nb)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}
	overlap := 0
	for gram, count := range ba {
		if other, ok := bb[gram]; ok {
			overlap += min(count, other)
		}
	}
	return 2 * float64(overlap) / float64(total(ba)+total(bb))
}

func normalizeTitle(title string) string {
	return strings.Join(wordPattern.FindAllString(strings.ToLower(title), -1), " ")
}

func bigrams(s string) map[string]int {
	grams := map[string]int{}
	runes := []rune(s)
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}

func total(grams map[string]int) int {
	n := 0
	for _, count := range grams {
		n += count
	}
	return n
}
