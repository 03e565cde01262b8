package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// semanticContainers matches tags that explicitly mark main content.
// Compiled once; cascadia selectors are goroutine-safe.
var semanticContainers = cascadia.MustCompile("article, main, [role='main']")

// Scoring weights for the block scorer. Text length is the base signal;
// semantic tags earn a bonus, sidebar/ad-like class names a penalty.
const (
	semanticTagBonus     = 200.0
	negativeTagPenalty   = 200.0
	positiveClassBonus   = 100.0
	negativeClassPenalty = 200.0
)

// negativeClassPatterns are substrings in class/id attributes that mark
// non-content blocks left over after boilerplate removal.
var negativeClassPatterns = []string{
	"sidebar", "widget", "menu", "related", "recommend", "ad-", "ads",
}

// positiveClassPatterns are substrings in class/id attributes that mark
// main content areas.
var positiveClassPatterns = []string{
	"content", "article", "post", "entry", "main", "body", "text",
}

// selectContainer picks the highest-signal content container: a semantic
// article/main element when present, otherwise the best-scoring block
// under <body>, falling back to the full body.
func selectContainer(doc *goquery.Document) *goquery.Selection {
	if matches := doc.FindMatcher(semanticContainers); matches.Length() > 0 {
		return longestText(matches)
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Selection
	}

	var best *goquery.Selection
	bestScore := 0.0
	body.Children().Each(func(_ int, el *goquery.Selection) {
		if score := scoreBlock(el); score > bestScore {
			best, bestScore = el, score
		}
	})

	if best == nil {
		return body
	}
	return best
}

// longestText returns the matched element with the most visible text.
func longestText(matches *goquery.Selection) *goquery.Selection {
	best := matches.First()
	bestLen := len(strings.TrimSpace(best.Text()))
	matches.Each(func(_ int, el *goquery.Selection) {
		if l := len(strings.TrimSpace(el.Text())); l > bestLen {
			best, bestLen = el, l
		}
	})
	return best
}

// scoreBlock scores a candidate content block: text length plus a bonus
// for semantic tags and a penalty for sidebar/ad-like class names.
func scoreBlock(el *goquery.Selection) float64 {
	text := strings.TrimSpace(el.Text())
	if text == "" {
		return 0
	}

	score := float64(len(text))

	switch goquery.NodeName(el) {
	case "article", "main", "section":
		score += semanticTagBonus
	case "nav", "footer", "aside", "header":
		score -= negativeTagPenalty
	}

	class, _ := el.Attr("class")
	id, _ := el.Attr("id")
	combined := strings.ToLower(class + " " + id)

	for _, pat := range positiveClassPatterns {
		if strings.Contains(combined, pat) {
			score += positiveClassBonus
			break
		}
	}
	for _, pat := range negativeClassPatterns {
		if strings.Contains(combined, pat) {
			score -= negativeClassPenalty
			break
		}
	}

	return score
}
