// Package classify scores normalized document text against weighted
// keyword dictionaries to decide the document type.
package classify

import (
	"math"
	"sort"
	"strings"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

// DefaultKeywords returns the built-in keyword dictionaries for the
// three supported Taiwanese document families. The catch-all type
// carries no keywords and never scores.
func DefaultKeywords() domain.ClassificationKeywords {
	return domain.ClassificationKeywords{
		domain.DocInvoice: {
			Weight: 1.0,
			Keywords: []string{
				"統一發票", "發票號碼", "發票字軌", "稅額", "營業稅",
				"買受人", "賣方", "銷售額", "應稅銷售額", "免稅銷售額",
				"課稅別", "發票", "統編", "買方統編", "賣方統編",
			},
		},
		domain.DocUtility: {
			Weight: 1.0,
			Keywords: []string{
				"電號", "用電度數", "水號", "本期", "繳費期限",
				"電費", "水費", "台電", "自來水", "用電",
				"用水", "度數", "本期應繳", "電力公司", "水公司",
				"瓦斯費",
			},
		},
		domain.DocLaborHealth: {
			Weight: 1.0,
			Keywords: []string{
				"勞保", "健保", "投保薪資", "保險費", "被保險人",
				"保險證號", "繳款書", "勞工保險", "全民健康保險", "勞保局",
				"健保局", "保費", "投保單位", "保險費合計",
			},
		},
		domain.DocOther: {Weight: 0, Keywords: nil},
	}
}

// Classifier matches keyword dictionaries against whitespace-stripped
// lowercase text. It is stateless and safe for concurrent use.
type Classifier struct {
	keywords domain.ClassificationKeywords
}

// NewClassifier builds a classifier over the given dictionaries; nil
// falls back to the defaults.
func NewClassifier(keywords domain.ClassificationKeywords) *Classifier {
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}
	return &Classifier{keywords: keywords}
}

// Classify is a total function: any input, including empty text, yields
// a result. No keyword match means the catch-all type at confidence 0.
func (c *Classifier) Classify(text string) domain.ClassificationResult {
	normalized := normalize(text)

	scores := make(map[domain.DocType]float64, len(c.keywords))
	matched := make(map[domain.DocType][]domain.KeywordMatch, len(c.keywords))

	for docType, set := range c.keywords {
		var score float64
		for _, keyword := range set.Keywords {
			occurrences := strings.Count(normalized, normalize(keyword))
			if occurrences == 0 {
				continue
			}
			contribution := (1 + math.Log(float64(occurrences))) * set.Weight
			score += contribution
			matched[docType] = append(matched[docType], domain.KeywordMatch{
				Keyword:     keyword,
				Occurrences: occurrences,
				Score:       contribution,
			})
		}
		scores[docType] = score
	}

	best := domain.DocOther
	bestScore := 0.0
	for _, docType := range orderedTypes(scores) {
		if scores[docType] > bestScore {
			best = docType
			bestScore = scores[docType]
		}
	}

	if bestScore == 0 {
		return domain.ClassificationResult{
			DocType:    domain.DocOther,
			Confidence: 0,
			Scores:     scores,
		}
	}

	return domain.ClassificationResult{
		DocType:         best,
		Confidence:      confidence(bestScore, scores),
		MatchedKeywords: matched[best],
		Scores:          scores,
	}
}

func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '　' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// confidence maps the winner's share of the total score through a
// sigmoid centered at 0.5, plus a small absolute-score bonus, capped
// at 1.
func confidence(bestScore float64, scores map[domain.DocType]float64) float64 {
	var total float64
	for _, s := range scores {
		total += s
	}
	if total == 0 {
		return 0
	}

	share := bestScore / total
	sigmoid := 1 / (1 + math.Exp(-10*(share-0.5)))
	bonus := math.Min(bestScore/10, 0.2)

	return math.Min(sigmoid+bonus, 1.0)
}

// orderedTypes makes the winner deterministic when map iteration order
// would otherwise break ties arbitrarily.
func orderedTypes(scores map[domain.DocType]float64) []domain.DocType {
	types := make([]domain.DocType, 0, len(scores))
	for docType := range scores {
		types = append(types, docType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
