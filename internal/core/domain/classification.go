package domain

type DocType string

const (
	DocInvoice     DocType = "invoice"
	DocUtility     DocType = "utility"
	DocLaborHealth DocType = "labor_health"
	DocOther       DocType = "other"
)

// Label returns the traditional-Chinese display name of a doc type.
func (t DocType) Label() string {
	switch t {
	case DocInvoice:
		return "發票"
	case DocUtility:
		return "水電單"
	case DocLaborHealth:
		return "勞健保繳費單"
	case DocOther:
		return "其他"
	default:
		return "未知"
	}
}

type KeywordMatch struct {
	Keyword     string  `json:"keyword"`
	Occurrences int     `json:"occurrences"`
	Score       float64 `json:"score"`
}

// ClassificationResult is a pure function of input text and the
// keyword dictionary; it carries no persistent identity.
type ClassificationResult struct {
	DocType         DocType             `json:"doc_type"`
	Confidence      float64             `json:"confidence"`
	MatchedKeywords []KeywordMatch      `json:"matched_keywords"`
	Scores          map[DocType]float64 `json:"scores,omitempty"`
}
