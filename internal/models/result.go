package models

// Source identifies which retrieval path produced a ranked item.
type Source string

const (
	SourceText   Source = "text"
	SourceVector Source = "vector"
)

// Highlight is one matched-span excerpt from a stored text field.
type Highlight struct {
	Field   string `json:"field"`
	Snippet string `json:"snippet"`
}

// RankedItem is one retrieved document from a single retrieval path.
// RawScore is provider-native and not comparable across sources.
type RankedItem struct {
	ItemID     string
	RawScore   float64
	Rank       int // 1-based position within its source list
	Source     Source
	Highlights []Highlight // text path only
}

// SearchResult is one fused, externally visible search hit.
type SearchResult struct {
	ItemID string `json:"item_id"`
	// ItemType is derived from the ID prefix (issue:, pr:, repo:).
	ItemType ItemType `json:"item_type"`
	// Score is the fused score; its scale depends on the rerank strategy.
	Score float64 `json:"score"`
	// Rank is dense and 1-based, assigned after fusion and before
	// offset/limit windowing.
	Rank       int         `json:"rank"`
	Highlights []Highlight `json:"highlights,omitempty"`
}

// ItemTypeFromID derives the item type from a full ID such as "issue:42".
func ItemTypeFromID(id string) ItemType {
	switch {
	case len(id) > 6 && id[:6] == "issue:":
		return ItemTypeIssue
	case len(id) > 3 && id[:3] == "pr:":
		return ItemTypePullRequest
	case len(id) > 5 && id[:5] == "repo:":
		return ItemTypeRepository
	}
	return ""
}
