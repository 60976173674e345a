package e2e

import (
	"testing"

	"github.com/stackfin/gitscout/internal/models"
)

func TestBuildCorpus_ThreeItemsPerTopic(t *testing.T) {
	c := BuildCorpus()
	want := 3 * len(corpusTopics)
	if c.TotalItems != want || len(c.Items) != want {
		t.Errorf("expected %d items, got %d", want, c.TotalItems)
	}
	var issues, prs, repos int
	for _, it := range c.Items {
		switch it.Type() {
		case models.ItemTypeIssue:
			issues++
		case models.ItemTypePullRequest:
			prs++
		case models.ItemTypeRepository:
			repos++
		}
	}
	if issues != len(corpusTopics) || prs != len(corpusTopics) || repos != len(corpusTopics) {
		t.Errorf("got %d issues, %d prs, %d repos; want %d of each", issues, prs, repos, len(corpusTopics))
	}
}

func TestBuildCorpus_UniqueIDs(t *testing.T) {
	c := BuildCorpus()
	seen := make(map[string]bool)
	for _, it := range c.Items {
		id := it.FullID()
		if seen[id] {
			t.Errorf("duplicate item ID %q", id)
		}
		seen[id] = true
	}
}

func TestBuildCorpus_QueryTestCasesExist(t *testing.T) {
	c := BuildCorpus()
	if c.TotalQueries == 0 {
		t.Fatal("expected at least one query test case")
	}
	for i, tc := range c.TestCases {
		if tc.Query == "" {
			t.Errorf("test case %d: empty query", i)
		}
		if len(tc.ExpectedItemIDs) == 0 {
			t.Errorf("test case %d: no expected item IDs", i)
		}
	}
}

func TestBuildCorpus_ExpectedItemsContainQueryPhrase(t *testing.T) {
	c := BuildCorpus()
	byID := c.itemByID()
	for _, tc := range c.TestCases {
		for _, id := range tc.ExpectedItemIDs {
			item, ok := byID[id]
			if !ok {
				t.Errorf("expected item ID %q not in corpus", id)
				continue
			}
			if !ContainsPhrase(item, tc.Query) {
				t.Errorf("item %q does not contain query phrase %q", id, tc.Query)
			}
		}
	}
}

func TestContainsPhrase(t *testing.T) {
	issue := &models.Issue{Title: "oauth token refresh loop", Body: "tokens re-requested"}
	if !ContainsPhrase(issue, "OAuth refresh") {
		t.Error("expected case-insensitive word match")
	}
	if ContainsPhrase(issue, "oauth revocation") {
		t.Error("did not expect match for absent word")
	}
}
