package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stackfin/gitscout/internal/models"
)

func sampleResponse() *SearchResponse {
	return &SearchResponse{
		Results: []models.SearchResult{
			{
				ItemID:   "issue:42",
				ItemType: models.ItemTypeIssue,
				Score:    0.0321,
				Rank:     1,
				Highlights: []models.Highlight{
					{Field: "title", Snippet: "Database <mark>timeout</mark> on login"},
				},
			},
			{ItemID: "pr:7", ItemType: models.ItemTypePullRequest, Score: 0.0123, Rank: 2},
		},
		Count:       2,
		QueryTimeMS: 12,
	}
}

func TestWriteSearchResults_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Found 2 result(s) in 12ms", "issue:42", "pr:7", "title: Database"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResults_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, &SearchResponse{}, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No results.") {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Count != 2 || len(decoded.Results) != 2 {
		t.Errorf("decoded %+v", decoded)
	}
	if decoded.Results[0].ItemID != "issue:42" || decoded.Results[0].Rank != 1 {
		t.Errorf("first result = %+v", decoded.Results[0])
	}
}

func TestParseOutputFormat(t *testing.T) {
	if f, err := ParseOutputFormat(""); err != nil || f != OutputText {
		t.Errorf("empty = %v, %v", f, err)
	}
	if f, err := ParseOutputFormat("json"); err != nil || f != OutputJSON {
		t.Errorf("json = %v, %v", f, err)
	}
	if _, err := ParseOutputFormat("yaml"); err == nil {
		t.Error("expected error for yaml")
	}
}
