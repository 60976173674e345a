// Package cli provides output formatting for the gitscout command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/stackfin/gitscout/internal/models"
	"github.com/stackfin/gitscout/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// ParseOutputFormat validates a format flag value.
func ParseOutputFormat(s string) (SearchOutputFormat, error) {
	switch s {
	case "text", "":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// SearchResponse is the wire shape of POST /api/v1/search, shared by the
// HTTP client and the direct-storage path.
type SearchResponse struct {
	Results     []models.SearchResult `json:"results"`
	Count       int                   `json:"count"`
	QueryTimeMS int64                 `json:"query_time_ms"`
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, resp *SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	default:
		writeSearchResultsText(w, resp)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, resp *SearchResponse) {
	if resp.Count == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	fmt.Fprintf(w, "Found %d result(s) in %dms\n\n", resp.Count, resp.QueryTimeMS)
	for _, r := range resp.Results {
		fmt.Fprintf(w, "%3d. %-14s %-24s %.4f\n", r.Rank, r.ItemType, r.ItemID, r.Score)
		for _, h := range r.Highlights {
			fmt.Fprintf(w, "     %s: %s\n", h.Field, utils.Truncate(h.Snippet, 160))
		}
	}
}
