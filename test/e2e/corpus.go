// Package e2e provides end-to-end tests with a generated corpus of issues,
// pull requests, and repositories, plus query test cases.
package e2e

import (
	"strings"
	"time"

	"github.com/stackfin/gitscout/internal/models"
)

// QueryTestCase defines a query and the item ID(s) that must appear in the
// fused search results. At least one of ExpectedItemIDs must be present.
type QueryTestCase struct {
	Query           string
	ExpectedItemIDs []string
	Description     string
}

// Corpus holds generated items and query test cases.
type Corpus struct {
	Items        []models.Item
	TestCases    []QueryTestCase
	TotalItems   int
	TotalQueries int
}

// corpusTopic generates one issue, one pull request, and one repository, each
// carrying a unique signature phrase so queries can assert the right item
// comes back through the text path.
type corpusTopic struct {
	slug    string
	phrase  string
	body    string
	repo    string
	author  string
	labels  []string
	lang    string
	state   string
}

var corpusTopics = []corpusTopic{
	{"oauth-refresh", "oauth token refresh loop", "Refresh tokens are re-requested on every call. The oauth token refresh loop saturates the auth service.", "acme/auth", "tmartin", []string{"bug", "auth"}, "Go", "open"},
	{"flaky-ci", "flaky integration tests on arm64", "CI reruns pass. The flaky integration tests on arm64 only fail under emulation.", "acme/api", "jroe", []string{"ci", "flaky-test"}, "Go", "open"},
	{"memory-leak", "memory leak in websocket handler", "Heap grows unbounded. The memory leak in websocket handler shows retained closures in pprof.", "acme/realtime", "dkim", []string{"bug", "performance"}, "Go", "open"},
	{"db-timeout", "database connection timeout under load", "Pool exhaustion at peak. The database connection timeout under load needs a bigger pool or backpressure.", "acme/api", "tmartin", []string{"bug", "database"}, "Go", "closed"},
	{"dark-mode", "dark mode theme support", "Users keep asking. Dark mode theme support needs a palette audit first.", "acme/web", "schen", []string{"enhancement", "ui"}, "TypeScript", "open"},
	{"rate-limit", "rate limiting for public endpoints", "Abuse from scrapers. Rate limiting for public endpoints should be per-token with burst allowance.", "acme/api", "jroe", []string{"enhancement", "security"}, "Go", "open"},
	{"csv-export", "csv export produces malformed quotes", "Embedded commas break rows. The csv export produces malformed quotes when fields contain newlines.", "acme/reports", "mlopez", []string{"bug"}, "Python", "closed"},
	{"sso-saml", "saml single sign-on integration", "Enterprise customers need it. The saml single sign-on integration must map groups to roles.", "acme/auth", "schen", []string{"enhancement", "auth"}, "Go", "open"},
	{"search-relevance", "search relevance ranking regression", "Results reordered after upgrade. The search relevance ranking regression traces to an analyzer change.", "acme/search", "dkim", []string{"bug", "search"}, "Go", "open"},
	{"docker-build", "docker build cache invalidation", "Builds take 20 minutes. Docker build cache invalidation happens on every dependency bump.", "acme/infra", "jroe", []string{"ci", "infra"}, "Dockerfile", "closed"},
	{"grpc-deadline", "grpc deadline exceeded on batch calls", "Large batches always fail. The grpc deadline exceeded on batch calls needs chunked requests.", "acme/api", "tmartin", []string{"bug", "grpc"}, "Go", "open"},
	{"i18n-dates", "internationalized date formatting", "Locales render wrong. Internationalized date formatting must respect the user timezone too.", "acme/web", "mlopez", []string{"enhancement", "i18n"}, "TypeScript", "open"},
	{"webhook-retry", "webhook delivery retry with backoff", "Lost events on 5xx. Webhook delivery retry with backoff should cap at one hour.", "acme/integrations", "schen", []string{"enhancement"}, "Go", "open"},
	{"audit-log", "audit log for permission changes", "Compliance requirement. An audit log for permission changes must be append-only.", "acme/auth", "dkim", []string{"enhancement", "security"}, "Go", "closed"},
	{"pagination-cursor", "cursor based pagination for listings", "Offset pagination drifts. Cursor based pagination for listings keeps pages stable under writes.", "acme/api", "jroe", []string{"enhancement", "api"}, "Go", "open"},
}

// BuildCorpus returns the generated corpus. Every topic yields three items
// (issue, pull request, repository) sharing the topic's signature phrase.
func BuildCorpus() *Corpus {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var items []models.Item
	var cases []QueryTestCase

	for i, tp := range corpusTopics {
		issueID := uint64(1000 + i)
		prID := uint64(2000 + i)
		repoID := uint64(3000 + i)

		issue := &models.Issue{
			ID:         issueID,
			Repository: tp.repo,
			Number:     100 + i,
			Title:      tp.phrase,
			Body:       tp.body,
			State:      tp.state,
			Author:     tp.author,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:  base.Add(time.Duration(i+1) * time.Hour),
		}
		for _, l := range tp.labels {
			issue.Labels = append(issue.Labels, models.Label{Name: l})
		}

		pr := &models.PullRequest{
			ID:         prID,
			Repository: tp.repo,
			Number:     500 + i,
			Title:      "Fix " + tp.phrase,
			Body:       "Addresses the report: " + tp.body,
			State:      "merged",
			Author:     tp.author,
			BaseRef:    "main",
			HeadRef:    tp.slug,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:  base.Add(time.Duration(i+2) * time.Hour),
		}

		repo := &models.Repository{
			ID:          repoID,
			Owner:       "acme",
			Name:        tp.slug,
			FullName:    "acme/" + tp.slug,
			Description: "Reference project for " + tp.phrase + ".",
			URL:         "https://github.com/acme/" + tp.slug,
			Language:    tp.lang,
			Topics:      tp.labels,
			Stars:       10 * (i + 1),
			CreatedAt:   base,
			UpdatedAt:   base.Add(time.Duration(i) * time.Hour),
		}

		items = append(items, issue, pr, repo)
		cases = append(cases, QueryTestCase{
			Query:           tp.phrase,
			ExpectedItemIDs: []string{issue.FullID(), pr.FullID(), repo.FullID()},
			Description:     tp.slug,
		})
	}

	return &Corpus{
		Items:        items,
		TestCases:    cases,
		TotalItems:   len(items),
		TotalQueries: len(cases),
	}
}

// ToDump splits the corpus into the dump-file shape used by ingestion.
func (c *Corpus) ToDump() map[string]interface{} {
	var issues []models.Issue
	var prs []models.PullRequest
	var repos []models.Repository
	for _, it := range c.Items {
		switch v := it.(type) {
		case *models.Issue:
			issues = append(issues, *v)
		case *models.PullRequest:
			prs = append(prs, *v)
		case *models.Repository:
			repos = append(repos, *v)
		}
	}
	return map[string]interface{}{
		"issues":        issues,
		"pull_requests": prs,
		"repositories":  repos,
	}
}

// ContainsPhrase reports whether the item's searchable text contains every
// word of the phrase, case-insensitively.
func ContainsPhrase(item models.Item, phrase string) bool {
	content := strings.ToLower(item.SearchableContent())
	for _, w := range strings.Fields(strings.ToLower(phrase)) {
		if !strings.Contains(content, w) {
			return false
		}
	}
	return true
}

// itemByID indexes the corpus by full item ID.
func (c *Corpus) itemByID() map[string]models.Item {
	byID := make(map[string]models.Item, len(c.Items))
	for _, it := range c.Items {
		byID[it.FullID()] = it
	}
	return byID
}
