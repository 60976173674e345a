// Package models defines core data structures for GitHub items, search
// queries, and search results.
package models

import (
	"fmt"
	"strings"
	"time"
)

// ItemType identifies the kind of corpus item a search hit refers to.
type ItemType string

const (
	ItemTypeIssue       ItemType = "issue"
	ItemTypePullRequest ItemType = "pull_request"
	ItemTypeRepository  ItemType = "repository"
)

// Searchable text fields of the corpus. Queries may restrict matching to a
// subset of these and assign per-field boosts.
const (
	FieldTitle  = "title"
	FieldBody   = "body"
	FieldLabels = "labels"
)

// Filterable metadata columns. Filter predicates may only reference these.
const (
	FieldItemType   = "item_type"
	FieldState      = "state"
	FieldRepository = "repository"
	FieldAuthor     = "author"
	FieldLanguage   = "language"
)

// SearchableFields returns the names of fields full-text queries can match.
func SearchableFields() []string {
	return []string{FieldTitle, FieldBody, FieldLabels}
}

// FilterFields returns the metadata columns filter predicates can reference.
func FilterFields() []string {
	return []string{FieldItemType, FieldState, FieldRepository, FieldAuthor, FieldLanguage}
}

// KnownSearchField reports whether name is a searchable text field.
func KnownSearchField(name string) bool {
	for _, f := range SearchableFields() {
		if f == name {
			return true
		}
	}
	return false
}

// KnownFilterField reports whether name is a filterable metadata column.
func KnownFilterField(name string) bool {
	for _, f := range FilterFields() {
		if f == name {
			return true
		}
	}
	return false
}

// Item is a corpus entry: an issue, a pull request, or a repository.
// Implementations are plain data carriers; the search core only ever sees
// their ID, type, searchable text, and metadata.
type Item interface {
	FullID() string
	Type() ItemType
	// SearchableContent returns the combined text that is indexed for
	// full-text search and embedded for vector search.
	SearchableContent() string
	// Metadata returns the filterable column values for this item.
	Metadata() map[string]string
}

// Label is a GitHub issue/PR label.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Issue is a GitHub issue.
type Issue struct {
	ID         uint64    `json:"id"`
	Repository string    `json:"repository"` // owner/name
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	Body       string    `json:"body,omitempty"`
	State      string    `json:"state"`
	Author     string    `json:"author"`
	Assignees  []string  `json:"assignees,omitempty"`
	Labels     []Label   `json:"labels,omitempty"`
	Milestone  string    `json:"milestone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ClosedAt   time.Time `json:"closed_at,omitempty"`
}

func (i *Issue) FullID() string { return fmt.Sprintf("issue:%d", i.ID) }

func (i *Issue) Type() ItemType { return ItemTypeIssue }

// SearchableContent combines title, number, body, labels, assignees, and
// milestone into one indexable string.
func (i *Issue) SearchableContent() string {
	parts := []string{i.Title, fmt.Sprintf("#%d", i.Number)}
	if i.Body != "" {
		parts = append(parts, i.Body)
	}
	for _, l := range i.Labels {
		parts = append(parts, l.Name)
	}
	parts = append(parts, i.Assignees...)
	if i.Milestone != "" {
		parts = append(parts, i.Milestone)
	}
	return strings.Join(parts, " ")
}

func (i *Issue) Metadata() map[string]string {
	return map[string]string{
		FieldItemType:   string(ItemTypeIssue),
		FieldState:      i.State,
		FieldRepository: i.Repository,
		FieldAuthor:     i.Author,
	}
}

// LabelNames returns the label names joined for text indexing.
func (i *Issue) LabelNames() string {
	names := make([]string, len(i.Labels))
	for j, l := range i.Labels {
		names[j] = l.Name
	}
	return strings.Join(names, " ")
}

// PullRequest is a GitHub pull request.
type PullRequest struct {
	ID         uint64    `json:"id"`
	Repository string    `json:"repository"`
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	Body       string    `json:"body,omitempty"`
	State      string    `json:"state"` // open, closed, merged
	Author     string    `json:"author"`
	Assignees  []string  `json:"assignees,omitempty"`
	Labels     []Label   `json:"labels,omitempty"`
	Milestone  string    `json:"milestone,omitempty"`
	Draft      bool      `json:"draft"`
	HeadRef    string    `json:"head_ref,omitempty"`
	BaseRef    string    `json:"base_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	MergedAt   time.Time `json:"merged_at,omitempty"`
}

func (p *PullRequest) FullID() string { return fmt.Sprintf("pr:%d", p.ID) }

func (p *PullRequest) Type() ItemType { return ItemTypePullRequest }

func (p *PullRequest) SearchableContent() string {
	parts := []string{p.Title, fmt.Sprintf("#%d", p.Number)}
	if p.Body != "" {
		parts = append(parts, p.Body)
	}
	for _, l := range p.Labels {
		parts = append(parts, l.Name)
	}
	parts = append(parts, p.Assignees...)
	if p.Milestone != "" {
		parts = append(parts, p.Milestone)
	}
	return strings.Join(parts, " ")
}

func (p *PullRequest) Metadata() map[string]string {
	return map[string]string{
		FieldItemType:   string(ItemTypePullRequest),
		FieldState:      p.State,
		FieldRepository: p.Repository,
		FieldAuthor:     p.Author,
	}
}

// LabelNames returns the label names joined for text indexing.
func (p *PullRequest) LabelNames() string {
	names := make([]string, len(p.Labels))
	for j, l := range p.Labels {
		names[j] = l.Name
	}
	return strings.Join(names, " ")
}

// Repository is a GitHub repository.
type Repository struct {
	ID          uint64    `json:"id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Language    string    `json:"language,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *Repository) FullID() string { return fmt.Sprintf("repo:%d", r.ID) }

func (r *Repository) Type() ItemType { return ItemTypeRepository }

// SearchableContent combines full name, owner, description, language, and
// topics into one indexable string.
func (r *Repository) SearchableContent() string {
	parts := []string{r.FullName, r.Name, r.Owner}
	if r.Description != "" {
		parts = append(parts, r.Description)
	}
	if r.Language != "" {
		parts = append(parts, r.Language)
	}
	parts = append(parts, r.Topics...)
	return strings.Join(parts, " ")
}

func (r *Repository) Metadata() map[string]string {
	return map[string]string{
		FieldItemType:   string(ItemTypeRepository),
		FieldRepository: r.FullName,
		FieldAuthor:     r.Owner,
		FieldLanguage:   r.Language,
	}
}
