// Package gateway is the only component that talks to the remote entry
// store. It wraps the store's HTTP contract: partial updates with a CSRF
// header, document loads and the tag search used for suggestions.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"fieldnote/editor/internal/block"
)

// MaxTitleLength is the store's title column bound.
const MaxTitleLength = 255

const (
	csrfHeader     = "X-CSRFToken"
	defaultTimeout = 10 * time.Second
	tagPageSize    = 10
)

// Document is the store's full representation of a journal entry.
// CreatedAt and UpdatedAt are server-authoritative: the client never
// fabricates UpdatedAt except as an optimistic placeholder that is
// overwritten by the response.
type Document struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Content   block.Model `json:"content"`
	Tags      []Tag       `json:"tags"`
	IsPublic  bool        `json:"is_public"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type Tag struct {
	Name       string `json:"name"`
	EntryCount int    `json:"entry_count,omitempty"`
}

// TagSuggestion is one tag search hit.
type TagSuggestion struct {
	Name       string `json:"name"`
	EntryCount int    `json:"entry_count"`
}

// Patch is a partial update; nil fields are omitted from the request.
type Patch struct {
	Title    *string      `json:"title,omitempty"`
	Content  *block.Model `json:"content,omitempty"`
	TagNames []string     `json:"tag_names,omitempty"`
	IsPublic *bool        `json:"is_public,omitempty"`
}

// TokenSource supplies the CSRF token every write must carry.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource with a fixed value.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// Client talks to the entry store over HTTP with bounded request timeouts.
type Client struct {
	baseURL string
	http    *http.Client
	csrf    TokenSource
}

// New creates a gateway client. csrf may be nil for read-only use.
func New(baseURL string, csrf TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		csrf:    csrf,
	}
}

// NewWithHTTPClient creates a gateway client with a custom http.Client.
func NewWithHTTPClient(baseURL string, csrf TokenSource, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, csrf: csrf}
}

// ValidateTitle applies the client-side title checks performed before any
// network call: non-empty after trimming, at most MaxTitleLength runes.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return &ValidationError{Fields: map[string]string{"title": "title is required"}}
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return &ValidationError{Fields: map[string]string{
			"title": fmt.Sprintf("title exceeds %d characters", MaxTitleLength),
		}}
	}
	return nil
}

// Save issues a partial update for the document and returns the store's
// authoritative representation on success. Validation runs client-side
// first; transport failures and timeouts come back as *NetworkError.
func (c *Client) Save(ctx context.Context, documentID string, patch Patch) (Document, error) {
	if patch.Title != nil {
		if err := ValidateTitle(*patch.Title); err != nil {
			return Document{}, err
		}
	}

	body, err := json.Marshal(patch)
	if err != nil {
		return Document{}, fmt.Errorf("encode patch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.baseURL+"/api/journal/"+url.PathEscape(documentID)+"/", bytes.NewReader(body))
	if err != nil {
		return Document{}, fmt.Errorf("build save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.csrf == nil {
		return Document{}, fmt.Errorf("save requires a CSRF token source")
	}
	token, err := c.csrf.Token()
	if err != nil {
		return Document{}, fmt.Errorf("obtain csrf token: %w", err)
	}
	req.Header.Set(csrfHeader, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return Document{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var doc Document
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode save response: %w", err)
		}
		return doc, nil
	}
	return Document{}, decodeFailure(resp)
}

// Load fetches the document's current stored state.
func (c *Client) Load(ctx context.Context, documentID string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/journal/"+url.PathEscape(documentID)+"/", nil)
	if err != nil {
		return Document{}, fmt.Errorf("build load request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Document{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var doc Document
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode document: %w", err)
		}
		return doc, nil
	}
	return Document{}, decodeFailure(resp)
}

// SearchTags queries tags by partial name. Results are capped at the
// store's page size of 10.
func (c *Client) SearchTags(ctx context.Context, query string) ([]TagSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/tags/search/?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("build tag search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeFailure(resp)
	}

	var page struct {
		Results []TagSuggestion `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode tag search response: %w", err)
	}
	if len(page.Results) > tagPageSize {
		page.Results = page.Results[:tagPageSize]
	}
	return page.Results, nil
}

// decodeFailure maps a non-200 response to the error taxonomy: field-level
// validation detail, authorization failure, or a generic rejection.
func decodeFailure(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadRequest:
		if fields := parseFieldErrors(body); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
	}

	detail := parseDetail(body)
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}
	return &RequestError{Status: resp.StatusCode, Detail: detail}
}

func parseFieldErrors(body []byte) map[string]string {
	var raw map[string]json.RawMessage
	if json.Unmarshal(body, &raw) != nil {
		return nil
	}

	fields := make(map[string]string)
	for field, msg := range raw {
		if field == "detail" || field == "error" {
			continue
		}
		var single string
		if json.Unmarshal(msg, &single) == nil {
			fields[field] = single
			continue
		}
		var many []string
		if json.Unmarshal(msg, &many) == nil && len(many) > 0 {
			fields[field] = many[0]
		}
	}
	return fields
}

func parseDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error
}
