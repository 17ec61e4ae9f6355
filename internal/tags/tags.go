// Package tags supplies the tag-suggestion affordance of the editor. A
// Meilisearch index is the primary backend with the remote tag store as
// fallback; failures degrade to "no suggestions" and never block typing.
package tags

import (
	"context"
	"log"
	"strings"
	"time"

	"fieldnote/editor/internal/debounce"
	"fieldnote/editor/internal/gateway"
)

// Suggestion is one tag suggestion shown while typing.
type Suggestion struct {
	Name       string `json:"name"`
	EntryCount int    `json:"entryCount"`
}

const suggestionLimit = 10

// storeSearcher is the fallback search against the remote tag store.
type storeSearcher interface {
	SearchTags(ctx context.Context, query string) ([]gateway.TagSuggestion, error)
}

// Service is the facade that tries Meilisearch first and falls back to the
// remote store's tag search.
type Service struct {
	meili *Meili
	store storeSearcher
}

// NewService creates a suggestion service. meili may be nil if Meilisearch
// is not configured.
func NewService(meili *Meili, store storeSearcher) *Service {
	return &Service{meili: meili, store: store}
}

// Suggest returns up to 10 tag suggestions for a partial name. It never
// returns an error: a failed backend degrades to an empty list.
func (s *Service) Suggest(ctx context.Context, query string) []Suggestion {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	if s.meili != nil && s.meili.Healthy() {
		suggestions, err := s.meili.Search(query, suggestionLimit)
		if err == nil {
			return suggestions
		}
		log.Printf("tags: meilisearch error, falling back to store: %v", err)
	}

	if s.store == nil {
		return nil
	}
	results, err := s.store.SearchTags(ctx, query)
	if err != nil {
		log.Printf("tags: store search error: %v", err)
		return nil
	}

	suggestions := make([]Suggestion, 0, len(results))
	for _, r := range results {
		suggestions = append(suggestions, Suggestion{Name: r.Name, EntryCount: r.EntryCount})
	}
	return suggestions
}

// Index pushes tag names into the Meilisearch index (fire-and-forget).
func (s *Service) Index(suggestions []Suggestion) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexTags(suggestions); err != nil {
			log.Printf("tags: index: %v", err)
		}
	}()
}

// Normalize canonicalizes user-entered tag names the way the store does:
// trimmed, lowercased, duplicates removed, order of first appearance kept.
func Normalize(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Suggester debounces suggestion queries while the user types, delivering
// results to a callback once input has been quiet.
type Suggester struct {
	service  *Service
	debounce *debounce.Debouncer
	deliver  func([]Suggestion)
}

const suggestDebounce = 300 * time.Millisecond

// NewSuggester wires a debounced suggester around the service. deliver is
// called with the suggestions for the last query typed.
func NewSuggester(service *Service, deliver func([]Suggestion)) *Suggester {
	return &Suggester{
		service:  service,
		debounce: debounce.New(suggestDebounce),
		deliver:  deliver,
	}
}

// Type registers a keystroke's worth of query input.
func (s *Suggester) Type(query string) {
	s.debounce.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.deliver(s.service.Suggest(ctx, query))
	})
}

// Stop cancels any pending query.
func (s *Suggester) Stop() {
	s.debounce.Cancel()
}
