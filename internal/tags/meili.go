package tags

import (
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const idxTags = "fieldnote_tags"

// Meili is the primary suggestion backend. It keeps a local tag index so
// suggestions stay fast and typo-tolerant while typing.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the tag index. The
// caller should proceed without it if the connection fails; the facade
// falls back to the store's tag search.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("tags: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxTags,
		PrimaryKey: "name",
	}); err != nil {
		log.Printf("tags: create index %s (may already exist): %v", idxTags, err)
	}

	index := m.client.Index(idxTags)
	searchable := []string{"name"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("tags: update searchable attrs: %v", err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("tags: meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Search queries the tag index by partial name.
func (m *Meili) Search(query string, limit int) ([]Suggestion, error) {
	if !m.healthy.Load() {
		return nil, fmt.Errorf("meilisearch unhealthy")
	}

	resp, err := m.client.Index(idxTags).Search(query, &meili.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, fmt.Errorf("meilisearch tag search: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		suggestions = append(suggestions, Suggestion{
			Name:       decodeString(hit, "name"),
			EntryCount: decodeInt(hit, "entryCount"),
		})
	}
	return suggestions, nil
}

// IndexTags upserts tag records into the suggestion index.
func (m *Meili) IndexTags(suggestions []Suggestion) error {
	docs := make([]map[string]any, 0, len(suggestions))
	for _, s := range suggestions {
		docs = append(docs, map[string]any{"name": s.Name, "entryCount": s.EntryCount})
	}
	if _, err := m.client.Index(idxTags).AddDocuments(docs, nil); err != nil {
		return fmt.Errorf("index tags: %w", err)
	}
	return nil
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func decodeInt(hit meili.Hit, key string) int {
	raw, ok := hit[key]
	if !ok {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	return 0
}
