package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fieldnote/editor/internal/block"
	"fieldnote/editor/internal/debounce"
	"fieldnote/editor/internal/draft"
	"fieldnote/editor/internal/editor"
	"fieldnote/editor/internal/gateway"
	"fieldnote/editor/internal/notify"
)

// Default debounce intervals. Content saves wait out a longer quiet
// interval than title-only edits; inference re-evaluates quickly but not
// per keystroke.
const (
	DefaultSaveDelay      = 3 * time.Second
	DefaultTitleSaveDelay = time.Second
	DefaultInferDelay     = 500 * time.Millisecond
)

// Saver is the persistence gateway surface the registry needs.
type Saver interface {
	Save(ctx context.Context, documentID string, patch gateway.Patch) (gateway.Document, error)
}

// DraftStore persists crash-recovery snapshots of dirty sessions.
type DraftStore interface {
	Put(ctx context.Context, d draft.Draft) error
	Delete(ctx context.Context, documentID string) error
}

// EditorFactory builds the live editor on first activation.
type EditorFactory func(m block.Model) (*editor.Editor, error)

// Config carries the registry's collaborators and timing knobs. Zero
// durations fall back to the defaults; Drafts and Notifier are optional.
type Config struct {
	SaveDelay      time.Duration
	TitleSaveDelay time.Duration
	InferDelay     time.Duration
	Factory        EditorFactory
	Drafts         DraftStore
	Notifier       notify.Notifier
}

// Registry owns every session created during a page lifetime. Switching
// documents hides sessions instead of tearing them down, so re-activation
// is instant.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	active   *Session

	store    Saver
	drafts   DraftStore
	notifier notify.Notifier
	factory  EditorFactory

	saveDelay      time.Duration
	titleSaveDelay time.Duration
	inferDelay     time.Duration
}

// NewRegistry creates a registry backed by the given persistence gateway.
func NewRegistry(store Saver, cfg Config) *Registry {
	r := &Registry{
		sessions:       make(map[string]*Session),
		store:          store,
		drafts:         cfg.Drafts,
		notifier:       cfg.Notifier,
		factory:        cfg.Factory,
		saveDelay:      cfg.SaveDelay,
		titleSaveDelay: cfg.TitleSaveDelay,
		inferDelay:     cfg.InferDelay,
	}
	if r.factory == nil {
		r.factory = editor.New
	}
	if r.saveDelay == 0 {
		r.saveDelay = DefaultSaveDelay
	}
	if r.titleSaveDelay == 0 {
		r.titleSaveDelay = DefaultTitleSaveDelay
	}
	if r.inferDelay == 0 {
		r.inferDelay = DefaultInferDelay
	}
	return r
}

// Open creates the session for a document, or returns the existing one.
// The live editor is not constructed until the first activation.
func (r *Registry) Open(documentID string, doc gateway.Document) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[documentID]; ok {
		return s
	}

	tagNames := make([]string, 0, len(doc.Tags))
	for _, t := range doc.Tags {
		tagNames = append(tagNames, t.Name)
	}

	titleState := TitleManual
	if IsUntitled(doc.Title) {
		titleState = TitleAuto
	}

	s := &Session{
		documentID:    documentID,
		registry:      r,
		title:         doc.Title,
		tagNames:      tagNames,
		isPublic:      doc.IsPublic,
		lastSaved:     doc,
		state:         StateUnloaded,
		titleState:    titleState,
		saveDebounce:  debounce.New(r.saveDelay),
		titleDebounce: debounce.New(r.titleSaveDelay),
		inferDebounce: debounce.New(r.inferDelay),
	}
	r.sessions[documentID] = s
	return s
}

// Activate makes the given document's session active, hiding the previous
// one. First activation constructs the live editor from the last saved
// content. Requesting an unknown document is a programmer error and panics.
func (r *Registry) Activate(documentID string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[documentID]
	if !ok {
		r.mu.Unlock()
		panic(fmt.Sprintf("session: Activate(%q) before Open", documentID))
	}
	prev := r.active
	r.active = s
	r.mu.Unlock()

	if prev != nil && prev != s {
		r.deactivate(prev)
	}

	if err := s.ensureEditor(r.factory); err != nil {
		return nil, err
	}
	return s, nil
}

// deactivate hides a session: its pending title inference is cancelled so
// stale input cannot clobber a document no longer being edited, but a
// pending save timer keeps running so in-flight edits still persist.
func (r *Registry) deactivate(s *Session) {
	s.inferDebounce.Cancel()

	s.mu.Lock()
	dirty := s.dirty
	s.mu.Unlock()
	if dirty {
		s.snapshotDraft()
	}
}

// Active returns the active session, or nil.
func (r *Registry) Active() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Get returns the session for a document, if one is open.
func (r *Registry) Get(documentID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[documentID]
	return s, ok
}

// Close permanently discards a session (for example when its document was
// deleted). Both pending timers are cancelled; nothing may fire into a
// torn-down session.
func (r *Registry) Close(documentID string) {
	r.mu.Lock()
	s, ok := r.sessions[documentID]
	if ok {
		delete(r.sessions, documentID)
		if r.active == s {
			r.active = nil
		}
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	s.saveDebounce.Cancel()
	s.titleDebounce.Cancel()
	s.inferDebounce.Cancel()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// ensureEditor performs the one-time editor construction. A factory
// failure is fatal for this session only and is reported once.
func (s *Session) ensureEditor(factory EditorFactory) error {
	s.mu.Lock()
	if s.ed != nil {
		s.mu.Unlock()
		return nil
	}
	if s.initErr != nil {
		err := s.initErr
		s.mu.Unlock()
		return err
	}
	content := s.lastSaved.Content
	s.mu.Unlock()

	ed, err := factory(content.Clone())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.initErr = fmt.Errorf("initialize editor for %s: %w", s.documentID, err)
		notify.Notifyf(s.registry.notifier, notify.Error,
			"Editor failed to load for %s: %v", s.documentID, err)
		return s.initErr
	}
	s.ed = ed
	ed.OnChange(s.noteContentChange)
	if s.state == StateUnloaded {
		s.state = StateReady
	}
	return nil
}

// dropDraft removes any stored draft after a successful save, best-effort.
func (r *Registry) dropDraft(documentID string) {
	if r.drafts == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.drafts.Delete(ctx, documentID); err != nil {
			log.Printf("session: drop draft for %s: %v", documentID, err)
		}
	}()
}
