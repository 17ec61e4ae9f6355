// Package session manages the live editing state of open documents: one
// Session per document with its dirty tracking and save/inference timers,
// and a Registry owning all sessions created during a page lifetime.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"fieldnote/editor/internal/block"
	"fieldnote/editor/internal/debounce"
	"fieldnote/editor/internal/draft"
	"fieldnote/editor/internal/editor"
	"fieldnote/editor/internal/gateway"
	"fieldnote/editor/internal/notify"
	"fieldnote/editor/internal/tags"
)

// State is the lifecycle state of a session.
type State string

const (
	StateUnloaded State = "unloaded"
	StateReady    State = "ready"
	StateDirty    State = "dirty"
	StateSaving   State = "saving"
	StateSaved    State = "saved"
	StateError    State = "error"
)

// TitleState tracks whether the document title is still machine-derived.
// The transition to TitleManual is one-way: only a direct user edit of the
// title field causes it, and it never reverts.
type TitleState string

const (
	TitleAuto   TitleState = "auto"
	TitleManual TitleState = "manual"
)

const saveTimeout = 15 * time.Second

// Session is the in-memory editing state for one open document. All fields
// are guarded by mu; timer callbacks and save completions re-acquire it, so
// invariants hold across every suspension point.
type Session struct {
	mu sync.Mutex

	documentID string
	registry   *Registry

	ed      *editor.Editor
	initErr error

	title      string
	tagNames   []string
	isPublic   bool
	lastSaved  gateway.Document
	state      State
	titleState TitleState

	dirty        bool
	titleDirty   bool
	contentDirty bool
	tagsDirty    bool

	// changeSeq increments on every mutation; a save remembers the value
	// it serialized so completion can tell whether newer edits arrived
	// while the write was in flight.
	changeSeq    uint64
	saveInFlight bool
	pendingSave  bool

	saveDebounce  *debounce.Debouncer
	titleDebounce *debounce.Debouncer
	inferDebounce *debounce.Debouncer

	closed bool
}

// DocumentID returns the id of the document this session edits.
func (s *Session) DocumentID() string {
	return s.documentID
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dirty reports whether the session has unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Title returns the current (possibly unsaved) title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// TitleState reports whether the title is still eligible for inference.
func (s *Session) TitleState() TitleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.titleState
}

// LastSaved returns the last store-acknowledged document state.
func (s *Session) LastSaved() gateway.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

// Editor returns the live editor, or nil if the session was never
// activated or its editor failed to initialize.
func (s *Session) Editor() *editor.Editor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed
}

// InitError returns the editor construction failure, if any. The failure
// is fatal for this session only; other sessions stay usable.
func (s *Session) InitError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initErr
}

// noteContentChange handles a mutation signal from the live editor: mark
// dirty, restart the save debounce and re-schedule title inference.
func (s *Session) noteContentChange() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.markDirtyLocked()
	s.contentDirty = true
	s.mu.Unlock()

	s.saveDebounce.Trigger(s.autosave)
	s.inferDebounce.Trigger(s.inferTitle)
}

// SetTitle applies a direct user edit of the title field. This permanently
// latches the title out of the auto state.
func (s *Session) SetTitle(title string) {
	s.setTitle(title, true)
}

func (s *Session) setTitle(title string, byUser bool) {
	s.mu.Lock()
	if s.closed || title == s.title {
		if byUser && !s.closed {
			s.titleState = TitleManual
		}
		s.mu.Unlock()
		return
	}
	s.title = title
	if byUser {
		s.titleState = TitleManual
	}
	s.markDirtyLocked()
	s.titleDirty = true
	s.mu.Unlock()

	// Title-only edits persist on a shorter quiet interval.
	s.titleDebounce.Trigger(s.autosave)
}

// SetTags replaces the session's tag set. Names are normalized the way the
// store stores them; duplicates collapse.
func (s *Session) SetTags(names []string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.tagNames = tags.Normalize(names)
	s.markDirtyLocked()
	s.tagsDirty = true
	s.mu.Unlock()

	s.saveDebounce.Trigger(s.autosave)
}

// SetPublic flips the entry's visibility flag.
func (s *Session) SetPublic(public bool) {
	s.mu.Lock()
	if s.closed || s.isPublic == public {
		s.mu.Unlock()
		return
	}
	s.isPublic = public
	s.markDirtyLocked()
	s.tagsDirty = true
	s.mu.Unlock()

	s.saveDebounce.Trigger(s.autosave)
}

func (s *Session) markDirtyLocked() {
	s.dirty = true
	s.changeSeq++
	if s.state != StateSaving {
		s.state = StateDirty
	}
}

// SaveNow bypasses the debounce and saves immediately (explicit user
// action or keyboard shortcut). Pending timers are cancelled.
func (s *Session) SaveNow() {
	s.saveDebounce.Cancel()
	s.titleDebounce.Cancel()
	s.autosave()
}

// autosave fires when a quiet interval elapses (or on SaveNow). At most
// one write is in flight per session: a save requested during a flight is
// deferred until the flight settles, then re-checks dirtiness.
func (s *Session) autosave() {
	s.mu.Lock()
	if s.closed || !s.dirty {
		s.mu.Unlock()
		return
	}
	if s.saveInFlight {
		s.pendingSave = true
		s.mu.Unlock()
		return
	}
	if s.ed == nil {
		// Nothing serializable yet; dirty title/tags on an unactivated
		// session still save.
		s.beginSaveLocked(nil)
		return
	}
	ed := s.ed
	s.mu.Unlock()

	model, err := ed.Save()
	if err != nil {
		s.mu.Lock()
		s.state = StateError
		s.mu.Unlock()
		notify.Notifyf(s.registry.notifier, notify.Error,
			"Could not serialize document %s: %v", s.documentID, err)
		return
	}

	s.mu.Lock()
	if s.saveInFlight {
		s.pendingSave = true
		s.mu.Unlock()
		return
	}
	s.beginSaveLocked(&model)
}

// beginSaveLocked builds the patch from the dirty flags and launches the
// write. Called with mu held; releases it.
func (s *Session) beginSaveLocked(model *block.Model) {
	patch := gateway.Patch{}
	if s.titleDirty {
		title := s.title
		patch.Title = &title
	}
	if s.contentDirty && model != nil {
		patch.Content = model
	}
	if s.tagsDirty {
		patch.TagNames = s.tagNames
		isPublic := s.isPublic
		patch.IsPublic = &isPublic
	}

	s.saveInFlight = true
	s.state = StateSaving
	seq := s.changeSeq
	s.mu.Unlock()

	go s.runSave(patch, seq)
}

func (s *Session) runSave(patch gateway.Patch, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	doc, err := s.registry.store.Save(ctx, s.documentID, patch)
	s.settleSave(doc, err, seq)
}

// settleSave applies a save outcome. The dirty flag afterwards reflects
// whether content changed after the write was serialized.
func (s *Session) settleSave(doc gateway.Document, err error, seq uint64) {
	s.mu.Lock()
	s.saveInFlight = false
	retry := false

	if err != nil {
		s.state = StateError
		s.pendingSave = false
		s.mu.Unlock()
		s.reportSaveFailure(err)
		s.snapshotDraft()
		return
	}

	s.lastSaved = doc
	clean := s.changeSeq == seq
	if clean {
		s.dirty = false
		s.titleDirty = false
		s.contentDirty = false
		s.tagsDirty = false
		s.pendingSave = false
		s.state = StateSaved
	} else {
		// Edits arrived while the write was in flight; stay dirty and
		// save again once settled.
		s.state = StateDirty
		retry = s.pendingSave
		s.pendingSave = false
	}
	s.mu.Unlock()

	// A draft may still cover edits newer than this write; keep it until
	// the session is actually clean.
	if clean {
		s.registry.dropDraft(s.documentID)
	}
	if retry {
		s.autosave()
	}
}

func (s *Session) reportSaveFailure(err error) {
	var vErr *gateway.ValidationError
	switch {
	case errors.As(err, &vErr):
		notify.Notifyf(s.registry.notifier, notify.Warning, "Save rejected: %v", vErr)
	case errors.Is(err, gateway.ErrUnauthorized):
		notify.Notifyf(s.registry.notifier, notify.Error,
			"Save failed for %s: not authorized", s.documentID)
	case gateway.IsRetryable(err):
		notify.Notifyf(s.registry.notifier, notify.Warning,
			"Save failed for %s: store unreachable, will retry on next change", s.documentID)
	default:
		notify.Notifyf(s.registry.notifier, notify.Error,
			"Save failed for %s: %v", s.documentID, err)
	}
}

// snapshotDraft persists the session's unsaved state to the draft store,
// best-effort.
func (s *Session) snapshotDraft() {
	drafts := s.registry.drafts
	if drafts == nil {
		return
	}

	s.mu.Lock()
	d := draft.Draft{
		DocumentID: s.documentID,
		Title:      s.title,
		TagNames:   s.tagNames,
	}
	ed := s.ed
	s.mu.Unlock()

	if ed != nil {
		if model, err := ed.Save(); err == nil {
			d.Content = model
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := drafts.Put(ctx, d); err != nil {
			log.Printf("session: draft snapshot for %s: %v", s.documentID, err)
		}
	}()
}

// inferTitle runs after content has been quiet. Best-effort: failures are
// silent and never block saving.
func (s *Session) inferTitle() {
	s.mu.Lock()
	if s.closed || s.titleState != TitleAuto || s.ed == nil {
		s.mu.Unlock()
		return
	}
	ed := s.ed
	s.mu.Unlock()

	model, err := ed.Save()
	if err != nil {
		return
	}

	candidate := InferTitle(model)
	s.mu.Lock()
	if candidate == "" || candidate == s.title || s.titleState != TitleAuto {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// Same dirty/save path as a manual title edit, without latching the
	// auto state.
	s.setTitle(candidate, false)
}
