package todos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/idilsaglam/todosync/internal/model"
)

// Service is the remote Todo Collection Service as the client sees it.
// *remote.Client satisfies it.
type Service interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, description string) (model.Item, error)
	Update(ctx context.Context, id int, description string) error
	Delete(ctx context.Context, id int) error
}

// FailurePolicy decides what happens to the list after a failed update or delete.
type FailurePolicy int

const (
	// KeepOnFailure leaves the list as it was.
	KeepOnFailure FailurePolicy = iota
	// RefetchOnFailure reloads the collection from the server.
	RefetchOnFailure
)

// ParseFailurePolicy accepts "keep" and "refetch".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return KeepOnFailure, nil
	case "refetch":
		return RefetchOnFailure, nil
	}
	return KeepOnFailure, fmt.Errorf("unknown failure policy %q (want keep or refetch)", s)
}

func (p FailurePolicy) String() string {
	if p == RefetchOnFailure {
		return "refetch"
	}
	return "keep"
}

// ErrDialogClosed is returned by ConfirmEdit when no item is being edited.
var ErrDialogClosed = errors.New("edit dialog is closed")

// Session is the todo list client: the displayed list, the pending input
// and the edit dialog, plus the calls that keep them in step with the server.
// It is not safe for concurrent use.
type Session struct {
	svc    Service
	policy FailurePolicy
	log    *zap.Logger

	list   List
	draft  string
	dialog EditDialog
}

// SessionOption tunes a Session.
type SessionOption func(*Session)

// WithFailurePolicy sets the policy for failed update/delete calls.
func WithFailurePolicy(p FailurePolicy) SessionOption {
	return func(s *Session) { s.policy = p }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession returns an empty session bound to svc.
func NewSession(svc Service, opts ...SessionOption) *Session {
	s := &Session{
		svc:    svc,
		log:    zap.NewNop(),
		dialog: Closed{},
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.Named("session")
	return s
}

func (s *Session) List() List            { return s.list }
func (s *Session) Items() []model.Item   { return s.list.Items() }
func (s *Session) Draft() string         { return s.draft }
func (s *Session) Dialog() EditDialog    { return s.dialog }
func (s *Session) Policy() FailurePolicy { return s.policy }
func (s *Session) SetDraft(text string)  { s.draft = text }

// LoadAll replaces the list with the server collection.
func (s *Session) LoadAll(ctx context.Context) error {
	items, err := s.svc.List(ctx)
	s.list = s.list.Loaded(From(items, err))
	if err != nil {
		s.log.Warn("load failed", zap.Error(err))
		return fmt.Errorf("load todos: %w", err)
	}
	s.log.Debug("loaded", zap.Int("count", s.list.Len()))
	return nil
}

// CreateItem sends description as typed, with no validation. On success the
// new item is appended and the draft cleared.
func (s *Session) CreateItem(ctx context.Context, description string) (model.Item, error) {
	item, err := s.svc.Create(ctx, description)
	s.list = s.list.Created(From(item, err))
	if err != nil {
		s.log.Warn("create failed", zap.Error(err))
		return model.Item{}, fmt.Errorf("create todo: %w", err)
	}
	s.draft = ""
	return item, nil
}

// SubmitDraft creates an item from the current draft.
func (s *Session) SubmitDraft(ctx context.Context) (model.Item, error) {
	return s.CreateItem(ctx, s.draft)
}

// UpdateItem changes the description of id. Unknown ids are passed through.
func (s *Session) UpdateItem(ctx context.Context, id int, description string) error {
	err := s.svc.Update(ctx, id, description)
	s.list = s.list.Updated(id, description, From(Done{}, err))
	if err != nil {
		s.log.Warn("update failed", zap.Int("id", id), zap.Error(err))
		return s.afterFailure(ctx, fmt.Errorf("update todo %d: %w", id, err))
	}
	return nil
}

// DeleteItem removes id.
func (s *Session) DeleteItem(ctx context.Context, id int) error {
	err := s.svc.Delete(ctx, id)
	s.list = s.list.Deleted(id, From(Done{}, err))
	if err != nil {
		s.log.Warn("delete failed", zap.Int("id", id), zap.Error(err))
		return s.afterFailure(ctx, fmt.Errorf("delete todo %d: %w", id, err))
	}
	return nil
}

func (s *Session) afterFailure(ctx context.Context, cause error) error {
	if s.policy != RefetchOnFailure {
		return cause
	}
	if err := s.LoadAll(ctx); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// OpenEdit snapshots id into the edit dialog.
func (s *Session) OpenEdit(id int) bool {
	d, ok := OpenEditor(s.list, id)
	s.dialog = d
	return ok
}

// EditDraft changes the snapshot description of an open dialog.
func (s *Session) EditDraft(description string) {
	s.dialog = WithDescription(s.dialog, description)
}

// CloseEdit discards the dialog without touching the list.
func (s *Session) CloseEdit() {
	s.dialog = Closed{}
}

// ConfirmEdit sends the snapshot as an update and closes the dialog.
func (s *Session) ConfirmEdit(ctx context.Context) error {
	open, ok := s.dialog.(Open)
	if !ok {
		return ErrDialogClosed
	}
	s.dialog = Closed{}
	return s.UpdateItem(ctx, open.Snapshot.ID, open.Snapshot.Description)
}
