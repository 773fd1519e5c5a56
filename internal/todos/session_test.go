package todos

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/idilsaglam/todosync/internal/model"
)

// fakeService is an in-memory Service with switchable failures.
type fakeService struct {
	items  []model.Item
	nextID int
	fail   map[string]error
	calls  map[string]int
}

func newFakeService(items ...model.Item) *fakeService {
	next := 1
	for _, it := range items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return &fakeService{items: items, nextID: next, fail: map[string]error{}, calls: map[string]int{}}
}

func (f *fakeService) List(ctx context.Context) ([]model.Item, error) {
	f.calls["list"]++
	if err := f.fail["list"]; err != nil {
		return nil, err
	}
	return append([]model.Item(nil), f.items...), nil
}

func (f *fakeService) Create(ctx context.Context, description string) (model.Item, error) {
	f.calls["create"]++
	if err := f.fail["create"]; err != nil {
		return model.Item{}, err
	}
	it := model.Item{ID: f.nextID, Description: description}
	f.nextID++
	f.items = append(f.items, it)
	return it, nil
}

func (f *fakeService) Update(ctx context.Context, id int, description string) error {
	f.calls["update"]++
	if err := f.fail["update"]; err != nil {
		return err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Description = description
		}
	}
	return nil
}

func (f *fakeService) Delete(ctx context.Context, id int) error {
	f.calls["delete"]++
	if err := f.fail["delete"]; err != nil {
		return err
	}
	out := f.items[:0]
	for _, it := range f.items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	f.items = out
	return nil
}

func TestSessionScenario(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService(model.Item{ID: 1, Description: "buy milk"})
	s := NewSession(svc, WithLogger(zaptest.NewLogger(t)))

	if err := s.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	s.SetDraft("clean house")
	item, err := s.SubmitDraft(ctx)
	if err != nil {
		t.Fatalf("SubmitDraft: %v", err)
	}
	if item.ID != 2 {
		t.Errorf("new id: got %d, want 2", item.ID)
	}
	if s.Draft() != "" {
		t.Errorf("draft not cleared: %q", s.Draft())
	}
	assertItems(t, s, model.Item{ID: 1, Description: "buy milk"}, model.Item{ID: 2, Description: "clean house"})

	if err := s.UpdateItem(ctx, 1, "buy oat milk"); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	assertItems(t, s, model.Item{ID: 1, Description: "buy oat milk"}, model.Item{ID: 2, Description: "clean house"})

	if err := s.DeleteItem(ctx, 1); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	assertItems(t, s, model.Item{ID: 2, Description: "clean house"})
}

func TestSessionCreateFailureKeepsDraft(t *testing.T) {
	svc := newFakeService()
	svc.fail["create"] = errBoom
	s := NewSession(svc)
	s.SetDraft("pending")

	if _, err := s.SubmitDraft(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("SubmitDraft: got %v, want %v", err, errBoom)
	}
	if s.Draft() != "pending" {
		t.Errorf("draft: got %q, want %q", s.Draft(), "pending")
	}
	if s.List().Len() != 0 {
		t.Errorf("list grew on failure")
	}
}

func TestSessionCreateEmptyDescription(t *testing.T) {
	svc := newFakeService()
	s := NewSession(svc)
	if _, err := s.CreateItem(context.Background(), ""); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if svc.calls["create"] != 1 {
		t.Fatalf("empty description was not sent")
	}
}

func TestSessionLoadFailureStaysEmpty(t *testing.T) {
	svc := newFakeService(model.Item{ID: 1, Description: "a"})
	svc.fail["list"] = errBoom
	s := NewSession(svc)
	if err := s.LoadAll(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("LoadAll: got %v", err)
	}
	if s.List().Len() != 0 {
		t.Fatalf("len: got %d, want 0", s.List().Len())
	}
}

func TestSessionFailurePolicies(t *testing.T) {
	tests := []struct {
		name      string
		policy    FailurePolicy
		op        string
		wantLists int
	}{
		{"keep update", KeepOnFailure, "update", 1},
		{"keep delete", KeepOnFailure, "delete", 1},
		{"refetch update", RefetchOnFailure, "update", 2},
		{"refetch delete", RefetchOnFailure, "delete", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc := newFakeService(model.Item{ID: 1, Description: "buy milk"})
			s := NewSession(svc, WithFailurePolicy(tt.policy))
			if err := s.LoadAll(ctx); err != nil {
				t.Fatalf("LoadAll: %v", err)
			}
			svc.fail[tt.op] = errBoom

			var err error
			if tt.op == "update" {
				err = s.UpdateItem(ctx, 1, "x")
			} else {
				err = s.DeleteItem(ctx, 1)
			}
			if !errors.Is(err, errBoom) {
				t.Fatalf("got %v, want %v", err, errBoom)
			}
			if svc.calls["list"] != tt.wantLists {
				t.Errorf("list calls: got %d, want %d", svc.calls["list"], tt.wantLists)
			}
			assertItems(t, s, model.Item{ID: 1, Description: "buy milk"})
		})
	}
}

func TestSessionRefetchPicksUpServerState(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService(model.Item{ID: 1, Description: "buy milk"})
	s := NewSession(svc, WithFailurePolicy(RefetchOnFailure))
	if err := s.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	// another client removed the item; our delete then fails
	svc.items = nil
	svc.fail["delete"] = errBoom
	if err := s.DeleteItem(ctx, 1); err == nil {
		t.Fatal("DeleteItem: want error")
	}
	if s.List().Len() != 0 {
		t.Fatalf("refetch did not apply server state: %v", s.Items())
	}
}

func TestSessionEditDialog(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService(model.Item{ID: 1, Description: "buy milk"}, model.Item{ID: 2, Description: "clean house"})
	s := NewSession(svc)
	if err := s.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	if err := s.ConfirmEdit(ctx); !errors.Is(err, ErrDialogClosed) {
		t.Fatalf("ConfirmEdit on closed dialog: got %v", err)
	}

	if !s.OpenEdit(2) {
		t.Fatal("OpenEdit(2) failed")
	}
	s.EditDraft("clean garage")
	s.CloseEdit()
	if IsOpen(s.Dialog()) {
		t.Fatal("dialog still open after CloseEdit")
	}
	if svc.calls["update"] != 0 {
		t.Fatal("closing the dialog sent an update")
	}

	s.OpenEdit(2)
	s.EditDraft("clean garage")
	if err := s.ConfirmEdit(ctx); err != nil {
		t.Fatalf("ConfirmEdit: %v", err)
	}
	if IsOpen(s.Dialog()) {
		t.Error("dialog open after confirm")
	}
	assertItems(t, s, model.Item{ID: 1, Description: "buy milk"}, model.Item{ID: 2, Description: "clean garage"})
}

func TestParseFailurePolicy(t *testing.T) {
	for in, want := range map[string]FailurePolicy{"": KeepOnFailure, "keep": KeepOnFailure, "Refetch": RefetchOnFailure} {
		got, err := ParseFailurePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseFailurePolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFailurePolicy("retry"); err == nil {
		t.Error("ParseFailurePolicy(retry): want error")
	}
}

func assertItems(t *testing.T, s *Session, want ...model.Item) {
	t.Helper()
	if got := s.Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("items: got %v, want %v", got, want)
	}
}
