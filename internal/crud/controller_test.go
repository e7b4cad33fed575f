package crud

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"garageclient/internal/client"
	"garageclient/internal/domain"
	"garageclient/internal/domain/models"
	"garageclient/internal/listview"
)

// fakeService drives the orchestrators without a network; behavior is
// injected per test.
type fakeService[T any] struct {
	listFn   func(client.Query) (client.Outcome[[]T], error)
	getFn    func(string) (client.Outcome[T], error)
	createFn func(any) (client.Outcome[T], error)
	updateFn func(string, any) (client.Outcome[T], error)
	deleteFn func(string) (client.Outcome[struct{}], error)

	listCalls   atomic.Int32
	deleteCalls atomic.Int32
}

func (f *fakeService[T]) List(_ context.Context, q client.Query) (client.Outcome[[]T], error) {
	f.listCalls.Add(1)
	if f.listFn == nil {
		return client.Outcome[[]T]{Success: true, Data: []T{}, Pages: 1}, nil
	}
	return f.listFn(q)
}

func (f *fakeService[T]) Get(_ context.Context, id string) (client.Outcome[T], error) {
	return f.getFn(id)
}

func (f *fakeService[T]) Create(_ context.Context, input any) (client.Outcome[T], error) {
	return f.createFn(input)
}

func (f *fakeService[T]) Update(_ context.Context, id string, input any) (client.Outcome[T], error) {
	return f.updateFn(id, input)
}

func (f *fakeService[T]) Delete(_ context.Context, id string) (client.Outcome[struct{}], error) {
	f.deleteCalls.Add(1)
	if f.deleteFn == nil {
		return client.Outcome[struct{}]{Success: true}, nil
	}
	return f.deleteFn(id)
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) Go(path string) {
	n.mu.Lock()
	n.paths = append(n.paths, path)
	n.mu.Unlock()
}

func (n *recordingNav) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

func newTestController(svc Service[models.Item], notifier *recordingNotifier, nav *recordingNav, confirm Confirmer) *Controller[models.Item] {
	return NewController(ControllerConfig[models.Item]{
		Service:  svc,
		State:    listview.NewState("/api/items", nil),
		BasePath: "/items",
		Title:    "item",
		Notifier: notifier,
		Nav:      nav,
		Confirm:  confirm,
	})
}

func TestControllerLoad(t *testing.T) {
	svc := &fakeService[models.Item]{
		listFn: func(q client.Query) (client.Outcome[[]models.Item], error) {
			return client.Outcome[[]models.Item]{
				Success: true,
				Data:    []models.Item{{ID: "1", Name: "Oil Filter"}},
				Count:   25,
				Pages:   3,
			}, nil
		},
	}
	c := newTestController(svc, &recordingNotifier{}, &recordingNav{}, nil)

	c.Load(context.Background())

	if len(c.Items()) != 1 || c.Total() != 25 || c.TotalPages() != 3 {
		t.Fatalf("items=%d total=%d pages=%d", len(c.Items()), c.Total(), c.TotalPages())
	}
	if c.IsLoading() {
		t.Fatalf("loading flag must be released after Load")
	}
}

func TestControllerLoadFailureKeepsItems(t *testing.T) {
	fail := false
	svc := &fakeService[models.Item]{
		listFn: func(q client.Query) (client.Outcome[[]models.Item], error) {
			if fail {
				return client.Outcome[[]models.Item]{Message: "boom"}, domain.TransportError{Msg: "boom"}
			}
			return client.Outcome[[]models.Item]{
				Success: true,
				Data:    []models.Item{{ID: "1"}},
				Count:   1,
				Pages:   1,
			}, nil
		},
	}
	notifier := &recordingNotifier{}
	c := newTestController(svc, notifier, &recordingNav{}, nil)

	ctx := context.Background()
	c.Load(ctx)
	fail = true
	c.Load(ctx)

	if len(c.Items()) != 1 {
		t.Fatalf("failed load must keep prior items, got %d", len(c.Items()))
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("failure must notify exactly once, got %v", notifier.errors)
	}
	if c.IsLoading() {
		t.Fatalf("loading flag must be released on failure")
	}
}

func TestControllerStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	var call atomic.Int32
	svc := &fakeService[models.Item]{
		listFn: func(q client.Query) (client.Outcome[[]models.Item], error) {
			if call.Add(1) == 1 {
				<-release // first request resolves after the second
				return client.Outcome[[]models.Item]{
					Success: true,
					Data:    []models.Item{{ID: "stale"}},
					Count:   1, Pages: 1,
				}, nil
			}
			return client.Outcome[[]models.Item]{
				Success: true,
				Data:    []models.Item{{ID: "fresh"}},
				Count:   1, Pages: 1,
			}, nil
		},
	}
	c := newTestController(svc, &recordingNotifier{}, &recordingNav{}, nil)

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		c.Load(ctx) // first, will resolve late
		close(done)
	}()

	// Wait for the first call to be in flight, then issue the newer load.
	for call.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	c.Load(ctx)
	close(release)
	<-done

	items := c.Items()
	if len(items) != 1 || items[0].ID != "fresh" {
		t.Fatalf("stale response must be discarded, got %+v", items)
	}
	if c.IsLoading() {
		t.Fatalf("loading flag must settle")
	}
}

func TestControllerCreateSuccess(t *testing.T) {
	svc := &fakeService[models.Item]{
		createFn: func(input any) (client.Outcome[models.Item], error) {
			return client.Outcome[models.Item]{
				Success: true,
				Data:    models.Item{ID: "new-id", Name: "Oil Filter"},
			}, nil
		},
	}
	notifier := &recordingNotifier{}
	nav := &recordingNav{}
	c := newTestController(svc, notifier, nav, nil)

	created, ok := c.Create(context.Background(), map[string]any{"name": "Oil Filter"})
	if !ok {
		t.Fatalf("expected success")
	}
	if created.ID == "" {
		t.Fatalf("created entity must have a non-empty id")
	}
	if len(notifier.successes) != 1 {
		t.Fatalf("success notification missing: %v", notifier.successes)
	}
	if nav.last() != "/items" {
		t.Fatalf("must navigate to base path, got %q", nav.last())
	}
}

func TestControllerUpdateFieldErrors(t *testing.T) {
	svc := &fakeService[models.Item]{
		updateFn: func(id string, input any) (client.Outcome[models.Item], error) {
			return client.Outcome[models.Item]{
				Errors: []domain.FieldError{{Field: "price", Message: "must be non-negative"}},
			}, domain.ValidationError{Field: "price", Msg: "must be non-negative"}
		},
	}
	notifier := &recordingNotifier{}
	nav := &recordingNav{}
	c := newTestController(svc, notifier, nav, nil)

	_, ok := c.Update(context.Background(), "1", map[string]any{"price": -5})
	if ok {
		t.Fatalf("expected failure")
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "price: must be non-negative" {
		t.Fatalf("want one notification per field error, got %v", notifier.errors)
	}
	if nav.last() != "" {
		t.Fatalf("validation failure must not navigate, got %q", nav.last())
	}
}

func TestControllerDeleteDeclined(t *testing.T) {
	svc := &fakeService[models.Item]{}
	notifier := &recordingNotifier{}
	c := newTestController(svc, notifier, &recordingNav{}, StaticConfirmer(false))

	if c.Delete(context.Background(), "1") {
		t.Fatalf("declined confirmation must not delete")
	}
	if svc.deleteCalls.Load() != 0 {
		t.Fatalf("declined confirmation must make no network call")
	}
	if len(notifier.errors)+len(notifier.successes) != 0 {
		t.Fatalf("declined confirmation must be silent")
	}
}

func TestControllerDeleteReloadsOnSuccess(t *testing.T) {
	svc := &fakeService[models.Item]{}
	c := newTestController(svc, &recordingNotifier{}, &recordingNav{}, StaticConfirmer(true))

	if !c.Delete(context.Background(), "1") {
		t.Fatalf("expected delete to succeed")
	}
	if svc.deleteCalls.Load() != 1 {
		t.Fatalf("delete calls = %d, want 1", svc.deleteCalls.Load())
	}
	if svc.listCalls.Load() != 1 {
		t.Fatalf("successful delete must reload the list once, got %d", svc.listCalls.Load())
	}
}

func TestControllerDeleteFailureNoReload(t *testing.T) {
	svc := &fakeService[models.Item]{
		deleteFn: func(id string) (client.Outcome[struct{}], error) {
			return client.Outcome[struct{}]{Message: "not found"}, domain.NotFoundError{Resource: "item"}
		},
	}
	notifier := &recordingNotifier{}
	c := newTestController(svc, notifier, &recordingNav{}, StaticConfirmer(true))

	if c.Delete(context.Background(), "1") {
		t.Fatalf("expected delete to fail")
	}
	if svc.listCalls.Load() != 0 {
		t.Fatalf("failed delete must not reload the list")
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("failure must notify, got %v", notifier.errors)
	}
}
