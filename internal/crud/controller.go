package crud

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"garageclient/internal/client"
	"garageclient/internal/listview"
	"garageclient/internal/utils"
)

// Controller binds list state to a resource service and exposes the data
// plus mutation actions a list page needs. No error escapes any method:
// failures surface as a notification plus a log line.
type Controller[T any] struct {
	svc      Service[T]
	state    *listview.State
	basePath string
	title    string

	notifier Notifier
	nav      Navigator
	confirm  Confirmer

	mu      sync.Mutex
	items   []T
	total   int
	page    int
	pages   int
	loading bool

	// loadSeq orders overlapping loads so a stale response can never
	// overwrite a newer one.
	loadSeq atomic.Uint64
}

// ControllerConfig wires the collaborators for one list page.
type ControllerConfig[T any] struct {
	Service  Service[T]
	State    *listview.State
	BasePath string
	// Title names the resource in notifications, e.g. "item".
	Title    string
	Notifier Notifier
	Nav      Navigator
	Confirm  Confirmer
	// AutoReload re-runs Load whenever the list state changes.
	AutoReload bool
}

// NewController builds the orchestrator. With AutoReload set, every state
// change (page, search, sort, filters) triggers a background reload.
func NewController[T any](cfg ControllerConfig[T]) *Controller[T] {
	c := &Controller[T]{
		svc:      cfg.Service,
		state:    cfg.State,
		basePath: cfg.BasePath,
		title:    cfg.Title,
		notifier: cfg.Notifier,
		nav:      cfg.Nav,
		confirm:  cfg.Confirm,
		items:    []T{},
		page:     1,
		pages:    1,
	}
	if c.title == "" {
		c.title = "record"
	}
	if c.notifier == nil {
		c.notifier = NopNotifier{}
	}
	if c.nav == nil {
		c.nav = NopNavigator{}
	}
	if c.confirm == nil {
		c.confirm = StaticConfirmer(false)
	}
	if cfg.AutoReload && c.state != nil {
		c.state.OnChange(func() { c.Load(context.Background()) })
	}
	return c
}

func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Controller[T]) Total() int       { c.mu.Lock(); defer c.mu.Unlock(); return c.total }
func (c *Controller[T]) CurrentPage() int { c.mu.Lock(); defer c.mu.Unlock(); return c.page }
func (c *Controller[T]) TotalPages() int  { c.mu.Lock(); defer c.mu.Unlock(); return c.pages }
func (c *Controller[T]) IsLoading() bool  { c.mu.Lock(); defer c.mu.Unlock(); return c.loading }

// Load fetches the page described by the live query state. On failure the
// previous items stay; the loading flag is released on every exit path,
// but only by the newest load so a slow stale call cannot flicker it.
func (c *Controller[T]) Load(ctx context.Context) {
	seq := c.loadSeq.Add(1)
	c.setLoading(true)
	defer func() {
		if r := recover(); r != nil {
			utils.LogError("", "crud", "load_"+c.title, fmt.Errorf("panic: %v", r))
			c.notifier.Error("failed to load " + c.title + " list")
		}
		if seq == c.loadSeq.Load() {
			c.setLoading(false)
		}
	}()

	q := c.state.Query()
	out, err := c.svc.List(ctx, q)

	if seq != c.loadSeq.Load() {
		// A newer load was issued while this one was in flight.
		return
	}
	if err != nil || !out.Success {
		utils.LogError("", "crud", "load_"+c.title, loadErr(err, out.Message))
		c.notifier.Error(failMessage("load "+c.title+" list", out.Message))
		return
	}

	c.mu.Lock()
	c.items = out.Data
	c.total = out.Count
	c.page = q.Page
	c.pages = out.Pages
	if c.pages < 1 {
		c.pages = client.TotalPages(out.Count, q.Limit)
	}
	c.mu.Unlock()
}

// Get fetches one entity without touching list state.
func (c *Controller[T]) Get(ctx context.Context, id string) (T, bool) {
	var zero T
	out, err := c.svc.Get(ctx, id)
	if err != nil || !out.Success {
		utils.LogError("", "crud", "get_"+c.title, loadErr(err, out.Message))
		c.notifier.Error(failMessage("load "+c.title, out.Message))
		return zero, false
	}
	return out.Data, true
}

// Create posts a new entity. Success notifies and navigates back to the
// listing; any failure notifies and stays put.
func (c *Controller[T]) Create(ctx context.Context, input any) (T, bool) {
	return c.mutate(ctx, "create", func() (client.Outcome[T], error) {
		return c.svc.Create(ctx, input)
	})
}

// Update edits an entity by id with the same outcome contract as Create.
func (c *Controller[T]) Update(ctx context.Context, id string, input any) (T, bool) {
	return c.mutate(ctx, "update", func() (client.Outcome[T], error) {
		return c.svc.Update(ctx, id, input)
	})
}

func (c *Controller[T]) mutate(_ context.Context, action string, call func() (client.Outcome[T], error)) (T, bool) {
	var zero T
	c.setLoading(true)
	defer c.setLoading(false)

	out, err := call()
	if err != nil || !out.Success {
		utils.LogError("", "crud", action+"_"+c.title, loadErr(err, out.Message))
		c.notifyFailure(action+" "+c.title, out)
		return zero, false
	}

	c.notifier.Success(c.title + " " + action + "d")
	c.nav.Go(c.basePath)
	return out.Data, true
}

// Delete asks for confirmation first; a declined prompt is a no-op with
// no network call. Only a successful delete reloads the list, using
// whatever query state is live at that moment.
func (c *Controller[T]) Delete(ctx context.Context, id string) bool {
	if !c.confirm.Confirm("Delete this " + c.title + "?") {
		return false
	}

	c.setLoading(true)
	out, err := c.svc.Delete(ctx, id)
	c.setLoading(false)

	if err != nil || !out.Success {
		utils.LogError("", "crud", "delete_"+c.title, loadErr(err, out.Message))
		c.notifier.Error(failMessage("delete "+c.title, out.Message))
		return false
	}

	c.notifier.Success(c.title + " deleted")
	c.Load(ctx)
	return true
}

func (c *Controller[T]) notifyFailure(action string, out client.Outcome[T]) {
	if len(out.Errors) > 0 {
		// One notification per field error; the user stays on the form.
		for _, fe := range out.Errors {
			c.notifier.Error(fe.Field + ": " + fe.Message)
		}
		return
	}
	c.notifier.Error(failMessage(action, out.Message))
}

func (c *Controller[T]) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func failMessage(action, detail string) string {
	if detail != "" {
		return "failed to " + action + ": " + detail
	}
	return "failed to " + action
}

func loadErr(err error, message string) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("%s", message)
}
