package crud

import (
	"context"
	"sync"

	"garageclient/internal/utils"
)

// Details manages one entity across view and delete. A failed fetch sends
// the user back to the listing; nothing renders half-loaded state.
type Details[T any] struct {
	svc      Service[T]
	basePath string
	title    string

	notifier Notifier
	nav      Navigator
	confirm  Confirmer

	mu      sync.Mutex
	id      string
	entity  T
	loaded  bool
	loading bool
}

type DetailsConfig[T any] struct {
	Service  Service[T]
	BasePath string
	Title    string
	ID       string
	Notifier Notifier
	Nav      Navigator
	Confirm  Confirmer
}

func NewDetails[T any](cfg DetailsConfig[T]) *Details[T] {
	d := &Details[T]{
		svc:      cfg.Service,
		basePath: cfg.BasePath,
		title:    cfg.Title,
		id:       cfg.ID,
		notifier: cfg.Notifier,
		nav:      cfg.Nav,
		confirm:  cfg.Confirm,
	}
	if d.title == "" {
		d.title = "record"
	}
	if d.notifier == nil {
		d.notifier = NopNotifier{}
	}
	if d.nav == nil {
		d.nav = NopNavigator{}
	}
	if d.confirm == nil {
		d.confirm = StaticConfirmer(false)
	}
	return d
}

// Entity returns the loaded value; ok is false until a fetch succeeds.
func (d *Details[T]) Entity() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entity, d.loaded
}

func (d *Details[T]) IsLoading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// SetID switches to another entity and refetches.
func (d *Details[T]) SetID(ctx context.Context, id string) {
	d.mu.Lock()
	d.id = id
	d.loaded = false
	d.mu.Unlock()
	d.Fetch(ctx)
}

// Fetch loads the entity. Wrapped and bare response shapes are both
// accepted upstream; an unrecognized shape or missing entity notifies and
// navigates back to the listing.
func (d *Details[T]) Fetch(ctx context.Context) {
	d.setLoading(true)
	defer d.setLoading(false)

	d.mu.Lock()
	id := d.id
	d.mu.Unlock()

	out, err := d.svc.Get(ctx, id)
	if err != nil || !out.Success {
		utils.LogError("", "crud", "details_"+d.title, loadErr(err, out.Message))
		d.notifier.Error(failMessage("load "+d.title, out.Message))
		d.nav.Go(d.basePath)
		return
	}

	d.mu.Lock()
	d.entity = out.Data
	d.loaded = true
	d.mu.Unlock()
}

// Refresh re-runs the fetch with the standard cycle.
func (d *Details[T]) Refresh(ctx context.Context) {
	d.Fetch(ctx)
}

// Delete confirm-gates the removal. Success navigates back to the
// listing; failure notifies and stays on the page.
func (d *Details[T]) Delete(ctx context.Context) bool {
	if !d.confirm.Confirm("Delete this " + d.title + "?") {
		return false
	}

	d.setLoading(true)

	d.mu.Lock()
	id := d.id
	d.mu.Unlock()

	out, err := d.svc.Delete(ctx, id)
	if err != nil || !out.Success {
		d.setLoading(false)
		utils.LogError("", "crud", "details_delete_"+d.title, loadErr(err, out.Message))
		d.notifier.Error(failMessage("delete "+d.title, out.Message))
		return false
	}

	d.setLoading(false)
	d.notifier.Success(d.title + " deleted")
	d.nav.Go(d.basePath)
	return true
}

func (d *Details[T]) setLoading(v bool) {
	d.mu.Lock()
	d.loading = v
	d.mu.Unlock()
}
