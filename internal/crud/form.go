package crud

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"garageclient/internal/domain"
	"garageclient/internal/utils"
)

// Form manages create/edit for one entity. Mode follows the id: empty id
// is create mode seeded from initial values; a present id is edit mode,
// fetching the entity on Start and replacing local values with it.
type Form[T any] struct {
	svc      Service[T]
	basePath string
	title    string
	id       string

	notifier Notifier
	nav      Navigator

	mu      sync.Mutex
	values  map[string]any
	loading bool
}

type FormConfig[T any] struct {
	Service  Service[T]
	BasePath string
	Title    string
	// ID empty selects create mode.
	ID string
	// Initial seeds create-mode values; ignored in edit mode.
	Initial  map[string]any
	Notifier Notifier
	Nav      Navigator
}

func NewForm[T any](cfg FormConfig[T]) *Form[T] {
	f := &Form[T]{
		svc:      cfg.Service,
		basePath: cfg.BasePath,
		title:    cfg.Title,
		id:       cfg.ID,
		notifier: cfg.Notifier,
		nav:      cfg.Nav,
		values:   map[string]any{},
	}
	if f.title == "" {
		f.title = "record"
	}
	if f.notifier == nil {
		f.notifier = NopNotifier{}
	}
	if f.nav == nil {
		f.nav = NopNavigator{}
	}
	for k, v := range cfg.Initial {
		f.values[k] = v
	}
	return f
}

// EditMode reports whether Submit will update rather than create.
func (f *Form[T]) EditMode() bool {
	return f.id != ""
}

func (f *Form[T]) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Start fetches the entity in edit mode; a failed fetch notifies and
// navigates back to the listing. Create mode is a no-op.
func (f *Form[T]) Start(ctx context.Context) {
	if f.id == "" {
		return
	}

	f.setLoading(true)
	defer f.setLoading(false)

	out, err := f.svc.Get(ctx, f.id)
	if err != nil || !out.Success {
		utils.LogError("", "crud", "form_load_"+f.title, loadErr(err, out.Message))
		f.notifier.Error(failMessage("load "+f.title, out.Message))
		f.nav.Go(f.basePath)
		return
	}

	doc, err := entityToMap(out.Data)
	if err != nil {
		utils.LogError("", "crud", "form_load_"+f.title, err)
		f.notifier.Error(failMessage("load "+f.title, "unrecognized response shape"))
		f.nav.Go(f.basePath)
		return
	}

	f.mu.Lock()
	f.values = doc
	f.mu.Unlock()
}

// Values returns a copy of the current form values.
func (f *Form[T]) Values() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Value reads one field by path ("price" or "owner.name").
func (f *Form[T]) Value(path string) any {
	f.mu.Lock()
	defer f.mu.Unlock()

	head, tail, nested := strings.Cut(path, ".")
	if !nested {
		return f.values[head]
	}
	if inner, ok := f.values[head].(map[string]any); ok {
		return inner[tail]
	}
	return nil
}

// SetField writes one field. One level of nesting is supported: a
// "owner.name" path merges into the nested object, preserving its sibling
// fields.
func (f *Form[T]) SetField(path string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	head, tail, nested := strings.Cut(path, ".")
	if !nested {
		f.values[head] = value
		return
	}

	inner, ok := f.values[head].(map[string]any)
	if !ok {
		inner = map[string]any{}
	}
	inner[tail] = value
	f.values[head] = inner
}

// SetInput binds a raw text input to a field. Numeric inputs coerce the
// string to a number; an unparsable value falls back to the raw string so
// the user sees exactly what they typed.
func (f *Form[T]) SetInput(path, raw string, numeric bool) {
	if !numeric {
		f.SetField(path, raw)
		return
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		f.SetField(path, n)
		return
	}
	f.SetField(path, raw)
}

// Submit dispatches create or update per mode. Success notifies and
// navigates to the listing. Field-level errors notify one message per
// field and keep the user (and their values) on the form; a generic
// failure shows its message without navigating.
func (f *Form[T]) Submit(ctx context.Context) (T, bool) {
	var zero T

	f.setLoading(true)
	defer f.setLoading(false)

	payload := f.Values()

	if f.id == "" {
		res, err := f.svc.Create(ctx, payload)
		if err != nil || !res.Success {
			f.reportFailure("create", res.Message, res.Errors, err)
			return zero, false
		}
		f.notifier.Success(f.title + " created")
		f.nav.Go(f.basePath)
		return res.Data, true
	}

	res, err := f.svc.Update(ctx, f.id, payload)
	if err != nil || !res.Success {
		f.reportFailure("update", res.Message, res.Errors, err)
		return zero, false
	}
	f.notifier.Success(f.title + " updated")
	f.nav.Go(f.basePath)
	return res.Data, true
}

func (f *Form[T]) reportFailure(action, message string, errs []domain.FieldError, err error) {
	utils.LogError("", "crud", "form_"+action+"_"+f.title, loadErr(err, message))
	if len(errs) > 0 {
		for _, fe := range errs {
			f.notifier.Error(fe.Field + ": " + fe.Message)
		}
		return
	}
	f.notifier.Error(failMessage(action+" "+f.title, message))
}

func (f *Form[T]) setLoading(v bool) {
	f.mu.Lock()
	f.loading = v
	f.mu.Unlock()
}

func entityToMap[T any](v T) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
