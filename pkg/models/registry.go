package models

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/splitscroll/pkg/math3d"
	"github.com/taigrr/splitscroll/pkg/scene"
)

var (
	// ErrNotLoaded is returned for names that never finished loading.
	ErrNotLoaded = errors.New("model not loaded")
	// ErrLoadFailed wraps every per-entry fetch or decode failure.
	ErrLoadFailed = errors.New("asset load failed")
	// ErrAlreadyStarted is returned when Load is called twice.
	ErrAlreadyStarted = errors.New("registry already loading")
)

// Loader fetches and decodes one asset.
type Loader interface {
	LoadMesh(ctx context.Context, path string) (*Mesh, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string) (*Mesh, error)

// LoadMesh calls f.
func (f LoaderFunc) LoadMesh(ctx context.Context, path string) (*Mesh, error) {
	return f(ctx, path)
}

// Dispatcher runs completion callbacks on the goroutine that owns the scene.
type Dispatcher func(fn func())

// Inline runs callbacks on the loader goroutine itself.
func Inline(fn func()) { fn() }

// Entry names one asset to load.
type Entry struct {
	Name  string
	Path  string
	Scale math3d.Vec3 // zero means unit scale
}

// RegistryEntry is the load state of one Entry.
type RegistryEntry struct {
	Entry
	Loaded bool
	Err    error
	Group  *scene.Group
}

// Registry loads named assets concurrently and signals once all of them have
// completed.
type Registry struct {
	loader   Loader
	dispatch Dispatcher
	log      *slog.Logger

	// Concurrency bounds in-flight loads; <= 0 means unbounded.
	Concurrency int

	mu       sync.Mutex
	started  bool
	entries  map[string]*RegistryEntry
	order    []string
	pending  int
	ready    int
	fired    bool
	onLoaded []func()
	onEntry  []func(RegistryEntry)
	group    errgroup.Group
	sched    sync.WaitGroup
}

// NewRegistry creates a registry. A nil dispatch runs callbacks inline and a
// nil logger discards output.
func NewRegistry(loader Loader, dispatch Dispatcher, log *slog.Logger) *Registry {
	if dispatch == nil {
		dispatch = Inline
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		loader:      loader,
		dispatch:    dispatch,
		log:         log,
		Concurrency: 4,
		entries:     make(map[string]*RegistryEntry),
	}
}

// OnAllLoaded registers fn to run once after every entry completed with at
// least one success. It never runs if every entry failed.
func (r *Registry) OnAllLoaded(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onLoaded = append(r.onLoaded, fn)
}

// OnEntry registers fn to run after each entry completes, failed or not.
func (r *Registry) OnEntry(fn func(RegistryEntry)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEntry = append(r.onEntry, fn)
}

// Load schedules one asynchronous load per entry and returns immediately.
func (r *Registry) Load(ctx context.Context, entries []Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrAlreadyStarted
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return fmt.Errorf("entry for %q has no name", e.Path)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate entry %q", e.Name)
		}
		seen[e.Name] = true
	}
	r.started = true

	if len(entries) == 0 {
		r.log.Warn("no assets registered")
		return nil
	}

	r.pending = len(entries)
	if r.Concurrency > 0 {
		r.group.SetLimit(r.Concurrency)
	}
	for _, e := range entries {
		if e.Scale == (math3d.Vec3{}) {
			e.Scale = math3d.V3(1, 1, 1)
		}
		r.entries[e.Name] = &RegistryEntry{Entry: e}
		r.order = append(r.order, e.Name)
	}

	r.sched.Add(1)
	go func() {
		defer r.sched.Done()
		for _, e := range entries {
			r.group.Go(func() error {
				mesh, err := r.loader.LoadMesh(ctx, e.Path)
				if err == nil && mesh == nil {
					err = errors.New("loader returned no mesh")
				}
				r.dispatch(func() { r.complete(e.Name, mesh, err) })
				return nil
			})
		}
	}()
	return nil
}

// Wait blocks until every scheduled load returned from its Loader. Completion
// callbacks may still be queued on the dispatcher.
func (r *Registry) Wait() {
	r.sched.Wait()
	_ = r.group.Wait()
}

func (r *Registry) complete(name string, mesh *Mesh, err error) {
	r.mu.Lock()
	entry := r.entries[name]
	if err != nil {
		entry.Err = fmt.Errorf("%w: %s: %w", ErrLoadFailed, entry.Path, err)
		r.log.Warn("asset load failed", "name", name, "path", entry.Path, "err", err)
	} else {
		entry.Group = wrap(entry.Entry, mesh)
		entry.Loaded = true
		r.ready++
		r.log.Debug("asset loaded", "name", name, "path", entry.Path,
			"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	}
	r.pending--

	snapshot := *entry
	onEntry := append([]func(RegistryEntry){}, r.onEntry...)
	var onLoaded []func()
	if r.pending == 0 && !r.fired {
		if r.ready > 0 {
			r.fired = true
			onLoaded = append(onLoaded, r.onLoaded...)
		} else {
			r.log.Warn("no assets loaded", "entries", len(r.order))
		}
	}
	r.mu.Unlock()

	for _, fn := range onEntry {
		fn(snapshot)
	}
	for _, fn := range onLoaded {
		fn()
	}
}

// wrap places the mesh in a group named after the entry and applies the
// entry's shadow flags and scale to every mesh node.
func wrap(e Entry, mesh *Mesh) *scene.Group {
	g := scene.NewGroup(e.Name)
	g.Add(scene.NewMeshNode(mesh))
	g.Traverse(func(n *scene.MeshNode) {
		n.CastShadow = true
		n.ReceiveShadow = true
		n.Scale = e.Scale
	})
	return g
}

// Group returns the loaded group for name.
func (r *Registry) Group(name string) (*scene.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok || !e.Loaded {
		return nil, fmt.Errorf("%w: %q", ErrNotLoaded, name)
	}
	return e.Group, nil
}

// Entries returns a snapshot of every entry in registration order.
func (r *Registry) Entries() []RegistryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RegistryEntry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.entries[name])
	}
	return out
}

// Ready returns the names of loaded entries in registration order.
func (r *Registry) Ready() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for _, name := range r.order {
		if r.entries[name].Loaded {
			names = append(names, name)
		}
	}
	return names
}

// Done reports whether every entry has completed.
func (r *Registry) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started && r.pending == 0
}
