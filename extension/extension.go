package extension

import (
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/api"
	"github.com/wippyai/gdbind/classdb"
	"github.com/wippyai/gdbind/config"
	"github.com/wippyai/gdbind/dispatch"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/instance"
	"github.com/wippyai/gdbind/internal/guard"
	"github.com/wippyai/gdbind/object"
)

// Option configures an Extension.
type Option func(*options)

type options struct {
	logger *zap.Logger
	api    *api.Context
}

// WithLogger sets the logger used by the extension and the packages it
// drives.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAPI supplies engine metadata for parent validation and virtual
// resolution.
func WithAPI(ctx *api.Context) Option {
	return func(o *options) { o.api = ctx }
}

type queued struct {
	desc  *classdb.ClassDescriptor
	level config.InitLevel
}

// Extension is one extension library loaded into an engine.
type Extension struct {
	host        abi.Host
	api         *api.Context
	manifest    *config.Manifest
	objects     *object.Manager
	storage     *instance.Storage
	registry    *classdb.Registry
	dispatcher  *dispatch.Dispatcher
	loaded      map[config.InitLevel][]string
	initialized map[config.InitLevel]bool
	queue       []queued
	mu          guard.RWMutex
}

// New creates an extension talking to host.
func New(host abi.Host, opts ...Option) *Extension {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}

	regOpts := []classdb.RegistryOption{classdb.WithClassExists(host.ClassExists)}
	if o.api != nil {
		regOpts = append(regOpts, classdb.WithAPI(o.api))
	}
	objects := object.NewManager(host)
	storage := instance.NewStorage()
	registry := classdb.NewRegistry(regOpts...)

	return &Extension{
		host:        host,
		api:         o.api,
		objects:     objects,
		storage:     storage,
		registry:    registry,
		dispatcher:  dispatch.New(host, objects, storage, registry),
		loaded:      make(map[config.InitLevel][]string),
		initialized: make(map[config.InitLevel]bool),
	}
}

// NewFromManifest loads the manifest at path and, when it names one, the
// engine metadata file. The manifest's log level configures a development
// logger unless WithLogger is given.
func NewFromManifest(host abi.Host, path string, opts ...Option) (*Extension, error) {
	m, err := config.LoadManifest(path)
	if err != nil {
		return nil, err
	}

	var pre []Option
	if m.APIPath() != "" {
		ctx, err := api.LoadContext(m.APIPath())
		if err != nil {
			return nil, errors.Load("load engine metadata for "+m.Name, err)
		}
		pre = append(pre, WithAPI(ctx))
	}
	if m.LogLevel != "" {
		l, err := newLogger(m.LogLevel)
		if err != nil {
			return nil, err
		}
		pre = append(pre, WithLogger(l))
	}

	e := New(host, append(pre, opts...)...)
	e.manifest = m
	Logger().Info("extension loaded",
		zap.String("name", m.Name),
		zap.String("manifest", m.Path),
		zap.Int("classes", len(m.Classes)))
	return e, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level "+level)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "build logger")
	}
	return l, nil
}

// Host returns the engine.
func (e *Extension) Host() abi.Host { return e.host }

// API returns the engine metadata, or nil.
func (e *Extension) API() *api.Context { return e.api }

// Manifest returns the manifest the extension was loaded from, or nil.
func (e *Extension) Manifest() *config.Manifest { return e.manifest }

// Objects returns the handle manager.
func (e *Extension) Objects() *object.Manager { return e.objects }

// Storage returns the instance table.
func (e *Extension) Storage() *instance.Storage { return e.storage }

// Registry returns the class registry.
func (e *Extension) Registry() *classdb.Registry { return e.registry }

// Dispatcher returns the engine callback dispatcher.
func (e *Extension) Dispatcher() *dispatch.Dispatcher { return e.dispatcher }

// RegisterClass describes proto and queues it for level. A manifest entry
// for the class overrides level. If the level is already initialized the
// class is registered immediately.
func (e *Extension) RegisterClass(proto any, level config.InitLevel, opts ...classdb.Option) error {
	desc, err := classdb.Describe(proto, opts...)
	if err != nil {
		return err
	}
	if e.manifest != nil {
		for _, c := range e.manifest.Classes {
			if c.Name == desc.Name {
				level = c.Level
			}
		}
	}

	e.mu.Lock()
	for _, q := range e.queue {
		if q.desc.Name == desc.Name {
			e.mu.Unlock()
			return errors.AlreadyRegistered(errors.PhaseRegister, "class "+desc.Name)
		}
	}
	e.queue = append(e.queue, queued{desc: desc, level: level})
	live := e.initialized[level]
	e.mu.Unlock()

	if !live {
		return nil
	}
	if _, err := e.dispatcher.RegisterClass(desc); err != nil {
		return err
	}
	e.mu.Lock()
	e.loaded[level] = append(e.loaded[level], desc.Name)
	e.mu.Unlock()
	return nil
}

// Initialize registers the classes queued for level. A class that fails is
// skipped and its error collected; the others are still registered.
// Classes whose parent is queued at the same level are registered after
// it.
func (e *Extension) Initialize(level config.InitLevel) error {
	e.mu.Lock()
	if e.initialized[level] {
		e.mu.Unlock()
		return errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			Value(level.String()).
			Detail("level %s already initialized", level).
			Build()
	}
	e.initialized[level] = true
	var pending []*classdb.ClassDescriptor
	for _, q := range e.queue {
		if q.level == level {
			pending = append(pending, q.desc)
		}
	}
	e.mu.Unlock()

	var errs error
	var done []string
	for len(pending) > 0 {
		var next []*classdb.ClassDescriptor
		for _, desc := range pending {
			if waitsForParent(desc, pending) {
				next = append(next, desc)
				continue
			}
			if _, err := e.dispatcher.RegisterClass(desc); err != nil {
				errs = multierr.Append(errs, errors.Registration(desc.Name, err))
				Logger().Warn("class skipped",
					zap.String("class", desc.Name),
					zap.Stringer("level", level),
					zap.Error(err))
				continue
			}
			done = append(done, desc.Name)
		}
		if len(next) == len(pending) {
			// Parents form a cycle; report them instead of looping.
			for _, desc := range next {
				errs = multierr.Append(errs, errors.New(errors.PhaseRegister, errors.KindNotFound).
					Class(desc.Name).
					Detail("parent class %q never registered", desc.Parent).
					Build())
			}
			break
		}
		pending = next
	}

	e.mu.Lock()
	e.loaded[level] = append(e.loaded[level], done...)
	e.mu.Unlock()

	Logger().Debug("level initialized",
		zap.Stringer("level", level),
		zap.Strings("classes", done))
	return errs
}

func waitsForParent(desc *classdb.ClassDescriptor, pending []*classdb.ClassDescriptor) bool {
	return slices.ContainsFunc(pending, func(p *classdb.ClassDescriptor) bool {
		return p != desc && p.Name == desc.Parent
	})
}

// Deinitialize unregisters the classes of level in reverse registration
// order.
func (e *Extension) Deinitialize(level config.InitLevel) error {
	e.mu.Lock()
	if !e.initialized[level] {
		e.mu.Unlock()
		return errors.NotInitialized(errors.PhaseRegister, "level "+level.String())
	}
	names := e.loaded[level]
	delete(e.loaded, level)
	e.initialized[level] = false
	e.mu.Unlock()

	var errs error
	for _, name := range slices.Backward(names) {
		if n := e.storage.CountClass(name); n > 0 {
			Logger().Warn("class unregistered with live instances",
				zap.String("class", name),
				zap.Int("instances", n))
		}
		errs = multierr.Append(errs, e.dispatcher.UnregisterClass(name))
	}
	Logger().Debug("level deinitialized", zap.Stringer("level", level))
	return errs
}

// Levels returns the initialized levels in ascending order.
func (e *Extension) Levels() []config.InitLevel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []config.InitLevel
	for l, ok := range e.initialized {
		if ok {
			out = append(out, l)
		}
	}
	slices.Sort(out)
	return out
}

// Close deinitializes every level from the highest down, closes the
// instance table and logs leaked manual objects.
func (e *Extension) Close() error {
	var errs error
	for _, l := range slices.Backward(e.Levels()) {
		errs = multierr.Append(errs, e.Deinitialize(l))
	}
	errs = multierr.Append(errs, e.storage.Close())
	for _, leak := range e.objects.Leaks() {
		Logger().Warn("leaked object", zap.Stringer("object", leak))
	}
	return errs
}
