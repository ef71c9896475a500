package di

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	goerrors "github.com/kbukum/wirekit/errors"
	"github.com/kbukum/wirekit/logger"
	"github.com/kbukum/wirekit/observability"
)

// Phase is a state of a scan pass.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDiscovering
	PhaseInstantiating
	PhaseInjecting
	PhasePostInit
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDiscovering:
		return "discovering"
	case PhaseInstantiating:
		return "instantiating"
	case PhaseInjecting:
		return "injecting"
	case PhasePostInit:
		return "post_init"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Namespace is a named group of classes plus the namespaces it imports.
type Namespace struct {
	Name    string
	Classes []*Class
	Imports []string
}

// Catalog enumerates the classes reachable in a namespace. The same name must
// yield the same classes in the same order for the life of the process.
type Catalog interface {
	Lookup(namespace string) (Namespace, bool)
}

// StaticCatalog is a Catalog backed by an explicit registration table.
type StaticCatalog struct {
	mu         sync.RWMutex
	namespaces map[string]*Namespace
}

// NewStaticCatalog creates an empty catalog.
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{namespaces: make(map[string]*Namespace)}
}

func (s *StaticCatalog) namespace(name string) *Namespace {
	ns, ok := s.namespaces[name]
	if !ok {
		ns = &Namespace{Name: name}
		s.namespaces[name] = ns
	}
	return ns
}

// Add appends classes to namespace, creating it if needed.
func (s *StaticCatalog) Add(namespace string, classes ...*Class) *StaticCatalog {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns := s.namespace(namespace)
	ns.Classes = append(ns.Classes, classes...)
	return s
}

// Import makes namespace import the given namespaces.
func (s *StaticCatalog) Import(namespace string, imported ...string) *StaticCatalog {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns := s.namespace(namespace)
	ns.Imports = append(ns.Imports, imported...)
	return s
}

// Lookup returns a copy of the named namespace.
func (s *StaticCatalog) Lookup(namespace string) (Namespace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		return Namespace{}, false
	}
	return Namespace{
		Name:    ns.Name,
		Classes: append([]*Class(nil), ns.Classes...),
		Imports: append([]string(nil), ns.Imports...),
	}, true
}

// Names returns the known namespace names, sorted.
func (s *StaticCatalog) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.namespaces))
	for name := range s.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Failure is a class that could not be constructed or post-initialized.
type Failure struct {
	Phase Phase
	Class string
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Phase, f.Class, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// ScanResult summarizes one wiring pass.
type ScanResult struct {
	// Namespaces discovered by this pass, in discovery order.
	Namespaces []string
	// Skipped namespaces: already discovered, or imported but unknown.
	Skipped []string

	Services    []string
	Controllers []string
	Injections  []InjectionReport
	Failures    []Failure
	Phases      []Phase
	Duration    time.Duration
}

// Err joins the failures, or returns nil.
func (r *ScanResult) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Missing returns every missing dependency reported during injection.
func (r *ScanResult) Missing() []MissingDependency {
	var out []MissingDependency
	for _, rep := range r.Injections {
		out = append(out, rep.Missing...)
	}
	return out
}

func (r *ScanResult) enter(p Phase) { r.Phases = append(r.Phases, p) }

// Scan discovers the classes of each namespace and wires them: every service
// is constructed and registered, services are injected before controllers,
// and controllers receive their Initialize call last. A namespace this
// container has already discovered is skipped.
//
// Unknown top-level namespaces and a container locked to the eager strategy
// are rejected before any state changes. Per-class failures never abort the
// pass; they are returned in the result.
func (c *Container) Scan(ctx context.Context, namespaces ...string) (*ScanResult, error) {
	if c.catalog == nil && len(namespaces) > 0 {
		return nil, goerrors.UnknownNamespace(namespaces[0]).WithDetail("reason", "no catalog configured")
	}
	for _, ns := range namespaces {
		if _, ok := c.catalog.Lookup(ns); !ok {
			return nil, goerrors.UnknownNamespace(ns)
		}
	}
	if err := c.lockStrategy(StrategyScan); err != nil {
		return nil, err
	}

	c.wireMu.Lock()
	defer c.wireMu.Unlock()

	ctx, span := c.tel.StartSpan(ctx, observability.SpanScan,
		attribute.String(observability.AttrContainerID, c.id),
		attribute.StringSlice(observability.AttrNamespace, namespaces),
	)
	defer span.End()

	start := time.Now()
	result := &ScanResult{Phases: []Phase{PhaseIdle}}
	log := c.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldStrategy, StrategyScan.String()))

	result.enter(PhaseDiscovering)
	_, dspan := c.tel.StartSpan(ctx, observability.SpanScanDiscover)
	for _, ns := range namespaces {
		c.discover(ns, result)
	}
	dspan.SetAttributes(attribute.StringSlice(observability.AttrNamespace, result.Namespaces))
	dspan.End()

	c.runPhases(ctx, result, c.registry.takeServiceClasses(), c.registry.takeControllerClasses())

	result.enter(PhaseDone)
	result.Duration = time.Since(start)
	c.tel.RecordWire(ctx, StrategyScan.String(), result.Duration)
	if len(result.Failures) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d failures", len(result.Failures)))
	}

	log.Info("scan complete", logger.Fields(
		logger.FieldNamespace, result.Namespaces,
		"services", len(result.Services),
		"controllers", len(result.Controllers),
		"failures", len(result.Failures),
		logger.FieldDuration, result.Duration.Milliseconds(),
	))
	return result, nil
}

// AutoWire constructs and wires the classes queued with RegisterServiceClass
// and RegisterControllerClass, using the same phases as Scan.
func (c *Container) AutoWire(ctx context.Context) (*ScanResult, error) {
	return c.autoWire(ctx, true, true)
}

// AutoWireServices constructs, registers and injects the queued service
// classes only.
func (c *Container) AutoWireServices(ctx context.Context) (*ScanResult, error) {
	return c.autoWire(ctx, true, false)
}

// AutoWireControllers constructs, injects and initializes the queued
// controller classes only.
func (c *Container) AutoWireControllers(ctx context.Context) (*ScanResult, error) {
	return c.autoWire(ctx, false, true)
}

func (c *Container) autoWire(ctx context.Context, services, controllers bool) (*ScanResult, error) {
	if err := c.lockStrategy(StrategyScan); err != nil {
		return nil, err
	}

	c.wireMu.Lock()
	defer c.wireMu.Unlock()

	ctx, span := c.tel.StartSpan(ctx, observability.SpanScan,
		attribute.String(observability.AttrContainerID, c.id))
	defer span.End()

	start := time.Now()
	result := &ScanResult{Phases: []Phase{PhaseIdle}}

	var svc, ctrl []*Class
	if services {
		svc = c.registry.takeServiceClasses()
	}
	if controllers {
		ctrl = c.registry.takeControllerClasses()
	}
	c.runPhases(ctx, result, svc, ctrl)

	result.enter(PhaseDone)
	result.Duration = time.Since(start)
	c.tel.RecordWire(ctx, StrategyScan.String(), result.Duration)
	return result, nil
}

// discover walks ns and its imports depth-first, imports first, queueing
// every marked class. Namespaces already discovered are skipped.
func (c *Container) discover(ns string, result *ScanResult) {
	c.mu.Lock()
	seen := c.discovered[ns]
	c.discovered[ns] = true
	c.mu.Unlock()

	if seen {
		result.Skipped = append(result.Skipped, ns)
		c.emit(Diagnostic{Kind: DiagSkipped, Target: ns, Message: "namespace already discovered: " + ns})
		return
	}

	namespace, ok := c.catalog.Lookup(ns)
	if !ok {
		result.Skipped = append(result.Skipped, ns)
		c.emit(Diagnostic{Kind: DiagSkipped, Target: ns, Message: goerrors.UnknownNamespace(ns).Message})
		return
	}

	for _, imported := range namespace.Imports {
		c.discover(imported, result)
	}

	result.Namespaces = append(result.Namespaces, ns)
	for _, class := range namespace.Classes {
		if class == nil || class.Kind == KindNone {
			continue
		}
		if err := validateClass(class); err != nil {
			result.Failures = append(result.Failures, Failure{Phase: PhaseDiscovering, Class: class.Name, Err: err})
			c.emit(Diagnostic{Kind: DiagFailure, Target: class.Name, Message: err.Error()})
			continue
		}

		switch class.Kind {
		case KindService:
			if !c.registry.RegisterClass(class.Key(), class) {
				c.emit(Diagnostic{Kind: DiagSkipped, Key: class.Key(), Target: class.Name,
					Message: "instance already registered under " + class.Key()})
			}
		case KindController:
			c.registry.AddControllerClass(class)
		}
	}
}

type wired struct {
	class    *Class
	instance any
}

// runPhases runs instantiation, injection and post-init over the given classes.
func (c *Container) runPhases(ctx context.Context, result *ScanResult, serviceClasses, controllerClasses []*Class) {
	result.enter(PhaseInstantiating)
	ictx, ispan := c.tel.StartSpan(ctx, observability.SpanScanInstantiate)
	var services, controllers []wired
	for _, class := range serviceClasses {
		key := class.Key()
		if c.registry.Has(key) {
			c.emit(Diagnostic{Kind: DiagSkipped, Key: key, Target: class.Name,
				Message: "instance already registered under " + key})
			continue
		}
		instance, err := class.newInstance()
		if err != nil {
			c.fail(ictx, result, PhaseInstantiating, class, err)
			continue
		}
		c.register(ictx, key, instance)
		services = append(services, wired{class, instance})
		result.Services = append(result.Services, key)
	}
	for _, class := range controllerClasses {
		instance, err := class.newInstance()
		if err != nil {
			c.fail(ictx, result, PhaseInstantiating, class, err)
			continue
		}
		c.registry.AddController(instance)
		controllers = append(controllers, wired{class, instance})
		result.Controllers = append(result.Controllers, InstanceName(class.Name))
	}
	ispan.End()

	result.enter(PhaseInjecting)
	jctx, jspan := c.tel.StartSpan(ctx, observability.SpanScanInject)
	for _, w := range services {
		result.Injections = append(result.Injections, c.inject(jctx, w.class, w.instance))
	}
	for _, w := range controllers {
		result.Injections = append(result.Injections, c.inject(jctx, w.class, w.instance))
	}
	jspan.End()

	result.enter(PhasePostInit)
	pctx, pspan := c.tel.StartSpan(ctx, observability.SpanScanPostInit)
	for _, w := range controllers {
		if err := c.postInit(w.class, w.instance); err != nil {
			c.fail(pctx, result, PhasePostInit, w.class, err)
		}
	}
	pspan.End()
}

func (c *Container) fail(ctx context.Context, result *ScanResult, phase Phase, class *Class, err error) {
	result.Failures = append(result.Failures, Failure{Phase: phase, Class: class.Name, Err: err})
	c.emit(Diagnostic{Kind: DiagFailure, Key: class.Key(), Target: class.Name, Message: err.Error()})
	c.tel.RecordFailure(ctx, phase.String())
	observability.SetSpanError(ctx, err)
}

// postInit calls Initialize on controllers that implement Initializer.
func (c *Container) postInit(class *Class, instance any) (err error) {
	if class.Kind != KindController {
		return nil
	}
	hook, ok := instance.(Initializer)
	if !ok {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = goerrors.PostInitFailed(class.Name, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := hook.Initialize(); err != nil {
		return goerrors.PostInitFailed(class.Name, err)
	}
	c.emit(Diagnostic{Kind: DiagPostInit, Target: class.Name, Message: "initialized " + class.Name})
	return nil
}
