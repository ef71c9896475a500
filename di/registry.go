package di

import "sync"

// Registry maps registration keys to live instances and to classes still
// awaiting construction, and keeps the controller list. A key holds at most
// one descriptor: registering an instance supersedes a pending class.
// All methods are safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	instances map[string]any
	order     []string

	classes    map[string]*Class
	classOrder []string

	controllers       []any
	controllerClasses []*Class
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		instances: make(map[string]any),
		classes:   make(map[string]*Class),
	}
}

// Register stores instance under key, replacing any previous instance.
// It reports whether an instance was replaced.
func (r *Registry) Register(key string, instance any) (replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, replaced = r.instances[key]; !replaced {
		r.order = append(r.order, key)
	}
	r.instances[key] = instance
	delete(r.classes, key)
	return replaced
}

// RegisterClass stores a class for later construction. It does nothing and
// returns false when an instance already exists under key.
func (r *Registry) RegisterClass(key string, class *Class) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instances[key]; exists {
		return false
	}
	if _, pending := r.classes[key]; !pending {
		r.classOrder = append(r.classOrder, key)
	}
	r.classes[key] = class
	return true
}

// Get returns the instance registered under key. The boolean is false when
// no instance exists yet; that is an ordinary outcome, not a fault.
func (r *Registry) Get(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instance, ok := r.instances[key]
	return instance, ok
}

// Has reports whether an instance is registered under key.
func (r *Registry) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// All returns a copy of the key to instance mapping.
func (r *Registry) All() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]any, len(r.instances))
	for k, v := range r.instances {
		out[k] = v
	}
	return out
}

// Keys returns the registered keys in first-registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}

// Classes returns the classes still awaiting construction, in registration order.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Class, 0, len(r.classes))
	for _, key := range r.classOrder {
		if c, ok := r.classes[key]; ok {
			out = append(out, c)
		}
	}
	return out
}

// AddController appends a constructed controller.
func (r *Registry) AddController(instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers = append(r.controllers, instance)
}

// Controllers returns a copy of the controller list in construction order.
func (r *Registry) Controllers() []any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]any, len(r.controllers))
	copy(out, r.controllers)
	return out
}

// AddControllerClass queues a controller class for construction.
func (r *Registry) AddControllerClass(class *Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllerClasses = append(r.controllerClasses, class)
}

// ControllerClasses returns the queued controller classes.
func (r *Registry) ControllerClasses() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Class, len(r.controllerClasses))
	copy(out, r.controllerClasses)
	return out
}

// takeServiceClasses removes and returns every pending service class in
// registration order.
func (r *Registry) takeServiceClasses() []*Class {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Class
	for _, key := range r.classOrder {
		if c, ok := r.classes[key]; ok {
			out = append(out, c)
		}
	}
	r.classes = make(map[string]*Class)
	r.classOrder = nil
	return out
}

// takeControllerClasses removes and returns the queued controller classes.
func (r *Registry) takeControllerClasses() []*Class {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.controllerClasses
	r.controllerClasses = nil
	return out
}

// Clear empties every map and list. It is idempotent.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.instances = make(map[string]any)
	r.order = nil
	r.classes = make(map[string]*Class)
	r.classOrder = nil
	r.controllers = nil
	r.controllerClasses = nil
}
