package classdb

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/starbind"
	"github.com/wippyai/starbind/errors"
	"github.com/wippyai/starbind/objectdb"
	"github.com/wippyai/starbind/variant"
)

// dropMethod is the objectdb.Dropper hook; it is never exposed as a method.
const dropMethod = "Drop"

// ClassDef describes a class to register.
type ClassDef struct {
	// Prototype is a typed nil pointer to a struct, e.g. (*Node)(nil).
	// Its exported methods and `prop` tagged fields are reflected.
	Prototype any
	// New constructs the Go value for a new instance. When nil and a
	// Prototype is set, a zero value of the prototype's struct is used.
	New func(ctx context.Context) (any, error)
	// Hidden lists Go method names of the prototype that are not reflected.
	Hidden     []string
	Name       string
	Parent     string
	Constants  []starbind.Constant
	Virtuals   []string
	Methods    []*Method
	Properties []*Property
	Abstract   bool
}

type class struct {
	typ        reflect.Type
	newFn      func(ctx context.Context) (any, error)
	methodMap  map[string]*Method
	propMap    map[string]*Property
	constMap   map[string]int64
	name       string
	parent     string
	methods    []*Method
	properties []*Property
	constants  []starbind.Constant
	virtuals   []string
	abstract   bool
}

// DB is the class and object database.
type DB struct {
	classes    map[string]*class
	byType     map[reflect.Type]string
	instances  map[objectdb.ID]*Instance
	singletons map[string]*Instance
	objects    *objectdb.Table
	order      []string
	globals    []starbind.Constant
	mu         sync.RWMutex
}

var (
	_ starbind.Registry = (*DB)(nil)
	_ starbind.Globals  = (*DB)(nil)
)

// New creates an empty database.
func New() *DB {
	db := &DB{
		classes:    make(map[string]*class),
		byType:     make(map[reflect.Type]string),
		instances:  make(map[objectdb.ID]*Instance),
		singletons: make(map[string]*Instance),
		objects:    objectdb.NewTable(),
	}
	db.objects.Subscribe(db)
	return db
}

// Objects returns the underlying object table.
func (db *DB) Objects() *objectdb.Table {
	return db.objects
}

// Register adds a class. The parent must already be registered.
func (db *DB) Register(def ClassDef) error {
	if def.Name == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "class name cannot be empty")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.classes[def.Name]; ok {
		return errors.Duplicate(errors.PhaseRegistry, def.Name, "")
	}
	if def.Parent != "" {
		if _, ok := db.classes[def.Parent]; !ok {
			return errors.New(errors.PhaseRegistry, errors.KindNotFound).
				Class(def.Name).
				Detail("parent class %q not registered", def.Parent).
				Build()
		}
	}

	c := &class{
		name:      def.Name,
		parent:    def.Parent,
		newFn:     def.New,
		abstract:  def.Abstract,
		virtuals:  append([]string(nil), def.Virtuals...),
		methodMap: make(map[string]*Method),
		propMap:   make(map[string]*Property),
		constMap:  make(map[string]int64),
	}

	if def.Prototype != nil {
		t := reflect.TypeOf(def.Prototype)
		if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
			return errors.New(errors.PhaseRegistry, errors.KindTypeMismatch).
				Class(def.Name).
				Detail("prototype must be a pointer to a struct, got %s", t).
				Build()
		}
		c.typ = t
	}

	for _, k := range def.Constants {
		if err := db.claim(c, k.Name); err != nil {
			return err
		}
		c.constants = append(c.constants, k)
		c.constMap[k.Name] = k.Value
	}

	if c.typ != nil {
		for i := 0; i < c.typ.NumMethod(); i++ {
			m := c.typ.Method(i)
			if !m.IsExported() || m.Name == dropMethod || slices.Contains(def.Hidden, m.Name) {
				continue
			}
			name := toSnakeCase(m.Name)
			if db.inheritedMember(c.parent, name) || hasExplicitMethod(def.Methods, name) {
				continue
			}
			bind, ok := reflectMethod(name, m.Name, m.Type)
			if !ok {
				Logger().Debug("skipping method with unsupported signature",
					zap.String("class", def.Name),
					zap.String("method", m.Name))
				continue
			}
			if err := db.addMethod(c, bind); err != nil {
				return err
			}
		}
	}
	for _, m := range def.Methods {
		if err := db.addMethod(c, m); err != nil {
			return err
		}
	}

	if c.typ != nil {
		for _, f := range reflect.VisibleFields(c.typ.Elem()) {
			tag, ok := f.Tag.Lookup("prop")
			if !ok || !f.IsExported() {
				continue
			}
			p, ok := reflectProperty(f, tag)
			if !ok {
				Logger().Debug("skipping property with unsupported type",
					zap.String("class", def.Name),
					zap.String("field", f.Name))
				continue
			}
			if db.inheritedMember(c.parent, p.name) {
				continue
			}
			if err := db.addProperty(c, p); err != nil {
				return err
			}
		}
	}
	for _, p := range def.Properties {
		if err := db.addProperty(c, p); err != nil {
			return err
		}
	}

	db.classes[c.name] = c
	db.order = append(db.order, c.name)
	if c.typ != nil {
		if _, taken := db.byType[c.typ]; !taken {
			db.byType[c.typ] = c.name
		}
	}

	Logger().Debug("class registered",
		zap.String("class", c.name),
		zap.String("parent", c.parent),
		zap.Int("methods", len(c.methods)),
		zap.Int("properties", len(c.properties)),
		zap.Int("constants", len(c.constants)))
	return nil
}

func hasExplicitMethod(methods []*Method, name string) bool {
	for _, m := range methods {
		if m.name == name {
			return true
		}
	}
	return false
}

// claim reserves a member name on c. Caller holds db.mu.
func (db *DB) claim(c *class, name string) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "member name cannot be empty")
	}
	_, isMethod := c.methodMap[name]
	_, isProp := c.propMap[name]
	_, isConst := c.constMap[name]
	if isMethod || isProp || isConst {
		return errors.Duplicate(errors.PhaseRegistry, c.name, name)
	}
	return nil
}

func (db *DB) addMethod(c *class, m *Method) error {
	if m == nil || m.fn == nil {
		return errors.InvalidInput(errors.PhaseRegistry, fmt.Sprintf("%s: method has no implementation", c.name))
	}
	if err := db.claim(c, m.name); err != nil {
		return err
	}
	m.class = c.name
	c.methods = append(c.methods, m)
	c.methodMap[m.name] = m
	return nil
}

func (db *DB) addProperty(c *class, p *Property) error {
	if p == nil {
		return errors.InvalidInput(errors.PhaseRegistry, fmt.Sprintf("%s: nil property", c.name))
	}
	if err := db.claim(c, p.name); err != nil {
		return err
	}
	p.class = c.name
	c.properties = append(c.properties, p)
	c.propMap[p.name] = p
	return nil
}

// inheritedMember reports whether any class from parent upwards declares name.
// Caller holds db.mu.
func (db *DB) inheritedMember(parent, name string) bool {
	for c := db.classes[parent]; c != nil; c = db.classes[c.parent] {
		if _, ok := c.methodMap[name]; ok {
			return true
		}
		if _, ok := c.propMap[name]; ok {
			return true
		}
	}
	return false
}

// ClassExists reports whether class is registered.
func (db *DB) ClassExists(name string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.classes[name]
	return ok
}

// ClassList returns every class in registration order, so parents precede children.
func (db *DB) ClassList() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return slices.Clone(db.order)
}

func (db *DB) ParentClass(name string) string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if c, ok := db.classes[name]; ok {
		return c.parent
	}
	return ""
}

// Inherits reports whether class is base or derives from it.
func (db *DB) Inherits(class, base string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for c := db.classes[class]; c != nil; c = db.classes[c.parent] {
		if c.name == base {
			return true
		}
	}
	return false
}

// chain returns class followed by its ancestors, or just class when
// includeInherited is false. Caller holds db.mu.
func (db *DB) chain(name string, includeInherited bool) []*class {
	var out []*class
	for c := db.classes[name]; c != nil; c = db.classes[c.parent] {
		out = append(out, c)
		if !includeInherited {
			break
		}
	}
	return out
}

func (db *DB) PropertyList(name string, includeInherited bool) []starbind.PropertyInfo {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var out []starbind.PropertyInfo
	for _, c := range db.chain(name, includeInherited) {
		for _, p := range c.properties {
			out = append(out, p.Info())
		}
	}
	return out
}

// MethodList lists method binds followed by virtual method names.
// Virtual methods have no bind; Method returns nil for them.
func (db *DB) MethodList(name string, includeInherited bool) []starbind.MethodInfo {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var out []starbind.MethodInfo
	for _, c := range db.chain(name, includeInherited) {
		for _, m := range c.methods {
			out = append(out, m.Info())
		}
		for _, v := range c.virtuals {
			out = append(out, starbind.MethodInfo{Name: v})
		}
	}
	return out
}

func (db *DB) IntegerConstantList(name string, includeInherited bool) []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var out []string
	for _, c := range db.chain(name, includeInherited) {
		for _, k := range c.constants {
			out = append(out, k.Name)
		}
	}
	return out
}

func (db *DB) IntegerConstant(name, constant string) (int64, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, c := range db.chain(name, true) {
		if v, ok := c.constMap[constant]; ok {
			return v, true
		}
	}
	return 0, false
}

// Method returns the bind for name on class or its ancestors.
// Private names never resolve.
func (db *DB) Method(name, method string) starbind.MethodBind {
	if isPrivate(method) {
		return nil
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, c := range db.chain(name, true) {
		if m, ok := c.methodMap[method]; ok {
			return m
		}
	}
	return nil
}

func (db *DB) property(name, prop string) *Property {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, c := range db.chain(name, true) {
		if p, ok := c.propMap[prop]; ok {
			return p
		}
	}
	return nil
}

// Instantiate creates a new instance of class.
func (db *DB) Instantiate(ctx context.Context, name string) (variant.HostObject, error) {
	inst, err := db.New(ctx, name)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// New creates a new instance of class and returns it with its concrete type.
func (db *DB) New(ctx context.Context, name string) (*Instance, error) {
	db.mu.RLock()
	c, ok := db.classes[name]
	db.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound(errors.PhaseConstruct, "class", name)
	}
	if c.abstract {
		return nil, errors.Instantiation(name, fmt.Errorf("class %s is abstract", name))
	}

	var value any
	switch {
	case c.newFn != nil:
		v, err := c.newFn(ctx)
		if err != nil {
			return nil, errors.Instantiation(name, err)
		}
		value = v
	case c.typ != nil:
		value = reflect.New(c.typ.Elem()).Interface()
	default:
		return nil, errors.Instantiation(name, fmt.Errorf("class %s has no constructor", name))
	}

	return db.adopt(name, value)
}

// Wrap returns the instance for a Go value, registering it under the
// class of its dynamic type on first sight.
func (db *DB) Wrap(value any) (*Instance, error) {
	return db.wrap(value)
}

func (db *DB) wrap(value any) (*Instance, error) {
	if id, ok := db.objects.Lookup(value); ok {
		db.mu.RLock()
		inst := db.instances[id]
		db.mu.RUnlock()
		if inst != nil {
			return inst, nil
		}
	}

	db.mu.RLock()
	name, ok := db.byType[reflect.TypeOf(value)]
	db.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.PhaseMarshal, errors.KindNotFound).
			Value(value).
			Detail("no class registered for Go type %T", value).
			Build()
	}
	return db.adopt(name, value)
}

func (db *DB) adopt(name string, value any) (*Instance, error) {
	id, err := db.objects.Insert(name, value)
	if err != nil {
		return nil, errors.Instantiation(name, err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if inst, ok := db.instances[id]; ok {
		return inst, nil
	}
	inst := &Instance{
		db:    db,
		class: name,
		value: value,
		rv:    reflect.ValueOf(value),
	}
	inst.id.Store(uint64(id))
	db.instances[id] = inst
	return inst, nil
}

// Instance returns the live instance with the given ID.
func (db *DB) Instance(id uint64) (*Instance, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	inst, ok := db.instances[objectdb.ID(id)]
	return inst, ok
}

// Free destroys a host object. Freeing an object twice is an error.
func (db *DB) Free(obj variant.HostObject) error {
	inst, ok := obj.(*Instance)
	if !ok || inst == nil || inst.db != db {
		return errors.InvalidInput(errors.PhaseCall, "object does not belong to this database")
	}
	if _, ok := db.objects.Remove(inst.objectID()); !ok {
		return errors.New(errors.PhaseCall, errors.KindInvalidInput).
			Class(inst.class).
			Detail("object already freed").
			Build()
	}
	return nil
}

// OnObjectEvent invalidates instances freed through the object table.
func (db *DB) OnObjectEvent(e objectdb.Event) {
	if e.Type != objectdb.EventFreed {
		return
	}
	db.mu.Lock()
	inst := db.instances[e.ID]
	delete(db.instances, e.ID)
	for name, s := range db.singletons {
		if s == inst {
			delete(db.singletons, name)
		}
	}
	db.mu.Unlock()

	if inst != nil {
		inst.id.Store(0)
	}
}

// GetProperty reads name from obj. The boolean is false when the
// property is not declared on the object's class.
func (db *DB) GetProperty(ctx context.Context, obj variant.HostObject, name string) (variant.Variant, bool) {
	inst, ok := obj.(*Instance)
	if !ok || inst.InstanceID() == 0 {
		return variant.NewNil(), false
	}
	p := db.property(inst.class, name)
	if p == nil {
		return variant.NewNil(), false
	}
	if p.get == nil {
		return variant.NewNil(), true
	}
	v, err := p.get(ctx, inst)
	if err != nil {
		Logger().Warn("property getter failed",
			zap.String("class", inst.class),
			zap.String("property", name),
			zap.Error(err))
		return variant.NewNil(), true
	}
	return v, true
}

// SetProperty writes name on obj. found is false when the property is not
// declared; valid is false when the value was rejected.
func (db *DB) SetProperty(ctx context.Context, obj variant.HostObject, name string, value variant.Variant) (found, valid bool) {
	inst, ok := obj.(*Instance)
	if !ok || inst.InstanceID() == 0 {
		return false, false
	}
	p := db.property(inst.class, name)
	if p == nil {
		return false, false
	}
	if p.set == nil || !accepts(p.typ, value) {
		return true, false
	}
	if err := p.set(ctx, inst, value); err != nil {
		Logger().Debug("property value rejected",
			zap.String("class", inst.class),
			zap.String("property", name),
			zap.Error(err))
		return true, false
	}
	return true, true
}

// AddGlobalConstant registers a global integer constant.
func (db *DB) AddGlobalConstant(name string, value int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, k := range db.globals {
		if k.Name == name {
			return errors.Duplicate(errors.PhaseRegistry, "", name)
		}
	}
	db.globals = append(db.globals, starbind.Constant{Name: name, Value: value})
	return nil
}

func (db *DB) GlobalConstants() []starbind.Constant {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return slices.Clone(db.globals)
}

// AddSingleton instantiates class and publishes the instance under name.
func (db *DB) AddSingleton(ctx context.Context, name, class string) (*Instance, error) {
	db.mu.RLock()
	_, exists := db.singletons[name]
	db.mu.RUnlock()
	if exists {
		return nil, errors.Duplicate(errors.PhaseRegistry, class, name)
	}

	inst, err := db.New(ctx, class)
	if err != nil {
		return nil, err
	}

	db.mu.Lock()
	db.singletons[name] = inst
	db.mu.Unlock()
	return inst, nil
}

// PublishSingleton publishes an existing Go value under name. The value's
// type must belong to a registered class.
func (db *DB) PublishSingleton(name string, value any) (*Instance, error) {
	db.mu.RLock()
	_, exists := db.singletons[name]
	db.mu.RUnlock()
	if exists {
		return nil, errors.Duplicate(errors.PhaseRegistry, "", name)
	}

	inst, err := db.wrap(value)
	if err != nil {
		return nil, err
	}

	db.mu.Lock()
	db.singletons[name] = inst
	db.mu.Unlock()
	return inst, nil
}

// Singletons returns the singleton names in sorted order.
func (db *DB) Singletons() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	names := make([]string, 0, len(db.singletons))
	for name := range db.singletons {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (db *DB) Singleton(name string) variant.HostObject {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if inst, ok := db.singletons[name]; ok {
		return inst
	}
	return nil
}

// Close frees every live object. It is safe to call more than once.
func (db *DB) Close() error {
	return db.objects.Close()
}
