// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

// Package sim is an in-process endpoint implementing the objproxy.Bus
// interface. It stands in for the bus daemon and the stord daemon
// during tests and is kept in the module to share code and
// configuration, the same way the null backend is.
//
// Objects are registered under their paths with per-interface method
// handlers and properties. A call routed to a path without a registered
// object is answered with the unknown-method fault, which is exactly
// what a real bus peer answers when a message is routed to nobody.
package sim

import (
	"context"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"

	"github.com/asch/stordctl/internal/client/fault"
	"github.com/asch/stordctl/internal/client/objpath"
)

const propertiesInterface = "org.freedesktop.DBus.Properties"

// MethodFunc handles one registered method. It receives the call
// arguments and returns the reply body, or a bus error to reject the
// call with.
type MethodFunc func(args []interface{}) ([]interface{}, *dbus.Error)

// Object is one simulated remote object: method handlers and
// properties, both keyed by interface name.
type Object struct {
	mutex   sync.Mutex
	methods map[string]map[string]MethodFunc
	props   map[string]map[string]interface{}
}

// Method registers a handler for member on the given interface,
// replacing any previous one.
func (o *Object) Method(iface, member string, fn MethodFunc) *Object {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.methods[iface] == nil {
		o.methods[iface] = make(map[string]MethodFunc)
	}
	o.methods[iface][member] = fn

	return o
}

// Property registers a property value on the given interface.
func (o *Object) Property(iface, name string, value interface{}) *Object {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.props[iface] == nil {
		o.props[iface] = make(map[string]interface{})
	}
	o.props[iface][name] = value

	return o
}

func (o *Object) method(iface, member string) MethodFunc {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	return o.methods[iface][member]
}

// Bus is the simulated endpoint. It satisfies objproxy.Bus.
type Bus struct {
	mutex      sync.Mutex
	objects    map[dbus.ObjectPath]*Object
	dispatches int64
}

// New returns an empty simulated bus without any objects.
func New() *Bus {
	return &Bus{objects: make(map[dbus.ObjectPath]*Object)}
}

// Add registers an object at path and returns it for further setup. If
// an object is already registered there, the existing one is returned.
func (b *Bus) Add(path objpath.Path) *Object {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if obj, ok := b.objects[path.DBus()]; ok {
		return obj
	}

	obj := &Object{
		methods: make(map[string]map[string]MethodFunc),
		props:   make(map[string]map[string]interface{}),
	}
	b.objects[path.DBus()] = obj

	return obj
}

// Remove destroys the object at path. Calls against the path fail with
// the unknown-method fault afterwards, as if the daemon had destroyed
// the object.
func (b *Bus) Remove(path objpath.Path) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	delete(b.objects, path.DBus())
}

// ExportObjectManager serves org.freedesktop.DBus.ObjectManager on the
// object at root, reporting a snapshot of all registered objects and
// their properties.
func (b *Bus) ExportObjectManager(root objpath.Path) {
	b.Add(root).Method("org.freedesktop.DBus.ObjectManager", "GetManagedObjects",
		func(args []interface{}) ([]interface{}, *dbus.Error) {
			return []interface{}{b.managedObjects()}, nil
		})
}

// Object returns a handle for the object at path. Like the real
// transport it succeeds for any path, existence is only checked when a
// call is dispatched.
func (b *Bus) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return busObject{bus: b, dest: dest, path: path}
}

// Dispatches returns how many calls have been routed so far. Used by
// tests to assert that resolution alone produces no traffic.
func (b *Bus) Dispatches() int64 {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.dispatches
}

func (b *Bus) lookup(path dbus.ObjectPath) *Object {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.dispatches++

	return b.objects[path]
}

func (b *Bus) managedObjects() map[dbus.ObjectPath]map[string]map[string]dbus.Variant {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	objects := make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant, len(b.objects))
	for path, obj := range b.objects {
		obj.mutex.Lock()
		ifaces := make(map[string]map[string]dbus.Variant, len(obj.props))
		for iface, props := range obj.props {
			values := make(map[string]dbus.Variant, len(props))
			for name, value := range props {
				values[name] = dbus.MakeVariant(value)
			}
			ifaces[iface] = values
		}
		obj.mutex.Unlock()
		objects[path] = ifaces
	}

	return objects
}

// busObject dispatches calls against the simulated bus. It implements
// dbus.BusObject so proxies work against the sim unchanged.
type busObject struct {
	bus  *Bus
	dest string
	path dbus.ObjectPath
}

func (o busObject) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	return o.dispatch(method, args)
}

func (o busObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	return o.dispatch(method, args)
}

func (o busObject) Go(method string, flags dbus.Flags, ch chan *dbus.Call, args ...interface{}) *dbus.Call {
	call := o.dispatch(method, args)
	if ch == nil {
		ch = make(chan *dbus.Call, 1)
	}
	call.Done = ch
	ch <- call

	return call
}

func (o busObject) GoWithContext(ctx context.Context, method string, flags dbus.Flags, ch chan *dbus.Call, args ...interface{}) *dbus.Call {
	return o.Go(method, flags, ch, args...)
}

func (o busObject) AddMatchSignal(iface, member string, options ...dbus.MatchOption) *dbus.Call {
	return &dbus.Call{Err: dbus.Error{Name: fault.UnknownMethod, Body: []interface{}{"signals are not simulated"}}}
}

func (o busObject) RemoveMatchSignal(iface, member string, options ...dbus.MatchOption) *dbus.Call {
	return &dbus.Call{Err: dbus.Error{Name: fault.UnknownMethod, Body: []interface{}{"signals are not simulated"}}}
}

func (o busObject) GetProperty(p string) (dbus.Variant, error) {
	iface, name := splitMember(p)

	var value dbus.Variant
	err := o.dispatch(propertiesInterface+".Get", []interface{}{iface, name}).Store(&value)

	return value, err
}

func (o busObject) StoreProperty(p string, value interface{}) error {
	variant, err := o.GetProperty(p)
	if err != nil {
		return err
	}

	return dbus.Store([]interface{}{variant.Value()}, value)
}

func (o busObject) SetProperty(p string, v interface{}) error {
	iface, name := splitMember(p)
	variant, ok := v.(dbus.Variant)
	if !ok {
		variant = dbus.MakeVariant(v)
	}

	return o.dispatch(propertiesInterface+".Set", []interface{}{iface, name, variant}).Err
}

func (o busObject) Destination() string {
	return o.dest
}

func (o busObject) Path() dbus.ObjectPath {
	return o.path
}

// Dispatch routes one call. Missing object and missing member are both
// answered with the unknown-method fault, mirroring the real bus and
// daemon behavior.
func (o busObject) dispatch(method string, args []interface{}) *dbus.Call {
	iface, member := splitMember(method)
	call := &dbus.Call{Destination: o.dest, Path: o.path, Method: method, Args: args}

	log.Debug().
		Int64("serial", next()).
		Str("path", string(o.path)).
		Str("method", method).
		Msg("sim dispatch")

	obj := o.bus.lookup(o.path)
	if obj == nil {
		call.Err = unknownMethod(method)
		return call
	}

	if iface == propertiesInterface {
		if handled, body, derr := o.properties(obj, member, args); handled {
			if derr != nil {
				call.Err = *derr
			} else {
				call.Body = body
			}
			return call
		}
	}

	fn := obj.method(iface, member)
	if fn == nil {
		call.Err = unknownMethod(method)
		return call
	}

	body, derr := fn(args)
	if derr != nil {
		call.Err = *derr
		return call
	}
	call.Body = body

	return call
}

// properties serves the standard property interface for registered
// objects. Registered handlers take precedence so tests can override.
func (o busObject) properties(obj *Object, member string, args []interface{}) (bool, []interface{}, *dbus.Error) {
	if obj.method(propertiesInterface, member) != nil {
		return false, nil, nil
	}

	obj.mutex.Lock()
	defer obj.mutex.Unlock()

	switch member {
	case "Get":
		iface, _ := args[0].(string)
		name, _ := args[1].(string)
		value, ok := obj.props[iface][name]
		if !ok {
			return true, nil, &dbus.Error{Name: fault.InvalidArgs, Body: []interface{}{"no such property: " + name}}
		}
		return true, []interface{}{dbus.MakeVariant(value)}, nil

	case "Set":
		iface, _ := args[0].(string)
		name, _ := args[1].(string)
		variant, _ := args[2].(dbus.Variant)
		if _, ok := obj.props[iface][name]; !ok {
			return true, nil, &dbus.Error{Name: fault.InvalidArgs, Body: []interface{}{"no such property: " + name}}
		}
		obj.props[iface][name] = variant.Value()
		return true, nil, nil

	case "GetAll":
		iface, _ := args[0].(string)
		values := make(map[string]dbus.Variant, len(obj.props[iface]))
		for name, value := range obj.props[iface] {
			values[name] = dbus.MakeVariant(value)
		}
		return true, []interface{}{values}, nil
	}

	return false, nil, nil
}

func unknownMethod(method string) dbus.Error {
	return dbus.Error{
		Name: fault.UnknownMethod,
		Body: []interface{}{"unknown method: " + method},
	}
}

func splitMember(full string) (string, string) {
	i := strings.LastIndex(full, ".")
	if i < 0 {
		return "", full
	}

	return full[:i], full[i+1:]
}
