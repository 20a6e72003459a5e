// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

// Package objproxy binds a service identity and a validated object path
// into a proxy, a cheap local handle for issuing invocations against
// the remote object. Resolution never talks to the bus: whether an
// object actually lives at the path is a dynamic fact owned by the
// daemon and is only discovered at invocation time.
package objproxy

import (
	"github.com/godbus/dbus/v5"

	"github.com/asch/stordctl/internal/client/objpath"
)

// Bus is the transport as seen by this package. Anything that can hand
// out bus objects can back a proxy, in particular *dbus.Conn and the
// sim package.
type Bus interface {
	// Object returns a handle for the object at path owned by the
	// named bus peer. Must not perform any remote existence check.
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// ServiceIdentity names the daemon endpoint: its well-known bus name
// and the root of its object namespace. It is supplied by the caller or
// configuration, never derived here.
type ServiceIdentity struct {
	// Well-known bus name the daemon owns, e.g. "org.storage.stord1".
	Name string

	// Root path prefix of the daemon's object tree.
	Root objpath.Path
}

// Proxy is a local handle for one remote object. It is an immutable
// value with no internal state, safe to copy, share and discard.
// Creating a proxy is free and says nothing about whether the remote
// object exists.
type Proxy struct {
	identity ServiceIdentity
	path     objpath.Path
	obj      dbus.BusObject
}

// Resolve binds identity and path into a proxy on the given bus. It
// always succeeds for a validated path.
func Resolve(bus Bus, identity ServiceIdentity, path objpath.Path) Proxy {
	return Proxy{
		identity: identity,
		path:     path,
		obj:      bus.Object(identity.Name, path.DBus()),
	}
}

// Identity returns the service identity the proxy is bound to.
func (p Proxy) Identity() ServiceIdentity {
	return p.identity
}

// Path returns the object path the proxy is bound to.
func (p Proxy) Path() objpath.Path {
	return p.path
}

// Object returns the transport handle used to issue calls.
func (p Proxy) Object() dbus.BusObject {
	return p.obj
}
