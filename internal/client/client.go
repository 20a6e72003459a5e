// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

package client

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"

	"github.com/asch/stordctl/internal/client/iface"
	"github.com/asch/stordctl/internal/client/invoke"
	"github.com/asch/stordctl/internal/client/objpath"
	"github.com/asch/stordctl/internal/client/objproxy"
	"github.com/asch/stordctl/internal/config"
)

// ManagedObjects is the daemon's whole object tree as reported by
// GetManagedObjects: path -> interface -> property -> value.
type ManagedObjects = map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// Client binds the invocation pipeline to one daemon endpoint. It holds
// no mutable state and is safe for concurrent use.
type Client struct {
	bus      objproxy.Bus
	identity objproxy.ServiceIdentity
	closer   func() error
}

// New returns a client talking to the daemon named by identity over the
// provided bus.
func New(bus objproxy.Bus, identity objproxy.ServiceIdentity) *Client {
	return &Client{bus: bus, identity: identity}
}

// NewWithDefaults connects to the bus selected by the configuration and
// returns a client for the configured daemon endpoint.
func NewWithDefaults() (*Client, error) {
	root, err := objpath.Validate(config.Cfg.Service.Root)
	if err != nil {
		return nil, err
	}

	conn, err := dial()
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("bus", config.Cfg.Bus.Kind).
		Str("service", config.Cfg.Service.Name).
		Msg("connected")

	c := New(conn, objproxy.ServiceIdentity{Name: config.Cfg.Service.Name, Root: root})
	c.closer = conn.Close

	return c, nil
}

// Close releases the bus connection if the client owns one.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}

	return c.closer()
}

// Identity returns the daemon endpoint the client is bound to.
func (c *Client) Identity() objproxy.ServiceIdentity {
	return c.identity
}

// Proxy returns a handle for the object at the validated path. It never
// contacts the daemon.
func (c *Client) Proxy(path objpath.Path) objproxy.Proxy {
	return objproxy.Resolve(c.bus, c.identity, path)
}

// ProxyFor validates candidate and returns a handle for it. The only
// way this fails is a syntactically illegal path.
func (c *Client) ProxyFor(candidate string) (objproxy.Proxy, error) {
	path, err := objpath.Validate(candidate)
	if err != nil {
		return objproxy.Proxy{}, err
	}

	return c.Proxy(path), nil
}

// Version reads the daemon version from the Manager interface on the
// root object.
func (c *Client) Version() (string, error) {
	var version string
	err := invoke.GetProperty(c.root(), iface.Manager, "Version", &version)

	return version, err
}

// ManagedObjects fetches the daemon's whole object tree in one round
// trip.
func (c *Client) ManagedObjects() (ManagedObjects, error) {
	var objects ManagedObjects
	err := invoke.Call(c.root(), iface.ObjectManager, "GetManagedObjects", nil, &objects)

	return objects, err
}

// CreatePool asks the daemon to create a pool over the given devices
// and returns the path of the new pool object.
func (c *Client) CreatePool(name string, devices []string) (objpath.Path, error) {
	var pool dbus.ObjectPath
	err := invoke.Call(c.root(), iface.Manager, "CreatePool", []interface{}{name, devices}, &pool)
	if err != nil {
		return "", err
	}

	return objpath.Validate(string(pool))
}

// DestroyPool asks the daemon to destroy the pool at the given path.
// The returned flag tells whether the pool existed and was destroyed.
func (c *Client) DestroyPool(pool objpath.Path) (bool, error) {
	var destroyed bool
	err := invoke.Call(c.root(), iface.Manager, "DestroyPool", []interface{}{pool.DBus()}, &destroyed)

	return destroyed, err
}

func (c *Client) root() objproxy.Proxy {
	return c.Proxy(c.identity.Root)
}

// Dial the bus selected by the configuration. Connection errors are
// returned untouched, an unreachable bus is an environment problem and
// not a protocol fault.
func dial() (*dbus.Conn, error) {
	switch config.Cfg.Bus.Kind {
	case "system":
		return dbus.SystemBus()
	case "session":
		return dbus.SessionBus()
	case "address":
		return dbus.Connect(config.Cfg.Bus.Address)
	}

	return nil, fmt.Errorf("unknown bus kind %q", config.Cfg.Bus.Kind)
}
