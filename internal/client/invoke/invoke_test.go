// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

package invoke

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asch/stordctl/internal/client/fault"
	"github.com/asch/stordctl/internal/client/iface"
	"github.com/asch/stordctl/internal/client/objpath"
	"github.com/asch/stordctl/internal/client/objproxy"
	"github.com/asch/stordctl/internal/sim"
)

const (
	busName  = "org.storage.stord1"
	rootPath = "/org/storage/stord"
)

func newEndpoint(t *testing.T) (*sim.Bus, objproxy.ServiceIdentity) {
	t.Helper()

	root, err := objpath.Validate(rootPath)
	require.NoError(t, err)

	return sim.New(), objproxy.ServiceIdentity{Name: busName, Root: root}
}

func proxyFor(t *testing.T, bus *sim.Bus, identity objproxy.ServiceIdentity, path string) objproxy.Proxy {
	t.Helper()

	p, err := objpath.Validate(path)
	require.NoError(t, err)

	return objproxy.Resolve(bus, identity, p)
}

func TestCall_DecodesDeclaredSignature(t *testing.T) {
	bus, identity := newEndpoint(t)
	bus.Add(identity.Root).Method(iface.Manager.Name, "CreatePool",
		func(args []interface{}) ([]interface{}, *dbus.Error) {
			assert.Equal(t, "tank", args[0])
			return []interface{}{dbus.ObjectPath(rootPath + "/pool/0")}, nil
		})

	proxy := proxyFor(t, bus, identity, rootPath)

	var pool dbus.ObjectPath
	err := Call(proxy, iface.Manager, "CreatePool", []interface{}{"tank", []string{"/dev/vdb"}}, &pool)
	require.NoError(t, err)
	assert.Equal(t, dbus.ObjectPath(rootPath+"/pool/0"), pool)
}

func TestCall_MissingObjectIsRejected(t *testing.T) {
	bus, identity := newEndpoint(t)
	proxy := proxyFor(t, bus, identity, "/this/is/not/an/object/path")

	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	err := Call(proxy, iface.ObjectManager, "GetManagedObjects", nil, &objects)
	require.Error(t, err)

	var rej *fault.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, fault.UnknownMethod, rej.Name())

	var cause dbus.Error
	require.ErrorAs(t, err, &cause)
	assert.Equal(t, fault.UnknownMethod, cause.Name)
}

func TestCall_MissingObjectIsRejectedIdentically(t *testing.T) {
	bus, identity := newEndpoint(t)
	proxy := proxyFor(t, bus, identity, "/this/is/not/an/object/path")

	for i := 0; i < 3; i++ {
		var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
		err := Call(proxy, iface.ObjectManager, "GetManagedObjects", nil, &objects)

		var rej *fault.Rejection
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, fault.UnknownMethod, rej.Name())
	}
}

func TestGetProperty_MissingObjectIsRejected(t *testing.T) {
	bus, identity := newEndpoint(t)
	proxy := proxyFor(t, bus, identity, "/this/is/not/an/object/path")

	var version string
	err := GetProperty(proxy, iface.Manager, "Version", &version)

	var rej *fault.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, fault.UnknownMethod, rej.Name())
}

func TestSetProperty_MissingObjectIsRejected(t *testing.T) {
	bus, identity := newEndpoint(t)
	proxy := proxyFor(t, bus, identity, "/this/is/not/an/object/path")

	err := SetProperty(proxy, iface.Manager, "Version", "1.0.0")

	// Set goes through the same round trip as get, the daemon side
	// answers with the same fault family.
	var rej *fault.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, fault.UnknownMethod, rej.Name())
}

func TestCall_ReplyMismatchIsDecodeFailure(t *testing.T) {
	bus, identity := newEndpoint(t)
	bus.Add(identity.Root).Method(iface.ObjectManager.Name, "GetManagedObjects",
		func(args []interface{}) ([]interface{}, *dbus.Error) {
			return []interface{}{"not an object tree"}, nil
		})

	proxy := proxyFor(t, bus, identity, rootPath)

	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	err := Call(proxy, iface.ObjectManager, "GetManagedObjects", nil, &objects)
	require.Error(t, err)

	var dec *fault.Decode
	require.ErrorAs(t, err, &dec)
	require.Error(t, dec.Cause)

	var rej *fault.Rejection
	assert.False(t, errors.As(err, &rej))
}

func TestCall_ConvertibleReplyMismatchIsDecodeFailure(t *testing.T) {
	bus, identity := newEndpoint(t)
	bus.Add(identity.Root).Method(iface.Manager.Name, "CreatePool",
		func(args []interface{}) ([]interface{}, *dbus.Error) {
			// A plain string converts to an object path via reflect,
			// the signature check must still reject it.
			return []interface{}{"/org/storage/stord/pool/0"}, nil
		})

	proxy := proxyFor(t, bus, identity, rootPath)

	var pool dbus.ObjectPath
	err := Call(proxy, iface.Manager, "CreatePool", []interface{}{"tank", []string{"/dev/vdb"}}, &pool)
	require.Error(t, err)

	var dec *fault.Decode
	require.ErrorAs(t, err, &dec)

	var rej *fault.Rejection
	assert.False(t, errors.As(err, &rej))
}

func TestGetProperty_ValueMismatchIsDecodeFailure(t *testing.T) {
	bus, identity := newEndpoint(t)
	bus.Add(identity.Root).Property(iface.Manager.Name, "Version", uint32(4))

	proxy := proxyFor(t, bus, identity, rootPath)

	var version string
	err := GetProperty(proxy, iface.Manager, "Version", &version)

	var dec *fault.Decode
	require.ErrorAs(t, err, &dec)
}

func TestGetProperty_ReadsValue(t *testing.T) {
	bus, identity := newEndpoint(t)
	bus.Add(identity.Root).Property(iface.Manager.Name, "Version", "0.9.0")

	proxy := proxyFor(t, bus, identity, rootPath)

	var version string
	require.NoError(t, GetProperty(proxy, iface.Manager, "Version", &version))
	assert.Equal(t, "0.9.0", version)
}

func TestSetProperty_WritesValue(t *testing.T) {
	bus, identity := newEndpoint(t)
	bus.Add(identity.Root).Property(iface.Manager.Name, "Version", "0.9.0")

	proxy := proxyFor(t, bus, identity, rootPath)

	require.NoError(t, SetProperty(proxy, iface.Manager, "Version", "0.9.1"))

	var version string
	require.NoError(t, GetProperty(proxy, iface.Manager, "Version", &version))
	assert.Equal(t, "0.9.1", version)
}

func TestCall_UndeclaredMemberFailsLocally(t *testing.T) {
	bus, identity := newEndpoint(t)
	proxy := proxyFor(t, bus, identity, rootPath)

	err := Call(proxy, iface.Manager, "FormatEverything", nil)

	var bad *fault.BadMember
	require.ErrorAs(t, err, &bad)
	assert.EqualValues(t, 0, bus.Dispatches())
}

func TestCall_ArityMismatchFailsLocally(t *testing.T) {
	bus, identity := newEndpoint(t)
	proxy := proxyFor(t, bus, identity, rootPath)

	var pool dbus.ObjectPath
	err := Call(proxy, iface.Manager, "CreatePool", []interface{}{"tank"}, &pool)

	var bad *fault.BadMember
	require.ErrorAs(t, err, &bad)
	assert.EqualValues(t, 0, bus.Dispatches())
}

func TestGetProperty_UndeclaredPropertyFailsLocally(t *testing.T) {
	bus, identity := newEndpoint(t)
	proxy := proxyFor(t, bus, identity, rootPath)

	var value string
	err := GetProperty(proxy, iface.Manager, "Mood", &value)

	var bad *fault.BadMember
	require.ErrorAs(t, err, &bad)
	assert.EqualValues(t, 0, bus.Dispatches())
}
