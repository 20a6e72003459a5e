// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

// Package invoke performs synchronous remote invocations through a
// proxy. A call is one request-response round trip, there are no
// retries and no internal timeouts. Failures come back classified, see
// the fault package.
//
// Property access is not special cased on the wire: a get or set is a
// method call on org.freedesktop.DBus.Properties. A call against a path
// where no object lives therefore always surfaces as the same
// unknown-method rejection, for methods and properties alike.
package invoke

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"

	"github.com/asch/stordctl/internal/client/fault"
	"github.com/asch/stordctl/internal/client/iface"
	"github.com/asch/stordctl/internal/client/objproxy"
)

// Call invokes member as declared by desc on the object behind proxy.
// args are the input arguments in declared order, rets are pointers
// receiving the declared return values in order. Arity is checked
// against the descriptor before any bus traffic.
func Call(proxy objproxy.Proxy, desc iface.Interface, member string, args []interface{}, rets ...interface{}) error {
	m, ok := desc.Methods[member]
	if !ok {
		return &fault.BadMember{Interface: desc.Name, Member: member, Reason: "not declared by the interface descriptor"}
	}

	if len(args) != len(m.In) {
		return &fault.BadMember{
			Interface: desc.Name,
			Member:    member,
			Reason:    fmt.Sprintf("got %d arguments, declared signature takes %d", len(args), len(m.In)),
		}
	}

	if len(rets) != len(m.Out) {
		return &fault.BadMember{
			Interface: desc.Name,
			Member:    member,
			Reason:    fmt.Sprintf("got %d return slots, declared signature yields %d", len(rets), len(m.Out)),
		}
	}

	log.Debug().
		Str("path", string(proxy.Path())).
		Str("interface", desc.Name).
		Str("member", member).
		Msg("invoking")

	call := proxy.Object().Call(desc.Name+"."+member, 0, args...)
	if call.Err != nil {
		return fault.Classify(desc.Name, member, call.Err)
	}

	// Compare the reply against the declared signature before storing.
	// Store alone applies reflect conversions, which would let a wrong
	// but convertible type through silently.
	declared := outSignature(m)
	if got := dbus.SignatureOf(call.Body...).String(); got != declared {
		return &fault.Decode{
			Interface: desc.Name,
			Member:    member,
			Cause:     fmt.Errorf("reply has signature %q, declared is %q", got, declared),
		}
	}

	if err := call.Store(rets...); err != nil {
		return &fault.Decode{Interface: desc.Name, Member: member, Cause: err}
	}

	return nil
}

func outSignature(m iface.Method) string {
	sig := ""
	for _, arg := range m.Out {
		sig += arg.Sig
	}

	return sig
}

// GetProperty reads the property declared by desc into dst, which must
// be a pointer to a value of the declared type.
func GetProperty(proxy objproxy.Proxy, desc iface.Interface, name string, dst interface{}) error {
	prop, err := property(desc, name)
	if err != nil {
		return err
	}

	var value dbus.Variant
	if err := Call(proxy, iface.Properties, "Get", []interface{}{desc.Name, name}, &value); err != nil {
		return err
	}

	// The wire carries the value as a variant, so its actual signature
	// is only known here. A mismatch against the descriptor is a
	// contract problem, not something to paper over by conversion.
	if got := value.Signature().String(); got != prop.Sig {
		return &fault.Decode{
			Interface: desc.Name,
			Member:    name,
			Cause:     fmt.Errorf("property value has signature %q, declared is %q", got, prop.Sig),
		}
	}

	if err := dbus.Store([]interface{}{value.Value()}, dst); err != nil {
		return &fault.Decode{Interface: desc.Name, Member: name, Cause: err}
	}

	return nil
}

// SetProperty writes the property declared by desc. The daemon side
// answers a set on a nonexistent path exactly like a get, with the
// unknown-method fault.
func SetProperty(proxy objproxy.Proxy, desc iface.Interface, name string, value interface{}) error {
	if _, err := property(desc, name); err != nil {
		return err
	}

	return Call(proxy, iface.Properties, "Set", []interface{}{desc.Name, name, dbus.MakeVariant(value)})
}

func property(desc iface.Interface, name string) (iface.Property, error) {
	prop, ok := desc.Properties[name]
	if !ok {
		return iface.Property{}, &fault.BadMember{Interface: desc.Name, Member: name, Reason: "not declared as a property by the interface descriptor"}
	}

	return prop, nil
}
