// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

// Package fault classifies failures of remote invocations into a small
// set of typed outcomes. A remote rejection keeps the symbolic fault
// name of the original bus error, a decode failure keeps the underlying
// store error, and everything else (daemon unreachable, socket closed)
// is passed through untouched since there is nothing to classify.
package fault

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Fault names returned by the bus or the daemon. UnknownMethod is what
// the bus answers when a call is routed to a path where no object
// lives, no matter whether the member was a method or a property
// accessor.
const (
	UnknownMethod    = "org.freedesktop.DBus.Error.UnknownMethod"
	UnknownInterface = "org.freedesktop.DBus.Error.UnknownInterface"
	AccessDenied     = "org.freedesktop.DBus.Error.AccessDenied"
	InvalidArgs      = "org.freedesktop.DBus.Error.InvalidArgs"
)

// Rejection is an active protocol-level rejection by the remote side.
// The original bus error is kept as the cause so callers can branch on
// the symbolic fault name instead of message text.
type Rejection struct {
	Interface string
	Member    string
	Cause     dbus.Error
}

func (e *Rejection) Error() string {
	return fmt.Sprintf("call %s.%s rejected by remote: %s", e.Interface, e.Member, e.Cause.Name)
}

func (e *Rejection) Unwrap() error {
	return e.Cause
}

// Name returns the symbolic name of the underlying fault, e.g.
// "org.freedesktop.DBus.Error.UnknownMethod".
func (e *Rejection) Name() string {
	return e.Cause.Name
}

// Decode means the reply arrived but could not be stored per the
// declared signature. This is a contract mismatch between the client's
// descriptor table and the daemon, not a remote rejection.
type Decode struct {
	Interface string
	Member    string
	Cause     error
}

func (e *Decode) Error() string {
	return fmt.Sprintf("call %s.%s: cannot decode reply: %v", e.Interface, e.Member, e.Cause)
}

func (e *Decode) Unwrap() error {
	return e.Cause
}

// BadMember means the caller asked for a member the descriptor table
// does not declare, or passed the wrong number of arguments. It is
// raised before any bus traffic.
type BadMember struct {
	Interface string
	Member    string
	Reason    string
}

func (e *BadMember) Error() string {
	return fmt.Sprintf("call %s.%s: %s", e.Interface, e.Member, e.Reason)
}

// Classify wraps a transport error into a Rejection when it is a bus
// level fault. Any other error is returned as is, it means the bus or
// the daemon is unreachable and no protocol-level statement can be made
// about the call.
func Classify(iface, member string, err error) error {
	if err == nil {
		return nil
	}

	var derr dbus.Error
	if errors.As(err, &derr) {
		return &Rejection{Interface: iface, Member: member, Cause: derr}
	}

	var perr *dbus.Error
	if errors.As(err, &perr) {
		return &Rejection{Interface: iface, Member: member, Cause: *perr}
	}

	return err
}

// IsRejection reports whether err is a remote rejection carrying the
// given fault name.
func IsRejection(err error, name string) bool {
	var rej *Rejection
	return errors.As(err, &rej) && rej.Name() == name
}
