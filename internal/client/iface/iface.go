// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

// Package iface holds static descriptors of the remote interfaces the
// stord daemon exposes. A descriptor is a plain table of member names
// and signatures, the invoker only interprets it. Regenerate the tables
// by hand when the daemon's schema changes.
package iface

// Arg is one argument or return value of a remote member.
type Arg struct {
	Name string
	Sig  string
}

// Method describes a callable member: the ordered input arguments and
// the ordered return values.
type Method struct {
	In  []Arg
	Out []Arg
}

// Property describes a property member and its access mode.
type Property struct {
	Sig    string
	Access string
}

// Interface is the declared contract of one remote interface.
type Interface struct {
	Name       string
	Methods    map[string]Method
	Properties map[string]Property
}

const (
	ReadAccess      = "read"
	ReadWriteAccess = "readwrite"
)

// Manager is the daemon-level interface on the root object.
var Manager = Interface{
	Name: "org.storage.stord1.Manager.r0",
	Methods: map[string]Method{
		"CreatePool": {
			In: []Arg{
				{Name: "name", Sig: "s"},
				{Name: "devices", Sig: "as"},
			},
			Out: []Arg{
				{Name: "pool", Sig: "o"},
			},
		},
		"DestroyPool": {
			In: []Arg{
				{Name: "pool", Sig: "o"},
			},
			Out: []Arg{
				{Name: "destroyed", Sig: "b"},
			},
		},
	},
	Properties: map[string]Property{
		"Version": {Sig: "s", Access: ReadAccess},
	},
}

// ObjectManager is the standard interface for enumerating the daemon's
// whole object tree in one round trip.
var ObjectManager = Interface{
	Name: "org.freedesktop.DBus.ObjectManager",
	Methods: map[string]Method{
		"GetManagedObjects": {
			Out: []Arg{
				{Name: "objects", Sig: "a{oa{sa{sv}}}"},
			},
		},
	},
}

// Properties is the standard property access interface. The invoker
// routes property gets and sets through it so they share the method
// call fault path.
var Properties = Interface{
	Name: "org.freedesktop.DBus.Properties",
	Methods: map[string]Method{
		"Get": {
			In: []Arg{
				{Name: "interface", Sig: "s"},
				{Name: "property", Sig: "s"},
			},
			Out: []Arg{
				{Name: "value", Sig: "v"},
			},
		},
		"Set": {
			In: []Arg{
				{Name: "interface", Sig: "s"},
				{Name: "property", Sig: "s"},
				{Name: "value", Sig: "v"},
			},
		},
		"GetAll": {
			In: []Arg{
				{Name: "interface", Sig: "s"},
			},
			Out: []Arg{
				{Name: "properties", Sig: "a{sv}"},
			},
		},
	},
}
