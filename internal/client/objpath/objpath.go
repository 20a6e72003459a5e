// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

// Package objpath validates and represents object paths in the stord
// daemon's bus namespace. A Path can only be obtained through Validate,
// so every Path in the program is guaranteed to be well formed.
package objpath

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Root is the top of the object namespace. It is the only path allowed
// to end with a slash.
const Root = Path("/")

// Path is a validated object path. The zero value is not valid, use
// Validate or Root.
type Path string

// Reasons for rejecting a candidate path. Kept as distinct values so
// callers and tests can check which rule was violated.
const (
	ReasonEmpty          = "path is empty"
	ReasonNoLeadingSlash = "path does not begin with a slash"
	ReasonEmptySegment   = "path contains an empty segment"
	ReasonTrailingSlash  = "path ends with a slash"
	ReasonBadCharacter   = "path contains a character outside [A-Za-z0-9_/]"
)

// InvalidError reports a candidate string which is not a legal object
// path together with the violated rule.
type InvalidError struct {
	Candidate string
	Reason    string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid object path %q: %s", e.Candidate, e.Reason)
}

// Validate checks the candidate against the object path grammar and
// returns it as a Path. The check is purely syntactic, no bus traffic
// happens here. The grammar is the D-Bus one: leading slash, slash
// separated segments of [A-Za-z0-9_]+, no empty segment and no trailing
// slash except for the root path itself.
func Validate(candidate string) (Path, error) {
	if candidate == "" {
		return "", &InvalidError{candidate, ReasonEmpty}
	}

	if candidate[0] != '/' {
		return "", &InvalidError{candidate, ReasonNoLeadingSlash}
	}

	if candidate == string(Root) {
		return Root, nil
	}

	if candidate[len(candidate)-1] == '/' {
		return "", &InvalidError{candidate, ReasonTrailingSlash}
	}

	segment := 0
	for i := 1; i < len(candidate); i++ {
		c := candidate[i]
		if c == '/' {
			if segment == 0 {
				return "", &InvalidError{candidate, ReasonEmptySegment}
			}
			segment = 0
			continue
		}
		if !segmentChar(c) {
			return "", &InvalidError{candidate, ReasonBadCharacter}
		}
		segment++
	}

	return Path(candidate), nil
}

// Append returns the path extended by exactly one more segment. The
// segment must be non-empty and consist of [A-Za-z0-9_] only, a slash
// in it is rejected rather than silently adding further segments.
func (p Path) Append(segment string) (Path, error) {
	if segment == "" {
		return "", &InvalidError{Candidate: segment, Reason: ReasonEmptySegment}
	}

	for i := 0; i < len(segment); i++ {
		if !segmentChar(segment[i]) {
			return "", &InvalidError{Candidate: segment, Reason: ReasonBadCharacter}
		}
	}

	child := string(p) + "/" + segment
	if p == Root {
		child = string(p) + segment
	}

	return Validate(child)
}

// DBus converts the path to the transport representation.
func (p Path) DBus() dbus.ObjectPath {
	return dbus.ObjectPath(p)
}

func (p Path) String() string {
	return string(p)
}

func segmentChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_':
		return true
	}

	return false
}
