// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

package objpath

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Illegal(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		reason    string
	}{
		{"empty", "", ReasonEmpty},
		{"no leading slash", "abc", ReasonNoLeadingSlash},
		{"relative", "org/storage/stord", ReasonNoLeadingSlash},
		{"empty segment", "/org//storage", ReasonEmptySegment},
		{"double slash at start", "//org", ReasonEmptySegment},
		{"trailing slash", "/org/storage/", ReasonTrailingSlash},
		{"dash", "/org/storage-daemon", ReasonBadCharacter},
		{"space", "/org/storage daemon", ReasonBadCharacter},
		{"dot", "/org.storage", ReasonBadCharacter},
		{"non-ascii", "/org/störage", ReasonBadCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.candidate)
			require.Error(t, err)

			var invalid *InvalidError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.candidate, invalid.Candidate)
			assert.Equal(t, tt.reason, invalid.Reason)
		})
	}
}

func TestValidate_Legal(t *testing.T) {
	tests := []string{
		"/",
		"/org",
		"/org/storage/stord",
		"/this/is/not/an/object/path",
		"/_private/0/Z",
		"/0123456789",
	}

	for _, candidate := range tests {
		t.Run(candidate, func(t *testing.T) {
			path, err := Validate(candidate)
			require.NoError(t, err)
			assert.Equal(t, candidate, path.String())
			assert.Equal(t, dbus.ObjectPath(candidate), path.DBus())
			assert.True(t, path.DBus().IsValid())
		})
	}
}

func TestAppend(t *testing.T) {
	root, err := Validate("/org/storage/stord")
	require.NoError(t, err)

	child, err := root.Append("pool")
	require.NoError(t, err)
	assert.Equal(t, Path("/org/storage/stord/pool"), child)

	fromRoot, err := Root.Append("org")
	require.NoError(t, err)
	assert.Equal(t, Path("/org"), fromRoot)
}

func TestAppend_IllegalSegment(t *testing.T) {
	tests := []struct {
		segment string
		reason  string
	}{
		{"", ReasonEmptySegment},
		{"a/b", ReasonBadCharacter},
		{"/a", ReasonBadCharacter},
		{"a-b", ReasonBadCharacter},
		{"a.b", ReasonBadCharacter},
	}

	for _, tt := range tests {
		_, err := Root.Append(tt.segment)

		var invalid *InvalidError
		require.ErrorAs(t, err, &invalid, "segment %q", tt.segment)
		assert.Equal(t, tt.reason, invalid.Reason, "segment %q", tt.segment)
	}

	// A nested base does not smuggle extra segments in either.
	base, err := Validate("/org")
	require.NoError(t, err)

	_, err = base.Append("a/b")
	var invalid *InvalidError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, ReasonBadCharacter, invalid.Reason)
}
