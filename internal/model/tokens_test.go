package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("POST")
	require.NoError(t, err)
	assert.Equal(t, MethodPost, m)

	for _, bad := range []string{"post", "FETCH", "", "GET "} {
		_, err := ParseMethod(bad)
		assert.ErrorIs(t, err, ErrInvalidMethod, "token %q", bad)
	}
}

func TestMethodHasBody(t *testing.T) {
	assert.True(t, MethodPost.HasBody())
	assert.True(t, MethodPut.HasBody())
	assert.True(t, MethodPatch.HasBody())
	assert.False(t, MethodGet.HasBody())
	assert.False(t, MethodHead.HasBody())
	assert.False(t, MethodDelete.HasBody())
}

func TestParseVersion(t *testing.T) {
	for token, want := range map[string]Version{
		"HTTP/0.9": VersionHTTP09,
		"HTTP/1.0": VersionHTTP10,
		"HTTP/1.1": VersionHTTP11,
	} {
		v, err := ParseVersion(token)
		require.NoError(t, err)
		assert.Equal(t, want, v)
		assert.Equal(t, token, v.String())
	}

	for _, bad := range []string{"HTTP/2.0", "http/1.1", "HTTP/1", ""} {
		_, err := ParseVersion(bad)
		assert.ErrorIs(t, err, ErrInvalidVersion, "token %q", bad)
	}
}

func TestVersionOrdering(t *testing.T) {
	assert.True(t, VersionHTTP09 < VersionHTTP10)
	assert.True(t, VersionHTTP10 < VersionHTTP11)
	assert.True(t, VersionHTTP11 >= VersionHTTP11)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("200")
	require.NoError(t, err)
	assert.Equal(t, StatusOK, s)
	assert.Equal(t, "OK", s.Reason())

	s, err = ParseStatus("418")
	require.NoError(t, err)
	assert.Equal(t, Status(418), s)
	assert.Equal(t, "", s.Reason())

	for _, bad := range []string{"", "20", "2000", "abc", "099", "600"} {
		_, err := ParseStatus(bad)
		assert.ErrorIs(t, err, ErrInvalidStatus, "token %q", bad)
	}
}
