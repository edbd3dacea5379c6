package e2ee

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	uid := NewMessageUID()
	assert.False(t, strings.Contains(uid, ":"))

	payload := FormatPayload(uid, "QUJD", "ZGVmZ2g=")
	assert.Equal(t, "FEID:"+uid+":QUJD:ZGVmZ2g=", payload)

	parsed, ok := ParsePayload(payload)
	require.True(t, ok)
	assert.Equal(t, uid, parsed.MessageUID)
	assert.Equal(t, "QUJD", parsed.EphemeralPublicKey)
	assert.Equal(t, "ZGVmZ2g=", parsed.Ciphertext)
}

func TestParsePayloadTrimsWhitespace(t *testing.T) {
	parsed, ok := ParsePayload("  FEID:id:key:data\n")
	require.True(t, ok)
	assert.Equal(t, "id", parsed.MessageUID)
	assert.Equal(t, "data", parsed.Ciphertext)
}

func TestParsePayloadMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"not-a-feid-string",
		"FEID:onlyonefield",
		"FEID:two:fields",
		"FEID::empty::",
		"FEID:uid::data",
		"FEID:uid:key:",
		"feid:uid:key:data",
	} {
		parsed, ok := ParsePayload(in)
		assert.False(t, ok, in)
		assert.Nil(t, parsed, in)
	}
}
