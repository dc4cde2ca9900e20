package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest_Deterministic(t *testing.T) {
	h, err := New("sha1", "prefix_", "_suffix")
	require.NoError(t, err)

	first, err := h.Digest("secret")
	require.NoError(t, err)
	second, err := h.Digest("secret")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 40) // sha1 hex
}

func TestDigest_KnownValue(t *testing.T) {
	// sha1("simple_auth_secretpass_secret"), the stock salt configuration
	h, err := New("sha1", "simple_auth_secret", "_secret")
	require.NoError(t, err)

	got, err := h.Digest("pass")
	require.NoError(t, err)
	assert.Equal(t, "3e80f57f391af55b2e8ac3b069f1dd41759856bc", got)
}

func TestDigest_Algorithms(t *testing.T) {
	lengths := map[string]int{
		"md5":    32,
		"sha1":   40,
		"sha256": 64,
		"sha512": 128,
	}

	for method, wantLen := range lengths {
		h, err := New(method, "a", "b")
		require.NoError(t, err, method)

		got, err := h.Digest("secret")
		require.NoError(t, err, method)
		assert.Len(t, got, wantLen, method)
	}
}

func TestDigest_UnhashedFallback(t *testing.T) {
	h, err := New("", "pre_", "_post")
	require.NoError(t, err)

	got, err := h.Digest("secret")
	require.NoError(t, err)
	assert.Equal(t, "pre_secret_post", got)
}

func TestNew_UnknownMethod(t *testing.T) {
	_, err := New("rot13", "", "")
	require.Error(t, err)
}

func TestVerify_RoundTrip(t *testing.T) {
	for _, method := range []string{"", "md5", "sha1", "sha256", "sha512"} {
		h, err := New(method, "p", "s")
		require.NoError(t, err, method)

		digest, err := h.Digest("secret")
		require.NoError(t, err, method)

		assert.True(t, h.Verify("secret", digest), method)
		assert.False(t, h.Verify("wrong", digest), method)
	}
}

func TestSaltedHasher_Deterministic(t *testing.T) {
	h, err := New("sha1", "", "")
	require.NoError(t, err)
	assert.True(t, h.Deterministic())
}

func TestBcrypt_RoundTrip(t *testing.T) {
	h := NewBcrypt(4) // minimal cost to keep the test fast

	digest, err := h.Digest("secret")
	require.NoError(t, err)

	assert.True(t, h.Verify("secret", digest))
	assert.False(t, h.Verify("wrong", digest))
	assert.False(t, h.Deterministic())
}

func TestBcrypt_DigestsDiffer(t *testing.T) {
	h := NewBcrypt(4)

	first, err := h.Digest("secret")
	require.NoError(t, err)
	second, err := h.Digest("secret")
	require.NoError(t, err)

	// bcrypt digests carry their own salt
	assert.NotEqual(t, first, second)
}
