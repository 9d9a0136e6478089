package passwords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(algorithm string) Config {
	cfg := DefaultConfig()
	cfg.Algorithm = algorithm
	cfg.BcryptCost = bcrypt.MinCost
	cfg.Argon2Memory = 8 * 1024
	return cfg
}

func TestHasher_HashAndVerify(t *testing.T) {
	for _, alg := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
		t.Run(alg, func(t *testing.T) {
			h, err := New(testConfig(alg))
			require.NoError(t, err)

			hash, err := h.Hash("pw123")
			require.NoError(t, err)
			assert.NotEqual(t, "pw123", hash)

			assert.True(t, h.Verify("pw123", hash))
			assert.False(t, h.Verify("pw1234", hash))
			assert.False(t, h.Verify("", hash))
		})
	}
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	h, err := New(testConfig(AlgorithmArgon2id))
	require.NoError(t, err)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "$argon2id$v=19$"))
}

func TestHasher_LongInputTruncatedForBcrypt(t *testing.T) {
	h, err := New(testConfig(AlgorithmBcrypt))
	require.NoError(t, err)

	long := strings.Repeat("a", 100)
	hash, err := h.Hash(long)
	require.NoError(t, err)

	assert.True(t, h.Verify(long, hash))
	// Only the first 72 bytes are significant.
	assert.True(t, h.Verify(strings.Repeat("a", 72)+"different tail", hash))
	assert.False(t, h.Verify(strings.Repeat("a", 71), hash))
}

func TestHasher_VerifiesAcrossAlgorithms(t *testing.T) {
	bc, err := New(testConfig(AlgorithmBcrypt))
	require.NoError(t, err)
	ar, err := New(testConfig(AlgorithmArgon2id))
	require.NoError(t, err)

	bcHash, err := bc.Hash("secret")
	require.NoError(t, err)
	arHash, err := ar.Hash("secret")
	require.NoError(t, err)

	assert.True(t, ar.Verify("secret", bcHash))
	assert.True(t, bc.Verify("secret", arHash))
}

func TestHasher_MalformedHash(t *testing.T) {
	h, err := New(testConfig(AlgorithmBcrypt))
	require.NoError(t, err)

	for _, hash := range []string{"", "plain", "$argon2id$v=19$broken", "$argon2id$v=18$m=1,t=1,p=1$AAAA$AAAA"} {
		assert.False(t, h.Verify("secret", hash), hash)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown algorithm", Config{Algorithm: "md5"}},
		{"bcrypt cost too low", Config{Algorithm: AlgorithmBcrypt, BcryptCost: 1}},
		{"bcrypt cost too high", Config{Algorithm: AlgorithmBcrypt, BcryptCost: 40}},
		{"argon2 zero params", Config{Algorithm: AlgorithmArgon2id}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, h)
		})
	}
}
