package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rsaJWK(kid string, pub *rsa.PublicKey) JSONWebKey {
	return JSONWebKey{
		Kid: kid,
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

func TestProviderCachesAndThrottles(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var fetches atomic.Int32
	var down atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		if down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(JWKS{Keys: []JSONWebKey{
			rsaJWK("kid-1", &key.PublicKey),
			{Kid: "enc", Kty: "RSA", Use: "enc", N: "AQAB", E: "AQAB"},
			{Kid: "ec", Kty: "EC"},
		}})
	}))
	defer srv.Close()

	now := time.Now()
	p := NewProvider(srv.URL)
	p.now = func() time.Time { return now }
	ctx := context.Background()

	pub, err := p.PublicKey(ctx, "kid-1")
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey.N, pub.N)
	assert.Equal(t, key.PublicKey.E, pub.E)

	_, err = p.PublicKey(ctx, "kid-1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load())

	// unknown kids do not hammer the endpoint
	for _, kid := range []string{"enc", "ec", "forged"} {
		_, err = p.PublicKey(ctx, kid)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	}
	assert.Equal(t, int32(1), fetches.Load())

	// an expired set is refetched, and kept when the endpoint is down
	now = now.Add(2 * keySetTTL)
	down.Store(true)
	pub, err = p.PublicKey(ctx, "kid-1")
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey.N, pub.N)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestGetPublicKeyRejectsMalformed(t *testing.T) {
	_, err := (&JSONWebKey{N: "!!", E: "AQAB"}).GetPublicKey()
	assert.Error(t, err)

	_, err = (&JSONWebKey{N: "AQAB", E: ""}).GetPublicKey()
	assert.Error(t, err)

	_, err = (&JSONWebKey{N: "AQAB", E: base64.RawURLEncoding.EncodeToString([]byte{1, 0, 0, 0, 1})}).GetPublicKey()
	assert.Error(t, err)
}
