package gateway

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testKeyPair(t *testing.T) (privPEM, pubPEM []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})
	return privPEM, pubPEM
}

func testSigner(t *testing.T) *Signer {
	t.Helper()
	priv, pub := testKeyPair(t)
	s, err := NewSigner(priv, pub, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestSigner_SignVerifyRoundTrip(t *testing.T) {
	s := testSigner(t)

	params := map[string]any{
		"orderId": "O-1",
		"amount":  "100.00",
		"status":  "SUCCESS",
	}
	sig, ts, err := s.Sign(params)
	require.NoError(t, err)
	require.NotEmpty(t, sig)
	require.NotZero(t, ts)

	// Verification binds the timestamp returned by Sign.
	withTS := map[string]any{
		"orderId":   "O-1",
		"amount":    "100.00",
		"status":    "SUCCESS",
		"timestamp": ts,
	}
	assert.True(t, s.Verify(withTS, sig))
}

func TestSigner_RoundTripWithKeyAfterTimestamp(t *testing.T) {
	s := testSigner(t)

	// "transferId" sorts after "timestamp"; the timestamp must still be
	// bound last in the canonical string.
	params := map[string]any{"transferId": "T-1", "amount": "5.00"}
	sig, ts, err := s.Sign(params)
	require.NoError(t, err)

	params["timestamp"] = ts
	assert.True(t, s.Verify(params, sig))
}

func TestSigner_VerifyNotificationWithoutTimestamp(t *testing.T) {
	// Gateway notifications are signed over the payload alone. Simulate
	// the gateway by signing with a pinned zero-less canonical string.
	priv, pub := testKeyPair(t)
	gatewaySide, err := NewSigner(priv, nil, zap.NewNop())
	require.NoError(t, err)
	merchantSide, err := NewSigner(nil, pub, zap.NewNop())
	require.NoError(t, err)

	payload := map[string]any{"orderId": "O-1", "status": "SUCCESS"}

	// Build the gateway's signature by hand: canonical form without a
	// timestamp component.
	sig := signRaw(t, gatewaySide, "orderId=O-1&status=SUCCESS")
	assert.True(t, merchantSide.Verify(payload, sig))
}

// signRaw signs an exact canonical string with the signer's private key.
func signRaw(t *testing.T, s *Signer, canonical string) string {
	t.Helper()
	digest := sha256.Sum256([]byte(canonical))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, digest[:])
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(sig)
}

func TestSigner_TamperDetection(t *testing.T) {
	s := testSigner(t)

	params := map[string]any{"orderId": "O-1", "amount": "100.00"}
	sig, ts, err := s.Sign(params)
	require.NoError(t, err)

	// Substitute a value.
	tampered := map[string]any{"orderId": "O-1", "amount": "999.00", "timestamp": ts}
	assert.False(t, s.Verify(tampered, sig))

	// Add a key.
	tampered = map[string]any{"orderId": "O-1", "amount": "100.00", "extra": "x", "timestamp": ts}
	assert.False(t, s.Verify(tampered, sig))

	// Corrupt the signature itself.
	raw, err := base64.StdEncoding.DecodeString(sig)
	require.NoError(t, err)
	raw[0] ^= 0xff
	corrupted := base64.StdEncoding.EncodeToString(raw)
	good := map[string]any{"orderId": "O-1", "amount": "100.00", "timestamp": ts}
	assert.False(t, s.Verify(good, corrupted))
}

func TestSigner_VerifyNeverPanics(t *testing.T) {
	s := testSigner(t)

	assert.False(t, s.Verify(map[string]any{"a": "b"}, "not-base64!!!"))
	assert.False(t, s.Verify(map[string]any{"a": "b"}, ""))
	assert.False(t, s.Verify(map[string]any{}, "AAAA"))
	assert.False(t, s.Verify(nil, "AAAA"))
}

func TestSigner_SignWithoutPrivateKeyFails(t *testing.T) {
	_, pub := testKeyPair(t)
	s, err := NewSigner(nil, pub, zap.NewNop())
	require.NoError(t, err)

	_, _, err = s.Sign(map[string]any{"a": "b"})
	var sigErr *SignatureError
	assert.ErrorAs(t, err, &sigErr)
}

func TestSigner_WrongKeyPair(t *testing.T) {
	signerA := testSigner(t)
	signerB := testSigner(t)

	params := map[string]any{"orderId": "O-1"}
	sig, ts, err := signerA.Sign(params)
	require.NoError(t, err)

	params["timestamp"] = ts
	assert.False(t, signerB.Verify(params, sig))
}

func TestBuildSignString(t *testing.T) {
	ts := int64(1700000000)
	tests := []struct {
		name   string
		params map[string]any
		ts     *int64
		want   string
	}{
		{
			name:   "sorted keys",
			params: map[string]any{"b": "2", "a": "1", "c": "3"},
			want:   "a=1&b=2&c=3",
		},
		{
			name: "drops empty null false and signature",
			params: map[string]any{
				"a":         "1",
				"empty":     "",
				"nothing":   nil,
				"flag":      false,
				"signature": "sig",
			},
			want: "a=1",
		},
		{
			name:   "true renders as 1",
			params: map[string]any{"enabled": true},
			want:   "enabled=1",
		},
		{
			name:   "integral float loses fraction",
			params: map[string]any{"count": float64(100)},
			want:   "count=100",
		},
		{
			name:   "composite value contributes empty string",
			params: map[string]any{"a": "1", "nested": map[string]any{"x": "y"}},
			want:   "a=1&nested=",
		},
		{
			name:   "timestamp appended last",
			params: map[string]any{"zz": "1", "aa": "2"},
			ts:     &ts,
			want:   "aa=2&zz=1&timestamp=1700000000",
		},
		{
			name:   "empty payload with timestamp keeps separator",
			params: map[string]any{},
			ts:     &ts,
			want:   "&timestamp=1700000000",
		},
		{
			name:   "empty payload without timestamp",
			params: map[string]any{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildSignString(tt.params, tt.ts))
		})
	}
}

func TestSigner_TimestampFromClock(t *testing.T) {
	s := testSigner(t)
	fixed := time.Unix(1700000000, 0)
	s.now = func() time.Time { return fixed }

	_, ts, err := s.Sign(map[string]any{"a": "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts)
}
