package gateway

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SignatureError reports a failure to produce an outbound signature.
// Verification never produces errors; adversarial input is rejected with
// a plain false.
type SignatureError struct {
	Op  string
	Err error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("payby signature %s: %v", e.Op, e.Err)
}

func (e *SignatureError) Unwrap() error { return e.Err }

// Signer signs outbound payloads with the merchant private key and
// verifies inbound payloads against the gateway public key.
type Signer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	logger     *zap.Logger

	// now is swapped in tests to pin the timestamp.
	now func() time.Time
}

// NewSigner parses PEM-encoded key material. Either key may be empty if
// only one direction is needed; using the missing direction fails.
func NewSigner(privateKeyPEM, publicKeyPEM []byte, logger *zap.Logger) (*Signer, error) {
	s := &Signer{logger: logger, now: time.Now}

	if len(privateKeyPEM) > 0 {
		key, err := parsePrivateKey(privateKeyPEM)
		if err != nil {
			return nil, &SignatureError{Op: "load private key", Err: err}
		}
		s.privateKey = key
	}
	if len(publicKeyPEM) > 0 {
		key, err := parsePublicKey(publicKeyPEM)
		if err != nil {
			return nil, &SignatureError{Op: "load public key", Err: err}
		}
		s.publicKey = key
	}
	return s, nil
}

func parsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}
	return key, nil
}

func parsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not RSA")
	}
	return key, nil
}

// Sign canonicalizes params, binds the current unix timestamp into the
// signed bytes and returns the base64 signature plus that timestamp.
func (s *Signer) Sign(params map[string]any) (string, int64, error) {
	if s.privateKey == nil {
		return "", 0, &SignatureError{Op: "sign", Err: fmt.Errorf("no private key configured")}
	}

	timestamp := s.now().Unix()
	signString := buildSignString(params, &timestamp)

	s.logger.Debug("generating signature",
		zap.String("sign_string", signString),
		zap.Int64("timestamp", timestamp),
	)

	digest := sha256.Sum256([]byte(signString))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		s.logger.Error("failed to generate signature", zap.Error(err))
		return "", 0, &SignatureError{Op: "sign", Err: err}
	}

	return base64.StdEncoding.EncodeToString(sig), timestamp, nil
}

// Verify checks signature over the canonicalized params. A timestamp key
// present in params is bound the same way Sign binds the generated one:
// appended after the sorted join rather than sorted in. Verify never
// returns an error; malformed or forged input yields false.
func (s *Signer) Verify(params map[string]any, signature string) bool {
	if s.publicKey == nil {
		s.logger.Error("signature verification without public key")
		return false
	}

	var timestamp *int64
	rest := params
	if raw, ok := params["timestamp"]; ok {
		if ts, ok := timestampValue(raw); ok {
			timestamp = &ts
			rest = make(map[string]any, len(params))
			for k, v := range params {
				if k != "timestamp" {
					rest[k] = v
				}
			}
		}
	}
	signString := buildSignString(rest, timestamp)

	s.logger.Debug("verifying signature",
		zap.String("sign_string", signString),
		zap.String("signature", signature),
	)

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		s.logger.Error("failed to decode signature", zap.Error(err))
		return false
	}

	digest := sha256.Sum256([]byte(signString))
	if err := rsa.VerifyPKCS1v15(s.publicKey, crypto.SHA256, digest[:], sig); err != nil {
		return false
	}
	return true
}

func timestampValue(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case string:
		ts, err := strconv.ParseInt(t, 10, 64)
		return ts, err == nil
	}
	return 0, false
}

// buildSignString canonicalizes a payload: the signature key and keys
// with empty/nil/false values are dropped, the rest are sorted and
// joined as key=value pairs with '&'. A timestamp, when given, is
// appended last regardless of sort order. An empty payload with a
// timestamp yields "&timestamp=<ts>"; the leading separator is part of
// the wire format.
func buildSignString(params map[string]any, timestamp *int64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "signature" || isEmptyValue(params[k]) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(scalarString(params[k]))
	}
	if timestamp != nil {
		b.WriteString("&timestamp=")
		b.WriteString(strconv.FormatInt(*timestamp, 10))
	}
	return b.String()
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	}
	return false
}

// scalarString renders values the way the gateway canonicalizes them:
// true becomes "1", integral floats lose their fraction, and composite
// values contribute an empty string (the key still participates).
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return ""
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
