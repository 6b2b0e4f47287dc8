package signature

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Supported signing methods.
const (
	MethodES256 = "ES256"
	MethodES384 = "ES384"
	MethodES512 = "ES512"
	MethodEdDSA = "EdDSA"
)

// ErrPublicOnly is returned when signing with a key pair that has no private key.
var ErrPublicOnly = errors.New("signature: key pair has no private key")

// KeyPair is a signing key. Private is nil for keys that can only verify.
type KeyPair struct {
	Method  jwt.SigningMethod
	Private crypto.PrivateKey
	Public  crypto.PublicKey

	keyID string
}

// GenerateKeyPair creates a fresh key for the signing method.
func GenerateKeyPair(method string) (*KeyPair, error) {
	switch method {
	case MethodES256, MethodES384, MethodES512:
		curve := curveFor(method)
		priv, err := ecdsa.GenerateKey(curve, rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("signature: generate %s key: %w", method, err)
		}
		return newKeyPair(jwt.GetSigningMethod(method), priv, &priv.PublicKey)
	case MethodEdDSA:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("signature: generate EdDSA key: %w", err)
		}
		return newKeyPair(jwt.SigningMethodEdDSA, priv, pub)
	default:
		return nil, fmt.Errorf("signature: unsupported signing method %q", method)
	}
}

// LoadKeyPairPEM parses a PEM encoded EC or Ed25519 private key. The signing
// method follows from the key type and curve.
func LoadKeyPairPEM(data []byte) (*KeyPair, error) {
	if ec, err := jwt.ParseECPrivateKeyFromPEM(data); err == nil {
		method, err := methodForCurve(ec.Curve)
		if err != nil {
			return nil, err
		}
		return newKeyPair(method, ec, &ec.PublicKey)
	}
	ed, err := jwt.ParseEdPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("signature: parse private key: %w", err)
	}
	priv, ok := ed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signature: unsupported private key type %T", ed)
	}
	return newKeyPair(jwt.SigningMethodEdDSA, priv, priv.Public())
}

// LoadPublicKeyPEM parses a PEM encoded public key into a verify-only pair.
func LoadPublicKeyPEM(data []byte) (*KeyPair, error) {
	if ec, err := jwt.ParseECPublicKeyFromPEM(data); err == nil {
		method, err := methodForCurve(ec.Curve)
		if err != nil {
			return nil, err
		}
		return newKeyPair(method, nil, ec)
	}
	ed, err := jwt.ParseEdPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("signature: parse public key: %w", err)
	}
	return newKeyPair(jwt.SigningMethodEdDSA, nil, ed)
}

// ParseKeyID rebuilds the verify-only key pair a key id was derived from.
func ParseKeyID(keyID string) (*KeyPair, error) {
	der, err := base64.StdEncoding.DecodeString(keyID)
	if err != nil {
		return nil, fmt.Errorf("signature: key id is not base64: %w", err)
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("signature: key id is not a public key: %w", err)
	}
	switch key := pub.(type) {
	case *ecdsa.PublicKey:
		method, err := methodForCurve(key.Curve)
		if err != nil {
			return nil, err
		}
		return newKeyPair(method, nil, key)
	case ed25519.PublicKey:
		return newKeyPair(jwt.SigningMethodEdDSA, nil, key)
	default:
		return nil, fmt.Errorf("signature: unsupported public key type %T", pub)
	}
}

// MarshalPrivateKeyPEM encodes the private key as PKCS#8 PEM.
func MarshalPrivateKeyPEM(k *KeyPair) ([]byte, error) {
	if k == nil || k.Private == nil {
		return nil, ErrPublicOnly
	}
	der, err := x509.MarshalPKCS8PrivateKey(k.Private)
	if err != nil {
		return nil, fmt.Errorf("signature: marshal private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// MarshalPublicKeyPEM encodes the public key as PKIX PEM.
func MarshalPublicKeyPEM(k *KeyPair) ([]byte, error) {
	if k == nil {
		return nil, errors.New("signature: nil key pair")
	}
	der, err := x509.MarshalPKIXPublicKey(k.Public)
	if err != nil {
		return nil, fmt.Errorf("signature: marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// KeyID is the base64 encoded PKIX DER form of the public key. Verifiers can
// rebuild the key from it with ParseKeyID.
func (k *KeyPair) KeyID() string {
	return k.keyID
}

// MethodName returns the jwt algorithm name, e.g. "ES256".
func (k *KeyPair) MethodName() string {
	return k.Method.Alg()
}

// CanSign reports whether the pair holds a private key.
func (k *KeyPair) CanSign() bool {
	return k.Private != nil
}

// PublicOnly returns a copy without the private key.
func (k *KeyPair) PublicOnly() *KeyPair {
	c := *k
	c.Private = nil
	return &c
}

// Sign signs input and returns the raw signature bytes.
func (k *KeyPair) Sign(input []byte) ([]byte, error) {
	if k.Private == nil {
		return nil, ErrPublicOnly
	}
	sig, err := k.Method.Sign(string(input), k.Private)
	if err != nil {
		return nil, fmt.Errorf("signature: sign with %s: %w", k.MethodName(), err)
	}
	return sig, nil
}

// Verify checks a raw signature over input.
func (k *KeyPair) Verify(input, sig []byte) error {
	return k.Method.Verify(string(input), sig, k.Public)
}

func newKeyPair(method jwt.SigningMethod, priv crypto.PrivateKey, pub crypto.PublicKey) (*KeyPair, error) {
	if method == nil {
		return nil, errors.New("signature: unknown signing method")
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("signature: marshal public key: %w", err)
	}
	return &KeyPair{
		Method:  method,
		Private: priv,
		Public:  pub,
		keyID:   base64.StdEncoding.EncodeToString(der),
	}, nil
}

func curveFor(method string) elliptic.Curve {
	switch method {
	case MethodES384:
		return elliptic.P384()
	case MethodES512:
		return elliptic.P521()
	default:
		return elliptic.P256()
	}
}

func methodForCurve(curve elliptic.Curve) (jwt.SigningMethod, error) {
	switch curve.Params().BitSize {
	case 256:
		return jwt.SigningMethodES256, nil
	case 384:
		return jwt.SigningMethodES384, nil
	case 521:
		return jwt.SigningMethodES512, nil
	default:
		return nil, fmt.Errorf("signature: unsupported curve %s", curve.Params().Name)
	}
}
