package scheme

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"
)

const (
	p256PublicKeySize  = 65 // uncompressed point
	p256PrivateKeySize = 32
	p256SignatureSize  = 72 // DER upper bound
)

// ecdsaP256 is the classical baseline the PQ schemes are compared
// against. Messages are hashed with SHA-256 and signatures use ASN.1
// DER encoding.
type ecdsaP256 struct{}

func newECDSAP256() Signer { return ecdsaP256{} }

func (ecdsaP256) Name() string { return "ecdsa-p256" }

func (ecdsaP256) GenerateKey() ([]byte, []byte, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate ecdsa-p256 key: %w", err)
	}

	pub := elliptic.Marshal(elliptic.P256(), key.X, key.Y)
	priv := key.D.FillBytes(make([]byte, p256PrivateKeySize))

	return pub, priv, nil
}

func (ecdsaP256) Sign(priv, msg []byte) ([]byte, error) {
	if len(priv) != p256PrivateKeySize {
		return nil, fmt.Errorf(
			"ecdsa-p256 private key must be %d bytes, got %d",
			p256PrivateKeySize, len(priv),
		)
	}

	key := new(ecdsa.PrivateKey)
	key.Curve = elliptic.P256()
	key.D = new(big.Int).SetBytes(priv)
	key.X, key.Y = key.Curve.ScalarBaseMult(priv)

	digest := sha256.Sum256(msg)

	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return nil, fmt.Errorf("ecdsa-p256 sign: %w", err)
	}

	return sig, nil
}

func (ecdsaP256) Verify(pub, msg, sig []byte) (bool, error) {
	x, y := elliptic.Unmarshal(elliptic.P256(), pub)
	if x == nil {
		return false, fmt.Errorf("malformed ecdsa-p256 public key")
	}

	key := &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}
	digest := sha256.Sum256(msg)

	return ecdsa.VerifyASN1(key, digest[:], sig), nil
}

func (ecdsaP256) PublicKeySize() int  { return p256PublicKeySize }
func (ecdsaP256) PrivateKeySize() int { return p256PrivateKeySize }
func (ecdsaP256) SignatureSize() int  { return p256SignatureSize }
