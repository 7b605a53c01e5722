// Package scheme maps algorithm identifiers to digital-signature
// implementations. Keys, messages, and signatures cross the package
// boundary as plain byte slices so the harness never depends on a
// particular crypto library.
package scheme

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudflare/circl/sign/schemes"
)

// ErrUnknownAlgorithm is returned by Resolve for identifiers outside
// the supported set. Unknown identifiers are a configuration error,
// not something to discover mid-measurement.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Signer is the contract the harness measures against. All operations
// are synchronous and may fail.
type Signer interface {
	// Name returns the canonical identifier (e.g. "dilithium3").
	Name() string

	// GenerateKey produces a fresh (public, private) key pair.
	GenerateKey() (pub, priv []byte, err error)

	// Sign signs msg with the given private key.
	Sign(priv, msg []byte) ([]byte, error)

	// Verify reports whether sig is a valid signature of msg under pub.
	// The error is reserved for malformed inputs; an intact but wrong
	// signature yields (false, nil).
	Verify(pub, msg, sig []byte) (bool, error)

	// PublicKeySize, PrivateKeySize, and SignatureSize return the
	// encoded sizes in bytes. SignatureSize is an upper bound for
	// schemes with variable-length signatures.
	PublicKeySize() int
	PrivateKeySize() int
	SignatureSize() int
}

// circlNames is the closed dispatch table from our identifiers (and
// their common aliases) to circl scheme names. Adding an algorithm
// means adding a row here, nothing else.
var circlNames = map[string]string{
	// NIST ML-DSA (Dilithium).
	"dilithium2": "ML-DSA-44",
	"mldsa44":    "ML-DSA-44",
	"dilithium3": "ML-DSA-65",
	"mldsa65":    "ML-DSA-65",
	"dilithium5": "ML-DSA-87",
	"mldsa87":    "ML-DSA-87",

	// Classical baselines.
	"ed25519": "Ed25519",
	"ed448":   "Ed448",

	// Hybrid classical+PQ schemes.
	"ed25519-dilithium2": "Ed25519-Dilithium2",
	"ed448-dilithium3":   "Ed448-Dilithium3",
}

// canonical maps every alias to the identifier reported by Name and
// listed by Known.
var canonical = map[string]string{
	"dilithium2":         "dilithium2",
	"mldsa44":            "dilithium2",
	"dilithium3":         "dilithium3",
	"mldsa65":            "dilithium3",
	"dilithium5":         "dilithium5",
	"mldsa87":            "dilithium5",
	"ed25519":            "ed25519",
	"ed448":              "ed448",
	"ed25519-dilithium2": "ed25519-dilithium2",
	"ed448-dilithium3":   "ed448-dilithium3",
	"ecdsa":              "ecdsa-p256",
	"ecdsa-p256":         "ecdsa-p256",
}

// Resolve returns the Signer for the given identifier. Identifiers are
// matched case-insensitively and accept the aliases of the original
// research tooling (dilithium3 == mldsa65).
func Resolve(name string) (Signer, error) {
	id := strings.ToLower(strings.TrimSpace(name))

	canon, ok := canonical[id]
	if !ok {
		return nil, fmt.Errorf(
			"%w %q (supported: %s)",
			ErrUnknownAlgorithm, name, strings.Join(Known(), ", "),
		)
	}

	if canon == "ecdsa-p256" {
		return newECDSAP256(), nil
	}

	sch := schemes.ByName(circlNames[id])
	if sch == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownAlgorithm, name)
	}

	return &circlSigner{id: canon, scheme: sch}, nil
}

// Known returns the sorted list of canonical identifiers.
func Known() []string {
	seen := make(map[string]bool, len(canonical))
	names := make([]string, 0, len(canonical))

	for _, canon := range canonical {
		if !seen[canon] {
			seen[canon] = true
			names = append(names, canon)
		}
	}

	sort.Strings(names)

	return names
}
