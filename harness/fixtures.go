package harness

import (
	"fmt"
	"log/slog"
)

// keypair pairs the encoded halves of one generated key.
type keypair struct {
	pub  []byte
	priv []byte
}

// prepareSigningFixtures builds the shared pool of n keypairs and
// fixed-content messages the signing sweep slices prefixes from. If
// generation fails at index i the pool is truncated to the first i
// entries; batch sizes beyond that are skipped by the sweep.
func (h *Harness) prepareSigningFixtures(n int) ([]keypair, [][]byte) {
	h.logger.Info("preparing signing fixtures", slog.Int("count", n))

	keys := make([]keypair, 0, n)
	msgs := make([][]byte, 0, n)

	for i := 0; i < n; i++ {
		pub, priv, err := h.signer.GenerateKey()
		if err != nil {
			h.logger.Warn("signing fixture pool truncated",
				slog.Int("built", i),
				slog.Int("wanted", n),
				slog.String("error", err.Error()),
			)

			break
		}

		keys = append(keys, keypair{pub: pub, priv: priv})
		msgs = append(msgs, []byte(fmt.Sprintf("batch test message %d", i+1)))
	}

	return keys, msgs
}

// prepareVerificationFixtures builds n (keypair, message, signature)
// triples once, so every verification batch verifies real signatures
// over a monotonic prefix of the same inputs.
func (h *Harness) prepareVerificationFixtures(n int) ([]keypair, [][]byte, [][]byte) {
	h.logger.Info("preparing verification fixtures", slog.Int("count", n))

	keys := make([]keypair, 0, n)
	msgs := make([][]byte, 0, n)
	sigs := make([][]byte, 0, n)

	for i := 0; i < n; i++ {
		pub, priv, err := h.signer.GenerateKey()
		if err != nil {
			h.logger.Warn("verification fixture pool truncated",
				slog.Int("built", i),
				slog.Int("wanted", n),
				slog.String("error", err.Error()),
			)

			break
		}

		msg := []byte(fmt.Sprintf("batch verification test message %d", i+1))

		sig, err := h.signer.Sign(priv, msg)
		if err != nil {
			h.logger.Warn("verification fixture pool truncated",
				slog.Int("built", i),
				slog.Int("wanted", n),
				slog.String("error", err.Error()),
			)

			break
		}

		keys = append(keys, keypair{pub: pub, priv: priv})
		msgs = append(msgs, msg)
		sigs = append(sigs, sig)
	}

	return keys, msgs, sigs
}
