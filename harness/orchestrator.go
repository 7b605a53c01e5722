package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pqsig/sigbench/scheme"
)

// errInvalidSignature marks a verification unit whose signature did
// not check out. It is a unit failure, not a sample.
var errInvalidSignature = errors.New("signature invalid")

// GasMeter estimates the on-chain cost of registering keys and logging
// signatures. Implementations may be unavailable; the harness treats
// gas measurement as strictly optional.
type GasMeter interface {
	EstimateRegistration(ctx context.Context, pub []byte) (uint64, error)
	EstimateSignatureLog(ctx context.Context, sig, msg []byte) (uint64, error)
	SuggestGasPrice(ctx context.Context) (uint64, error)
}

// Config carries the per-run knobs for one algorithm's sweeps. Batch
// sizes must be strictly increasing and >= 1.
type Config struct {
	BatchSizes       []int
	Parallel         bool
	SkipSigning      bool
	SkipVerification bool
}

// Harness coordinates the keygen, signing, and verification sweeps for
// a single algorithm. Algorithms are benchmarked one at a time so
// concurrent runs cannot interfere with each other's timings.
type Harness struct {
	cfg    Config
	signer scheme.Signer
	gas    GasMeter
	logger *slog.Logger
}

// New validates the configuration and builds a Harness. gas may be nil
// when no chain endpoint is configured.
func New(
	cfg Config,
	signer scheme.Signer,
	gas GasMeter,
	logger *slog.Logger,
) (*Harness, error) {
	if len(cfg.BatchSizes) == 0 {
		return nil, fmt.Errorf("no batch sizes configured")
	}

	prev := 0
	for _, size := range cfg.BatchSizes {
		if size < 1 {
			return nil, fmt.Errorf("batch size must be >= 1, got %d", size)
		}

		if size <= prev {
			return nil, fmt.Errorf(
				"batch sizes must be strictly increasing: %d after %d",
				size, prev,
			)
		}

		prev = size
	}

	return &Harness{
		cfg:    cfg,
		signer: signer,
		gas:    gas,
		logger: logger.With(slog.String("algorithm", signer.Name())),
	}, nil
}

// Run executes the configured sweeps in the fixed order key generation,
// signing, verification, then the optional gas measurement. Partial
// results are always preferred: a failed sweep or gas probe leaves its
// section empty and the rest of the result intact.
func (h *Harness) Run(ctx context.Context) *AlgorithmResult {
	result := &AlgorithmResult{
		Algorithm:  h.signer.Name(),
		Timestamp:  time.Now(),
		BatchSizes: h.cfg.BatchSizes,
		Parallel:   h.cfg.Parallel,
	}

	maxBatch := h.cfg.BatchSizes[len(h.cfg.BatchSizes)-1]

	result.KeyGeneration = h.runKeyGenSweep()

	if h.cfg.SkipSigning {
		h.logger.Info("signing sweep skipped")
	} else {
		result.Signing = h.runSigningSweep(maxBatch)
	}

	if h.cfg.SkipVerification {
		h.logger.Info("verification sweep skipped")
	} else {
		result.Verification = h.runVerificationSweep(maxBatch)
	}

	if h.gas != nil {
		result.Gas = h.measureGas(ctx)
	}

	return result
}

func (h *Harness) runKeyGenSweep() []BatchSummary {
	summaries := h.runSweep(OpKeyGeneration, -1, func(int) Factory {
		return func(int) Op {
			return func() (int, error) {
				pub, _, err := h.signer.GenerateKey()

				return len(pub), err
			}
		}
	})

	for i := range summaries {
		summaries[i].PublicKeySize = h.signer.PublicKeySize()
		summaries[i].PrivateKeySize = h.signer.PrivateKeySize()
	}

	return summaries
}

func (h *Harness) runSigningSweep(maxBatch int) []BatchSummary {
	keys, msgs := h.prepareSigningFixtures(maxBatch)
	if len(keys) == 0 {
		h.logger.Error("no signing fixtures available, sweep skipped")

		return nil
	}

	// Every batch size signs a prefix of the shared pool, so the
	// inputs at size B are exactly the first B inputs at any larger
	// size.
	summaries := h.runSweep(OpSigning, len(keys), func(int) Factory {
		return func(i int) Op {
			priv := keys[i].priv
			msg := msgs[i]

			return func() (int, error) {
				sig, err := h.signer.Sign(priv, msg)

				return len(sig), err
			}
		}
	})

	for i := range summaries {
		summaries[i].SignatureSize = h.signer.SignatureSize()
	}

	return summaries
}

func (h *Harness) runVerificationSweep(maxBatch int) []BatchSummary {
	keys, msgs, sigs := h.prepareVerificationFixtures(maxBatch)
	if len(sigs) == 0 {
		h.logger.Error("no verification fixtures available, sweep skipped")

		return nil
	}

	summaries := h.runSweep(OpVerification, len(sigs), func(int) Factory {
		return func(i int) Op {
			pub := keys[i].pub
			msg := msgs[i]
			sig := sigs[i]

			return func() (int, error) {
				ok, err := h.signer.Verify(pub, msg, sig)
				if err != nil {
					return 0, err
				}

				if !ok {
					return 0, errInvalidSignature
				}

				return len(sig), nil
			}
		}
	})

	for i := range summaries {
		summaries[i].ValidSignatures = summaries[i].OpCount
		summaries[i].TotalSignatures = summaries[i].BatchSize
	}

	return summaries
}

// measureGas estimates registration and signature-log gas for one
// freshly generated keypair. Any failure leaves the section absent;
// gas figures never block the timing results.
func (h *Harness) measureGas(ctx context.Context) *GasSummary {
	pub, priv, err := h.signer.GenerateKey()
	if err != nil {
		h.logger.Warn("gas measurement skipped, key generation failed",
			slog.String("error", err.Error()),
		)

		return nil
	}

	msg := []byte("on-chain gas probe message")

	sig, err := h.signer.Sign(priv, msg)
	if err != nil {
		h.logger.Warn("gas measurement skipped, signing failed",
			slog.String("error", err.Error()),
		)

		return nil
	}

	regGas, err := h.gas.EstimateRegistration(ctx, pub)
	if err != nil {
		h.logger.Warn("gas measurement skipped, registration estimate failed",
			slog.String("error", err.Error()),
		)

		return nil
	}

	logGas, err := h.gas.EstimateSignatureLog(ctx, sig, msg)
	if err != nil {
		h.logger.Warn("gas measurement skipped, signature log estimate failed",
			slog.String("error", err.Error()),
		)

		return nil
	}

	summary := &GasSummary{
		RegistrationGas: regGas,
		SignatureLogGas: logGas,
		PublicKeySize:   len(pub),
		SignatureSize:   len(sig),
	}

	price, err := h.gas.SuggestGasPrice(ctx)
	if err != nil {
		h.logger.Warn("gas price unavailable",
			slog.String("error", err.Error()),
		)
	} else {
		summary.GasPriceWei = price
	}

	h.logger.Info("gas measured",
		slog.Uint64("registration_gas", regGas),
		slog.Uint64("signature_log_gas", logGas),
	)

	return summary
}
