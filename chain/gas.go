// Package chain estimates the on-chain cost of publishing post-quantum
// keys and signatures through an Ethereum JSON-RPC endpoint.
package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// registryABI covers the two KeyRegistry entry points the harness
// prices: key registration and signature logging.
const registryABI = `[
  {"type":"function","name":"registerPQCKey","stateMutability":"nonpayable",
   "inputs":[{"name":"publicKey","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"logSignature","stateMutability":"nonpayable",
   "inputs":[{"name":"signature","type":"bytes"},{"name":"message","type":"bytes"}],
   "outputs":[]}
]`

// backend is the slice of the eth client the meter uses; ethclient
// satisfies it, tests substitute a fake.
type backend interface {
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// GasMeter prices registry calls via eth_estimateGas. Estimation only;
// the harness never submits transactions and needs no funded account.
type GasMeter struct {
	backend  backend
	registry common.Address
	abi      abi.ABI
	logger   *slog.Logger
}

// Dial connects to the RPC endpoint and verifies it is reachable
// before any measurement begins. registry must be the hex address of
// the deployed KeyRegistry contract.
func Dial(
	ctx context.Context,
	rpcURL, registry string,
	logger *slog.Logger,
) (*GasMeter, error) {
	if !common.IsHexAddress(registry) {
		return nil, fmt.Errorf(
			"invalid registry address %q: expected a 0x-prefixed hex address",
			registry,
		)
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()

		return nil, fmt.Errorf(
			"chain endpoint %s unreachable (is the node running?): %w",
			rpcURL, err,
		)
	}

	logger.Info("chain endpoint connected",
		slog.String("rpc_url", rpcURL),
		slog.String("chain_id", chainID.String()),
		slog.String("registry", registry),
	)

	return newGasMeter(client, common.HexToAddress(registry), logger)
}

func newGasMeter(
	b backend,
	registry common.Address,
	logger *slog.Logger,
) (*GasMeter, error) {
	parsed, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, fmt.Errorf("parse registry ABI: %w", err)
	}

	return &GasMeter{
		backend:  b,
		registry: registry,
		abi:      parsed,
		logger:   logger,
	}, nil
}

// EstimateRegistration prices registerPQCKey(publicKey).
func (m *GasMeter) EstimateRegistration(
	ctx context.Context,
	pub []byte,
) (uint64, error) {
	return m.estimate(ctx, "registerPQCKey", pub)
}

// EstimateSignatureLog prices logSignature(signature, message).
func (m *GasMeter) EstimateSignatureLog(
	ctx context.Context,
	sig, msg []byte,
) (uint64, error) {
	return m.estimate(ctx, "logSignature", sig, msg)
}

// SuggestGasPrice returns the endpoint's suggested price in wei.
func (m *GasMeter) SuggestGasPrice(ctx context.Context) (uint64, error) {
	price, err := m.backend.SuggestGasPrice(ctx)
	if err != nil {
		return 0, fmt.Errorf("suggest gas price: %w", err)
	}

	if !price.IsUint64() {
		return 0, fmt.Errorf("gas price %s overflows uint64", price)
	}

	return price.Uint64(), nil
}

func (m *GasMeter) estimate(
	ctx context.Context,
	method string,
	args ...any,
) (uint64, error) {
	data, err := m.abi.Pack(method, args...)
	if err != nil {
		return 0, fmt.Errorf("pack %s calldata: %w", method, err)
	}

	gas, err := m.backend.EstimateGas(ctx, ethereum.CallMsg{
		To:   &m.registry,
		Data: data,
	})
	if err != nil {
		return 0, fmt.Errorf("estimate %s gas: %w", method, err)
	}

	m.logger.Info("gas estimated",
		slog.String("method", method),
		slog.Int("calldata_bytes", len(data)),
		slog.Uint64("gas", gas),
	)

	return gas, nil
}
