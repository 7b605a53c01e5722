package chain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	lastMsg  ethereum.CallMsg
	gas      uint64
	gasPrice *big.Int
	err      error
}

func (f *fakeBackend) EstimateGas(
	_ context.Context,
	msg ethereum.CallMsg,
) (uint64, error) {
	f.lastMsg = msg

	return f.gas, f.err
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return f.gasPrice, f.err
}

func newTestMeter(t *testing.T, b backend) *GasMeter {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	meter, err := newGasMeter(b, registry, logger)
	require.NoError(t, err)

	return meter
}

func TestEstimateRegistration(t *testing.T) {
	fake := &fakeBackend{gas: 480000}
	meter := newTestMeter(t, fake)

	pub := bytes.Repeat([]byte{0xAB}, 1952)

	gas, err := meter.EstimateRegistration(context.Background(), pub)
	require.NoError(t, err)
	assert.Equal(t, uint64(480000), gas)

	// Calldata targets the registry with the registerPQCKey selector
	// and carries the key.
	require.NotNil(t, fake.lastMsg.To)
	assert.Equal(t, meter.registry, *fake.lastMsg.To)

	selector := meter.abi.Methods["registerPQCKey"].ID
	assert.Equal(t, selector, fake.lastMsg.Data[:4])
	assert.True(t, bytes.Contains(fake.lastMsg.Data, pub))
}

func TestEstimateSignatureLog(t *testing.T) {
	fake := &fakeBackend{gas: 210000}
	meter := newTestMeter(t, fake)

	sig := bytes.Repeat([]byte{0xCD}, 3309)
	msg := []byte("hybrid tx message")

	gas, err := meter.EstimateSignatureLog(context.Background(), sig, msg)
	require.NoError(t, err)
	assert.Equal(t, uint64(210000), gas)

	selector := meter.abi.Methods["logSignature"].ID
	assert.Equal(t, selector, fake.lastMsg.Data[:4])
	assert.True(t, bytes.Contains(fake.lastMsg.Data, sig))
	assert.True(t, bytes.Contains(fake.lastMsg.Data, msg))
}

func TestEstimateLogsFigures(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))
	registry := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	meter, err := newGasMeter(&fakeBackend{gas: 480000}, registry, logger)
	require.NoError(t, err)

	_, err = meter.EstimateRegistration(context.Background(), []byte{1, 2, 3})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "gas estimated")
	assert.Contains(t, out, "registerPQCKey")
	assert.Contains(t, out, "gas=480000")
}

func TestEstimateErrorWrapped(t *testing.T) {
	fake := &fakeBackend{err: errors.New("execution reverted")}
	meter := newTestMeter(t, fake)

	_, err := meter.EstimateRegistration(context.Background(), []byte{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registerPQCKey")
}

func TestSuggestGasPrice(t *testing.T) {
	fake := &fakeBackend{gasPrice: big.NewInt(2_000_000_000)}
	meter := newTestMeter(t, fake)

	price, err := meter.SuggestGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000_000), price)
}

func TestSuggestGasPriceOverflow(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	fake := &fakeBackend{gasPrice: huge}
	meter := newTestMeter(t, fake)

	_, err := meter.SuggestGasPrice(context.Background())
	assert.Error(t, err)
}

func TestDialRejectsBadRegistryAddress(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := Dial(context.Background(), "http://127.0.0.1:8545", "not-an-address", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry address")
}
