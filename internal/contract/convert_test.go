package contract

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalAndConvert(t *testing.T, name string, values ...string) ([]any, error) {
	t.Helper()
	fn := mustFunction(t, mustInterface(t), name)
	args, err := Marshal(fn, values, "")
	require.NoError(t, err)
	return ToABIValues(fn, args)
}

func TestToABIValuesWidths(t *testing.T) {
	vals, err := marshalAndConvert(t, "setLimits", "255", "340282366920938463463374607431768211455", "-9", "true")
	require.NoError(t, err)

	assert.Equal(t, uint8(255), vals[0])
	assert.Equal(t, "340282366920938463463374607431768211455", vals[1].(*big.Int).String())
	assert.Equal(t, int64(-9), vals[2])
	assert.Equal(t, true, vals[3])
}

func TestToABIValuesOverflow(t *testing.T) {
	_, err := marshalAndConvert(t, "setLimits", "256", "1", "0", "false")
	assert.ErrorIs(t, err, ErrInvalidInteger)

	_, err = marshalAndConvert(t, "setLimits", "-1", "1", "0", "false")
	assert.ErrorIs(t, err, ErrInvalidInteger)

	_, err = marshalAndConvert(t, "setLimits", "1", "1", "9223372036854775808", "false")
	assert.ErrorIs(t, err, ErrInvalidInteger)

	vals, err := marshalAndConvert(t, "setLimits", "1", "1", "-9223372036854775808", "false")
	require.NoError(t, err)
	assert.Equal(t, int64(-9223372036854775808), vals[2])
}

func TestToABIValuesAddress(t *testing.T) {
	vals, err := marshalAndConvert(t, "transfer", "70997970c51812dc3a010c7d01b50e0d17dc79c8", "1")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), vals[0])

	_, err = marshalAndConvert(t, "transfer", "0x1234", "1")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestToABIValuesBytes(t *testing.T) {
	vals, err := marshalAndConvert(t, "store", "hi", "0xcafe", "note")
	require.NoError(t, err)

	assert.Equal(t, []byte("hi"), vals[0])
	assert.Equal(t, [4]byte{0xca, 0xfe, 0, 0}, vals[1])
	assert.Equal(t, "note", vals[2])

	_, err = marshalAndConvert(t, "store", "hi", "0x0102030405", "note")
	assert.ErrorContains(t, err, "bytes4 holds 4")

	_, err = marshalAndConvert(t, "store", "0xzz", "0x01", "note")
	assert.Error(t, err)
}

func TestToABIValuesArraysFromJSON(t *testing.T) {
	vals, err := marshalAndConvert(t, "batch",
		`["0x70997970C51812dc3A010C7d01b50e0d17dc79C8","0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"]`,
		`[1, 123456789012345678901234567890]`)
	require.NoError(t, err)

	addrs, ok := vals[0].([]common.Address)
	require.True(t, ok)
	assert.Len(t, addrs, 2)

	amounts, ok := vals[1].([2]*big.Int)
	require.True(t, ok)
	assert.Equal(t, "123456789012345678901234567890", amounts[1].String())

	_, err = marshalAndConvert(t, "batch", `not-json`, `[1,2]`)
	assert.ErrorContains(t, err, "decoding address[]")
}

func TestToABIValuesPacks(t *testing.T) {
	fn := mustFunction(t, mustInterface(t), "transfer")
	args, err := Marshal(fn, []string{"0x70997970C51812dc3A010C7d01b50e0d17dc79C8", "1000"}, "")
	require.NoError(t, err)
	vals, err := ToABIValues(fn, args)
	require.NoError(t, err)

	data, err := packCall(fn, vals)
	require.NoError(t, err)
	assert.Len(t, data, 4+64)
	assert.Equal(t, fn.Method().ID, data[:4])
}

func TestToABIValuesArgCount(t *testing.T) {
	fn := mustFunction(t, mustInterface(t), "transfer")
	_, err := ToABIValues(fn, nil)
	assert.ErrorContains(t, err, "takes 2 arguments, got 0")
}
