package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessagePrefixes(t *testing.T) {
	tests := []struct {
		fn     func(string) string
		prefix string
	}{
		{Success, "✓"},
		{Warn, "⚠"},
		{Err, "✗"},
		{Info, "ℹ"},
		{Hint, "→"},
	}
	for _, tt := range tests {
		out := tt.fn("urwacli login")
		assert.Contains(t, out, tt.prefix+" urwacli login")
	}
	assert.NotEqual(t, Info("x"), Hint("x"))
}

func TestTruncateAddr(t *testing.T) {
	for in, want := range map[string]string{
		"":           "",
		"0x1234":     "0x1234",
		"0x12345678": "0x12345678",
		"0x70997970C51812dc3A010C7d01b50e0d17dc79C8": "0x7099…79C8",
	} {
		assert.Equal(t, want, TruncateAddr(in), in)
	}
}

func TestAllFormattersReturnNonEmpty(t *testing.T) {
	formatters := map[string]func(string) string{
		"Success":   Success,
		"Warn":      Warn,
		"Err":       Err,
		"Info":      Info,
		"Hint":      Hint,
		"Addr":      Addr,
		"Val":       Val,
		"Meta":      Meta,
		"ChainName": ChainName,
		"DangerBox": DangerBox,
	}
	for name, fn := range formatters {
		t.Run(name, func(t *testing.T) {
			result := fn("test")
			assert.NotEmpty(t, result)
			assert.Contains(t, result, "test", "%s should contain the input message", name)
		})
	}
}

func TestDangerBoxHasBorder(t *testing.T) {
	result := DangerBox("revoke auditor")
	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "revoke auditor")
}

func TestPadR(t *testing.T) {
	assert.Equal(t, "ab   ", padR("ab", 5))
	assert.Equal(t, "abcde", padR("abcde", 5))
	assert.Equal(t, "abcdef", padR("abcdef", 3), "longer strings are left alone")
	assert.Equal(t, "…  ", padR("…", 3), "pads by rune count")
	assert.Equal(t, "", padR("", 0))
}

func TestTrimErr(t *testing.T) {
	assert.Equal(t, "short", trimErr("short"))
	assert.Equal(t, "unreachable", trimErr("dial tcp 127.0.0.1:8545: connect: connection refused"))
	assert.Equal(t, "timeout", trimErr("context deadline exceeded"))

	long := trimErr("execution reverted: confidential transfer not permitted")
	assert.Len(t, long, 30)
	assert.Equal(t, "...", long[27:])
}
