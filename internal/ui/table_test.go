package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValueBlock(t *testing.T) {
	out := KeyValueBlock("Decrypted", [][2]string{
		{"Action", "transfer"},
		{"From", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"},
		{"Amount", "1.5 (1500000000000000000)"},
	})
	assert.Contains(t, out, "Decrypted")
	assert.Contains(t, out, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	assert.Contains(t, out, "╭", "rounded border")

	action, from, amount := strings.Index(out, "Action"), strings.Index(out, "From"), strings.Index(out, "Amount")
	require.True(t, action >= 0 && from >= 0 && amount >= 0)
	assert.Less(t, action, from)
	assert.Less(t, from, amount)
}

func TestKeyValueBlockWithoutTitleOrPairs(t *testing.T) {
	assert.Contains(t, KeyValueBlock("", [][2]string{{"Status", "active"}}), "active")
	assert.Contains(t, KeyValueBlock("Auditor", nil), "Auditor")
}

func eventTable() *Table {
	tbl := NewTable([]Column{{Title: "Block", Width: 8}, {Title: "Event", Width: 24}, {Title: "Payload", Width: 12}})
	tbl.AddRow(Row{"4210", "EncryptedTransfer", "0xa1b2c3"})
	tbl.AddRow(Row{"4188", "EncryptedFrozen"})
	return tbl
}

func TestTableRender(t *testing.T) {
	tbl := eventTable()
	assert.Equal(t, -1, tbl.SelIdx)
	require.Len(t, tbl.Rows, 2)

	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, "header, divider and two rows")

	assert.Contains(t, lines[0], "Block")
	assert.Contains(t, lines[0], "Payload")
	assert.Contains(t, lines[1], strings.Repeat("-", 24))
	assert.Contains(t, lines[2], "EncryptedTransfer")
	assert.Contains(t, lines[3], "EncryptedFrozen", "short rows render blank cells")
}

func TestTableRenderSelected(t *testing.T) {
	tbl := eventTable()
	tbl.SelIdx = 1
	assert.Contains(t, tbl.Render(), "EncryptedFrozen")
}

func TestTableRenderHeaderOnly(t *testing.T) {
	out := NewTable([]Column{{Title: "Wallet", Width: 10}}).Render()
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestTableCutsLongCells(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Tx", Width: 6}})
	tbl.AddRow(Row{"0xdeadbeefcafe"})
	out := tbl.Render()
	assert.Contains(t, out, "0xdead")
	assert.NotContains(t, out, "0xdeadb")
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab   ", fit("ab", 5))
	assert.Equal(t, "abcde", fit("abcdefgh", 5))
	assert.Equal(t, "0x12…", fit("0x12…5678", 5), "cuts on rune boundaries")
}

func TestBanner(t *testing.T) {
	out := Banner()
	assert.Contains(t, out, "uRWA20")
	assert.Contains(t, out, Version)
	assert.Contains(t, out, "Sapphire")
}
