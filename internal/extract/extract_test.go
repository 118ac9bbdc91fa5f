package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlphaWatcher/internal/domain"
)

const evmAddr = "0xAbCdEf0123456789abcdef0123456789ABCDEF01"

func TestContractsBareEVM(t *testing.T) {
	t.Parallel()

	text := "Contract address: " + evmAddr + " (verify before trading)"
	got := Contracts(text)

	require.Len(t, got, 1)
	assert.Equal(t, domain.ChainEVM, got[0].Chain)
	assert.Equal(t, []string{evmAddr}, got[0].Addresses)
}

func TestContractsExplorerTagging(t *testing.T) {
	t.Parallel()

	text := `<a href="https://etherscan.io/token/` + evmAddr + `">view</a>` +
		` and <a href="https://bscscan.com/address/0x1111111111111111111111111111111111111111">bsc</a>`
	got := Contracts(text)

	require.Len(t, got, 2)
	// Fixed chain priority: ETH before BNB.
	assert.Equal(t, domain.ChainETH, got[0].Chain)
	assert.Equal(t, []string{evmAddr}, got[0].Addresses)
	assert.Equal(t, domain.ChainBNB, got[1].Chain)
}

func TestContractsExplorerBeatsBare(t *testing.T) {
	t.Parallel()

	// The linked address must not be duplicated into the EVM bucket.
	text := "Token: https://etherscan.io/token/" + evmAddr + " contract " + evmAddr
	got := Contracts(text)

	require.Len(t, got, 1)
	assert.Equal(t, domain.ChainETH, got[0].Chain)
}

func TestContractsBase58Unknown(t *testing.T) {
	t.Parallel()

	sol := "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	got := Contracts("solana mint " + sol + " listed soon")

	require.Len(t, got, 1)
	assert.Equal(t, domain.ChainUnknown, got[0].Chain)
	assert.Equal(t, []string{sol}, got[0].Addresses)
}

func TestContractsDuplicatesCollapse(t *testing.T) {
	t.Parallel()

	got := Contracts(evmAddr + " " + evmAddr)
	require.Len(t, got, 1)
	assert.Equal(t, []string{evmAddr}, got[0].Addresses)
}

func TestContractsFirstSeenOrderWithinChain(t *testing.T) {
	t.Parallel()

	a := "0x1111111111111111111111111111111111111111"
	b := "0x2222222222222222222222222222222222222222"
	got := Contracts(a + " then " + b)

	require.Len(t, got, 1)
	assert.Equal(t, []string{a, b}, got[0].Addresses)
}

func TestExtractIdempotent(t *testing.T) {
	t.Parallel()

	text := `<a href="https://x.com/footoken">X</a> ` +
		`<a href="https://solscan.io/token/9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM">sol</a> ` +
		evmAddr

	first := Extract("Binance Will List Foo (FOO)", text)
	second := Extract("Binance Will List Foo (FOO)", text)
	assert.Equal(t, first, second)
}

func TestHandles(t *testing.T) {
	t.Parallel()

	content := `
		<a href="https://x.com/ccc">c</a>
		<a href="https://twitter.com/aaa">a</a>
		<a href="https://twitter.com/aaa">dup</a>
		<a href="https://twitter.com/intent/tweet?text=hi">share</a>
		<a href="https://example.com/other">other</a>
		<a href="https://twitter.com/bbb">b</a>
		<a href="https://x.com/ddd">d</a>`

	got := Handles(content)
	// Deterministic: deduped, sorted, capped to three.
	assert.Equal(t, []string{
		"https://twitter.com/aaa",
		"https://twitter.com/bbb",
		"https://x.com/ccc",
	}, got)
}

func TestHandlesPlainTextURLs(t *testing.T) {
	t.Parallel()

	got := Handles("follow https://x.com/footoken for updates")
	assert.Equal(t, []string{"https://x.com/footoken"}, got)
}

func TestParseTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title      string
		wantName   string
		wantTicker string
	}{
		{"Binance Will List ExampleToken (EXM)", "ExampleToken", "EXM"},
		{"New Cryptocurrency Listing: FooCoin (FOO)", "FooCoin", "FOO"},
		{"Binance Lists Bar (BAR2)", "Bar", "BAR2"},
		{"Plain Announcement Without Ticker", "Plain Announcement Without Ticker", ""},
		{"Dash Style - Baz (BAZ)", "Dash Style - Baz", "BAZ"},
	}

	for _, tc := range cases {
		name, ticker := ParseTitle(tc.title)
		assert.Equal(t, tc.wantName, name, tc.title)
		assert.Equal(t, tc.wantTicker, ticker, tc.title)
	}
}

func TestContractsNeverDropsSingleAddress(t *testing.T) {
	t.Parallel()

	// Address far from any explorer URL must survive extraction.
	text := strings.Repeat("filler ", 100) + evmAddr + strings.Repeat(" filler", 100)
	got := Contracts(text)

	require.Len(t, got, 1)
	assert.Equal(t, []string{evmAddr}, got[0].Addresses)
}
