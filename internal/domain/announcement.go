package domain

import "time"

// Announcement is a single candidate entry from the exchange feed.
type Announcement struct {
	ID         string
	Title      string
	Brief      string
	URL        string
	Source     string
	ReleasedAt time.Time
}

// Body holds the raw detail content (HTML or plain text) for one announcement.
type Body struct {
	AnnouncementID string
	Content        string
}

// Chain tags a contract address with the network it was attributed to.
type Chain string

const (
	ChainETH      Chain = "ETH"
	ChainBNB      Chain = "BNB"
	ChainSolana   Chain = "Solana"
	ChainBase     Chain = "Base"
	ChainArbitrum Chain = "Arbitrum"
	ChainPolygon  Chain = "Polygon"
	ChainOptimism Chain = "Optimism"
	ChainTON      Chain = "TON"
	ChainSui      Chain = "Sui"

	// ChainEVM marks a 0x-shaped address seen without explorer context;
	// ChainUnknown marks everything else found as a bare string.
	ChainEVM     Chain = "EVM"
	ChainUnknown Chain = "Unknown"
)

// ChainPriority fixes the presentation order when several chains were
// found: pairs most likely tradeable first.
var ChainPriority = []Chain{
	ChainETH,
	ChainBNB,
	ChainSolana,
	ChainBase,
	ChainArbitrum,
	ChainPolygon,
	ChainOptimism,
	ChainTON,
	ChainSui,
	ChainEVM,
	ChainUnknown,
}

// ChainContracts groups the addresses discovered for one chain,
// in order of first appearance, duplicates collapsed.
type ChainContracts struct {
	Chain     Chain
	Addresses []string
}

// ExtractedRefs is everything the extractor recovered for one announcement.
type ExtractedRefs struct {
	TokenName string
	Ticker    string
	Handles   []string
	Contracts []ChainContracts
}

// CycleReport summarizes one watch cycle for logging and tests.
type CycleReport struct {
	Fetched        int
	Classified     int
	Skipped        int
	Notified       int
	DetailFailures int
	NotifyFailures int
}
