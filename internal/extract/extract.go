// Package extract recovers structured facts (contract addresses per
// chain, social handles, token name/ticker) from announcement text.
// All functions are pure and deterministic: identical input yields
// identical output, including ordering.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"AlphaWatcher/internal/domain"
)

const (
	maxHandles           = 3
	maxExplorerContracts = 8
	maxBareContracts     = 5
)

var (
	evmAddrRe = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)

	// Base58 runs in the Solana address range. Deliberately loose:
	// this also matches unrelated hashes, and narrowing the pattern
	// would start dropping real addresses instead.
	base58Re = regexp.MustCompile(`[1-9A-HJ-NP-Za-km-z]{32,44}`)

	socialLinkRe = regexp.MustCompile(`https?://(?:www\.)?(?:twitter\.com|x\.com)/[^\s"'<>)]+`)

	tickerRe      = regexp.MustCompile(`\(([A-Z0-9]{2,10})\)`)
	titlePrefixRe = regexp.MustCompile(`(?i)^(?:Binance\s+Will\s+List|Binance\s+Lists|New\s+Cryptocurrency\s+Listing:?)\s+`)
)

// explorerPatterns attribute a chain to addresses linked through known
// block-explorer URLs. Order matters only for determinism; the chain
// tag comes from the matched domain, never from the address bytes.
var explorerPatterns = []struct {
	chain domain.Chain
	re    *regexp.Regexp
}{
	{domain.ChainOptimism, regexp.MustCompile(`https?://(?:www\.)?optimistic\.etherscan\.io/(?:token|address)/([0-9a-zA-Z]{10,})`)},
	{domain.ChainETH, regexp.MustCompile(`https?://(?:www\.)?etherscan\.io/(?:token|address)/([0-9a-zA-Z]{10,})`)},
	{domain.ChainBNB, regexp.MustCompile(`https?://(?:www\.)?bscscan\.com/(?:token|address)/([0-9a-zA-Z]{10,})`)},
	{domain.ChainBase, regexp.MustCompile(`https?://(?:www\.)?basescan\.org/(?:token|address)/([0-9a-zA-Z]{10,})`)},
	{domain.ChainArbitrum, regexp.MustCompile(`https?://(?:www\.)?arbiscan\.io/(?:token|address)/([0-9a-zA-Z]{10,})`)},
	{domain.ChainPolygon, regexp.MustCompile(`https?://(?:www\.)?polygonscan\.com/(?:token|address)/([0-9a-zA-Z]{10,})`)},
	{domain.ChainSolana, regexp.MustCompile(`https?://(?:www\.)?solscan\.io/token/([1-9A-HJ-NP-Za-km-z]{32,44})`)},
	{domain.ChainTON, regexp.MustCompile(`https?://(?:www\.)?tonviewer\.com/([0-9A-Za-z_-]{20,})`)},
	{domain.ChainTON, regexp.MustCompile(`https?://(?:www\.)?tonscan\.org/(?:token|address)/([0-9A-Za-z_-]{20,})`)},
	{domain.ChainSui, regexp.MustCompile(`https?://(?:www\.)?suiscan\.xyz/(?:token|object)/(0x?[0-9a-f]{32,})`)},
	{domain.ChainSui, regexp.MustCompile(`https?://(?:www\.)?explorer\.sui\.io/object/(0x?[0-9a-f]{32,})`)},
}

// Extract runs the full extraction over an announcement title and its
// raw body content (HTML or plain text).
func Extract(title, content string) domain.ExtractedRefs {
	name, ticker := ParseTitle(title)
	return domain.ExtractedRefs{
		TokenName: name,
		Ticker:    ticker,
		Handles:   Handles(content),
		Contracts: Contracts(content),
	}
}

type taggedMatch struct {
	chain domain.Chain
	addr  string
	pos   int
}

// Contracts finds contract addresses in text and tags each with a
// chain. Explorer-link context wins; addresses seen only as bare
// strings fall back to "EVM" (0x shape) or "Unknown" (base58 shape).
func Contracts(text string) []domain.ChainContracts {
	var tagged []taggedMatch
	linked := map[string]struct{}{}

	explorers := 0
	for _, pat := range explorerPatterns {
		for _, m := range pat.re.FindAllStringSubmatchIndex(text, -1) {
			addr := text[m[2]:m[3]]
			linked[addr] = struct{}{}
			if explorers >= maxExplorerContracts {
				continue
			}
			explorers++
			tagged = append(tagged, taggedMatch{chain: pat.chain, addr: addr, pos: m[0]})
		}
	}

	evmSpans := evmAddrRe.FindAllStringIndex(text, -1)
	bareEVM := 0
	for _, span := range evmSpans {
		addr := text[span[0]:span[1]]
		if _, ok := linked[addr]; ok {
			continue
		}
		if bareEVM >= maxBareContracts {
			break
		}
		bareEVM++
		tagged = append(tagged, taggedMatch{chain: domain.ChainEVM, addr: addr, pos: span[0]})
	}

	bare58 := 0
	for _, span := range base58Re.FindAllStringIndex(text, -1) {
		if overlaps(span, evmSpans) {
			continue
		}
		addr := text[span[0]:span[1]]
		if _, ok := linked[addr]; ok {
			continue
		}
		if bare58 >= maxBareContracts {
			break
		}
		bare58++
		tagged = append(tagged, taggedMatch{chain: domain.ChainUnknown, addr: addr, pos: span[0]})
	}

	// First-seen order within each chain, duplicates collapsed.
	sort.SliceStable(tagged, func(i, j int) bool { return tagged[i].pos < tagged[j].pos })

	byChain := map[domain.Chain][]string{}
	seen := map[domain.Chain]map[string]struct{}{}
	for _, tm := range tagged {
		if seen[tm.chain] == nil {
			seen[tm.chain] = map[string]struct{}{}
		}
		if _, ok := seen[tm.chain][tm.addr]; ok {
			continue
		}
		seen[tm.chain][tm.addr] = struct{}{}
		byChain[tm.chain] = append(byChain[tm.chain], tm.addr)
	}

	var out []domain.ChainContracts
	for _, chain := range domain.ChainPriority {
		if addrs := byChain[chain]; len(addrs) > 0 {
			out = append(out, domain.ChainContracts{Chain: chain, Addresses: addrs})
		}
	}
	return out
}

func overlaps(span []int, spans [][]int) bool {
	for _, s := range spans {
		if span[0] < s[1] && s[0] < span[1] {
			return true
		}
	}
	return false
}

// Handles collects social links from anchors and bare URLs, deduped,
// lexicographically sorted and capped for display.
func Handles(content string) []string {
	set := map[string]struct{}{}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if isSocialLink(href) {
				set[href] = struct{}{}
			}
		})
	}

	for _, u := range socialLinkRe.FindAllString(content, -1) {
		if isSocialLink(u) {
			set[u] = struct{}{}
		}
	}

	handles := make([]string, 0, len(set))
	for h := range set {
		handles = append(handles, h)
	}
	sort.Strings(handles)

	if len(handles) > maxHandles {
		handles = handles[:maxHandles]
	}
	return handles
}

func isSocialLink(href string) bool {
	if href == "" || strings.Contains(href, "intent/tweet") {
		return false
	}
	return strings.Contains(href, "twitter.com/") || strings.Contains(href, "x.com/")
}

// ParseTitle pulls token name and ticker out of titles shaped like
// "Binance Will List ExampleToken (EXM)". Without a parenthesized
// ticker the whole title is kept as the name and the ticker stays empty.
func ParseTitle(title string) (name, ticker string) {
	m := tickerRe.FindStringSubmatchIndex(title)
	if m == nil {
		return strings.TrimSpace(title), ""
	}

	ticker = title[m[2]:m[3]]
	before := strings.TrimSpace(title[:m[0]])
	before = titlePrefixRe.ReplaceAllString(before, "")
	name = strings.Trim(before, " -:|")
	if name == "" {
		name = strings.TrimSpace(title)
	}
	return name, ticker
}
