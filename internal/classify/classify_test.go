package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsListing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want bool
	}{
		{"plain listing", "New Cryptocurrency Listing: Foo", true},
		{"will list mixed case", "Binance WILL LIST Foo (FOO)", true},
		{"launchpool", "Foo Joins Launchpool", true},
		{"alpha availability", "Foo Will Be Available on Binance Alpha", true},
		{"korean listing notice", "Foo(FOO) 상장 안내", true},
		{"korean deposit", "Foo 입금 개시", true},
		{"unrelated", "Scheduled System Maintenance", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsListing(tc.text))
		})
	}
}

func TestIsNoise(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNoise("Fee Adjustment Notice"))
	assert.True(t, IsNoise("Trading Contest: Win Big"))
	assert.True(t, IsNoise("수수료 변경 안내"))
	assert.False(t, IsNoise("Binance Will List Foo (FOO)"))
}

func TestQualifiesNoisePrecedence(t *testing.T) {
	t.Parallel()

	// A listing phrase loses to a noise phrase in the same title.
	assert.False(t, Qualifies("Listing Fee Promotion Update", ""))
	assert.False(t, Qualifies("Will List Campaign for Foo", ""))

	assert.True(t, Qualifies("Foo (FOO) Will List on Binance Alpha", ""))
}

func TestQualifiesBriefFallback(t *testing.T) {
	t.Parallel()

	// Either field matching is enough.
	assert.True(t, Qualifies("Foo Token Announcement", "FOO will be available on Binance Alpha"))
	assert.False(t, Qualifies("Foo Token Announcement", "routine maintenance window"))
}
