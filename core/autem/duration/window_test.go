package duration

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int64
	}{
		{in: "1 day", want: 86400},
		{in: "1d", want: 86400},
		{in: "2 Days", want: 2 * 86400},
		{in: "1 day 2h 30m", want: 86400 + 2*3600 + 30*60},
		{in: "1.5 weeks", want: 907200},
		{in: "90 seconds", want: 90},
		{in: "3 semanas", want: 3 * 7 * 86400},
		{in: "2 tag", want: 2 * 86400},
		{in: "1 jour", want: 86400},
		{in: "1 year", want: 365 * 86400},
		{in: "1 month", want: 2628000},
		{in: "1,000 ms", want: 1},
		{in: "1500ms", want: 1},
		{in: "1e3 s", want: 1000},
		{in: "10 minutos y 5 s", want: 605},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseWindow(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Int64())
		})
	}
}

func TestParseWindowErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseWindow("")
	assert.ErrorIs(t, err, ErrNoDuration)
	_, err = ParseWindow("100")
	assert.ErrorIs(t, err, ErrNoDuration)
	_, err = ParseWindow("soon")
	assert.ErrorIs(t, err, ErrNoDuration)
	_, err = ParseWindow("-1 day")
	assert.ErrorIs(t, err, ErrNegativeDuration)
}

func TestParseWindowNonFinite(t *testing.T) {
	t.Parallel()

	tests := []string{
		"1e300 years",
		"1e300 years -1e300 years",
		"1e308 years 1e308 years",
		"1e400 ms",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			require.NotPanics(t, func() {
				got, err := ParseWindow(input)
				assert.ErrorIs(t, err, ErrDurationRange)
				assert.Nil(t, got)
			})
		})
	}
}

func TestFormatWindow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0s", FormatWindow(nil))
	assert.Equal(t, "0s", FormatWindow(big.NewInt(0)))
	assert.Equal(t, "1d", FormatWindow(big.NewInt(86400)))
	assert.Equal(t, "1d 2h 30m", FormatWindow(big.NewInt(86400+2*3600+30*60)))
	assert.Equal(t, "1y 1s", FormatWindow(big.NewInt(365*86400+1)))
}

func TestDurationText(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1h30m")))
	assert.Equal(t, "1h30m0s", d.Std().String())

	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1h30m0s", string(out))

	assert.Error(t, d.UnmarshalText([]byte("ninety")))
}
