package duration

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrNoDuration       = errors.New("no duration found")
	ErrNegativeDuration = errors.New("duration is negative")
	ErrDurationRange    = errors.New("duration out of range")
)

var (
	termPattern  = regexp.MustCompile(`(?i)(-?(?:\d+\.?\d*|\d*\.?\d+)(?:e[-+]?\d+)?)\s*([a-zµμ]*)`)
	digitsCommas = regexp.MustCompile(`(\d),(\d)`)
)

// Unit lengths in milliseconds. Aliases cover the spellings users type in
// English, Spanish, Portuguese, French and German.
var units = func() map[string]float64 {
	const (
		ms     = 1.0
		sec    = 1000 * ms
		minute = 60 * sec
		hour   = 60 * minute
		day    = 24 * hour
		week   = 7 * day
		month  = day * 365 / 12
		year   = 365 * day
	)
	table := map[float64][]string{
		1.0 / 1e6: {"nanosecond", "ns"},
		1.0 / 1e3: {"µs", "μs", "us", "microsecond"},
		ms:        {"millisekunde", "milliseconde", "milisegundo", "millisecond", "ms"},
		sec:       {"zweite", "deuxieme", "seconde", "segundo", "second", "sec", "s"},
		minute:    {"minuto", "minute", "min", "m"},
		hour:      {"zeit", "temps", "hora", "hour", "hr", "h"},
		day:       {"tag", "jour", "dia", "day", "d"},
		week:      {"woche", "semaine", "semana", "week", "wk", "w"},
		month:     {"monat", "mois", "mes", "meses", "month", "b"},
		year:      {"jahr", "an", "ano", "year", "yr", "y"},
	}
	out := make(map[string]float64)
	for length, names := range table {
		for _, name := range names {
			out[name] = length
		}
	}
	return out
}()

func unitLength(name string) (float64, bool) {
	if length, ok := units[name]; ok {
		return length, true
	}
	length, ok := units[strings.TrimSuffix(strings.ToLower(name), "s")]
	return length, ok
}

// ParseMillis sums every "<number> <unit>" term of s, in milliseconds.
// Terms with an unknown or missing unit are ignored; commas between digits
// are thousands separators.
func ParseMillis(s string) (float64, error) {
	s = digitsCommas.ReplaceAllString(s, "$1$2")
	var (
		total float64
		found bool
	)
	for _, m := range termPattern.FindAllStringSubmatch(s, -1) {
		length, ok := unitLength(m[2])
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q", ErrDurationRange, m[0])
		}
		if err != nil {
			return 0, fmt.Errorf("parsing %q: %w", m[1], err)
		}
		term := n * length
		if math.IsInf(term, 0) || math.IsNaN(term) {
			return 0, fmt.Errorf("%w: %q", ErrDurationRange, m[0])
		}
		total += term
		found = true
	}
	if !found {
		return 0, fmt.Errorf("%w in %q", ErrNoDuration, s)
	}
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return 0, fmt.Errorf("%w: %q", ErrDurationRange, s)
	}
	return total, nil
}

// ParseWindow parses a human duration such as "1 day 2h" or "1.5 semanas"
// into whole seconds, the unit trust windows are stored in.
func ParseWindow(s string) (*big.Int, error) {
	millis, err := ParseMillis(s)
	if err != nil {
		return nil, err
	}
	if millis < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNegativeDuration, s)
	}
	seconds, _ := new(big.Float).SetFloat64(math.Floor(millis / 1000)).Int(nil)
	return seconds, nil
}

// FormatWindow renders a window in seconds as "1y 2d 3h 4m 5s", leaving out
// zero components.
func FormatWindow(seconds *big.Int) string {
	if seconds == nil || seconds.Sign() == 0 {
		return "0s"
	}
	steps := []struct {
		suffix string
		length int64
	}{
		{"y", 365 * 86400},
		{"d", 86400},
		{"h", 3600},
		{"m", 60},
		{"s", 1},
	}
	rest := new(big.Int).Set(seconds)
	var parts []string
	for _, step := range steps {
		n, r := new(big.Int).QuoRem(rest, big.NewInt(step.length), new(big.Int))
		if n.Sign() != 0 {
			parts = append(parts, n.String()+step.suffix)
		}
		rest = r
	}
	return strings.Join(parts, " ")
}
