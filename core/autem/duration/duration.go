// Package duration holds the duration types of Autem: a text codec for
// configuration files and the parser for human written trust windows.
package duration

import (
	"time"
)

// Duration is a time.Duration that config decoders read from strings such
// as "5s" or "1h30m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(data []byte) error {
	duration, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
