package ethapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zircuit-labs/autem/core/autem/derive"
	"github.com/zircuit-labs/autem/core/autem/duration"
)

func TestWindowUnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  int64
	}{
		{`60`, 60},
		{`"60"`, 60},
		{`"0x3c"`, 60},
		{`"1 day"`, 86400},
		{`"1.5h"`, 5400},
		{`"2 weeks"`, 14 * 86400},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			var w Window
			require.NoError(t, json.Unmarshal([]byte(tt.input), &w))
			assert.Equal(t, tt.want, w.Int64())
		})
	}

	var w Window
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &w))
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &w))
	assert.Error(t, json.Unmarshal([]byte(`true`), &w))
	assert.ErrorIs(t, json.Unmarshal([]byte(`"1e300 years"`), &w), duration.ErrDurationRange)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"1e300 years -1e300 years"`), &w), duration.ErrDurationRange)
}

func TestWindowMarshalJSON(t *testing.T) {
	t.Parallel()

	var w Window
	require.NoError(t, json.Unmarshal([]byte(`"1 day"`), &w))
	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Equal(t, `"86400"`, string(out))
}

func TestCreateArgsParams(t *testing.T) {
	t.Parallel()

	var args CreateArgs
	require.NoError(t, json.Unmarshal([]byte(`{"owner":"0x00000000000000000000000000000000000a11ce","beneficiary":"0x0000000000000000000000000000000000000b0b","window":"1d","name":"Savings"}`), &args))
	p, err := args.Params()
	require.NoError(t, err)
	assert.Equal(t, alice, p.Owner)
	assert.Equal(t, bob, p.Beneficiary)
	assert.Equal(t, int64(86400), p.Window.Int64())
	assert.Equal(t, `["Savings"]`, p.Metadata)

	raw := "free text"
	args.Metadata = &raw
	p, err = args.Params()
	require.NoError(t, err)
	assert.Equal(t, raw, p.Metadata)

	args.Window = nil
	_, err = args.Params()
	assert.ErrorIs(t, err, ErrMissingWindow)
}

func TestCreateArgsParamsNegativeWindow(t *testing.T) {
	t.Parallel()

	var args CreateArgs
	require.NoError(t, json.Unmarshal([]byte(`{"owner":"0x00000000000000000000000000000000000a11ce","window":-5}`), &args))
	_, err := args.Params()
	assert.ErrorIs(t, err, derive.ErrNegativeWindow)
}
