package main

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/autem/derive"
	"github.com/zircuit-labs/autem/params"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"autem", "--verbosity", "0"}, args...))
	return out.String(), err
}

func TestPredict(t *testing.T) {
	owner := common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	beneficiary := common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	out, err := run(t, "predict",
		"--owner", owner.Hex()[2:],
		"--beneficiary", beneficiary.Hex(),
		"--window", "30 days",
		"--name", "Savings",
	)
	require.NoError(t, err)

	want, err := derive.Address(params.DefaultFactoryAddress, crypto.CreateAddress(params.DefaultFactoryAddress, 1), derive.Params{
		Owner:       owner,
		Beneficiary: beneficiary,
		Window:      big.NewInt(30 * 86400),
		Metadata:    contracts.Metadata{Name: "Savings"}.Encode(),
	})
	require.NoError(t, err)
	assert.Contains(t, out, want.Hex())
	assert.Contains(t, out, "2592000 (30d)")
}

func TestPredictInvalidOwner(t *testing.T) {
	_, err := run(t, "predict", "--owner", "0x1234", "--window", "60")
	require.ErrorIs(t, err, contracts.ErrInvalidAddress)
}

func TestWindow(t *testing.T) {
	out, err := run(t, "window", "1", "day", "2h")
	require.NoError(t, err)
	assert.Equal(t, "93600 1d 2h\n", out)

	out, err = run(t, "window", "90")
	require.NoError(t, err)
	assert.Equal(t, "90 1m 30s\n", out)

	_, err = run(t, "window", "soon")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "autem "+params.VersionWithMeta)
}

func TestUnknownLogFormat(t *testing.T) {
	_, err := run(t, "--log.format", "xml", "version")
	require.Error(t, err)
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autem.log")
	t.Cleanup(func() { log.SetDefault(log.NewLogger(log.DiscardHandler())) })

	require.NoError(t, setupLogging(logSettings{verbosity: 3, format: "json", file: path, maxSize: 1}))
	log.Info("Rotated output", "file", "yes")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Rotated output"`)
}

func TestDevnetMissingEnvFile(t *testing.T) {
	_, err := run(t, "devnet", "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}
