package main

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/autem/derive"
	"github.com/zircuit-labs/autem/core/autem/duration"
	"github.com/zircuit-labs/autem/internal/version"
	"github.com/zircuit-labs/autem/params"
)

var (
	ownerFlag = &cli.StringFlag{
		Name:     "owner",
		Usage:    "Initial owner address",
		Required: true,
	}
	beneficiaryFlag = &cli.StringFlag{
		Name:  "beneficiary",
		Usage: "Beneficiary address",
	}
	windowFlag = &cli.StringFlag{
		Name:     "window",
		Usage:    `Inactivity window, in seconds or as a duration such as "30 days"`,
		Required: true,
	}
	nameFlag = &cli.StringFlag{
		Name:  "name",
		Usage: "Trust name",
	}
	descriptionFlag = &cli.StringFlag{
		Name:  "description",
		Usage: "Trust description",
	}
	factoryFlag = &cli.StringFlag{
		Name:  "factory",
		Usage: "Factory address",
		Value: params.DefaultFactoryAddress.Hex(),
	}
	implementationFlag = &cli.StringFlag{
		Name:  "implementation",
		Usage: "Logic address (default: the first contract the factory deployed)",
	}
)

var predictCommand = &cli.Command{
	Name:      "predict",
	Usage:     "Derive the address of a trust without touching any chain",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		ownerFlag, beneficiaryFlag, windowFlag, nameFlag, descriptionFlag,
		factoryFlag, implementationFlag,
	},
	Action: predict,
}

var windowCommand = &cli.Command{
	Name:      "window",
	Usage:     "Convert a duration to a trust window in seconds",
	ArgsUsage: "<duration>",
	Action:    window,
}

var versionCommand = &cli.Command{
	Name:   "version",
	Usage:  "Print version numbers",
	Action: printVersion,
}

func predict(c *cli.Context) error {
	if c.NArg() != 0 {
		return errors.New("too many arguments")
	}
	owner, err := contracts.ResolveAddress(c.String(ownerFlag.Name))
	if err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	var beneficiary common.Address
	if s := c.String(beneficiaryFlag.Name); s != "" {
		if beneficiary, err = contracts.ResolveAddress(s); err != nil {
			return fmt.Errorf("beneficiary: %w", err)
		}
	}
	factory, err := contracts.ResolveAddress(c.String(factoryFlag.Name))
	if err != nil {
		return fmt.Errorf("factory: %w", err)
	}
	implementation := crypto.CreateAddress(factory, 1)
	if s := c.String(implementationFlag.Name); s != "" {
		if implementation, err = contracts.ResolveAddress(s); err != nil {
			return fmt.Errorf("implementation: %w", err)
		}
	}
	seconds, err := parseWindow(c.String(windowFlag.Name))
	if err != nil {
		return err
	}

	p := derive.Params{
		Owner:       owner,
		Beneficiary: beneficiary,
		Window:      seconds,
		Metadata:    contracts.Metadata{Name: c.String(nameFlag.Name), Description: c.String(descriptionFlag.Name)}.Encode(),
	}
	salt, err := derive.Salt(p)
	if err != nil {
		return err
	}
	addr, err := derive.Address(factory, implementation, p)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(c.App.Writer)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"Address", addr.Hex()},
		{"Salt", salt.Hex()},
		{"Factory", factory.Hex()},
		{"Implementation", implementation.Hex()},
		{"Init code hash", derive.ProxyInitCodeHash(implementation).Hex()},
		{"Window", fmt.Sprintf("%s (%s)", seconds, duration.FormatWindow(seconds))},
	})
	table.Render()
	return nil
}

// parseWindow accepts plain seconds as well as human durations.
func parseWindow(s string) (*big.Int, error) {
	if seconds, ok := new(big.Int).SetString(strings.TrimSpace(s), 10); ok {
		if seconds.Sign() < 0 {
			return nil, fmt.Errorf("%w: %q", duration.ErrNegativeDuration, s)
		}
		return seconds, nil
	}
	return duration.ParseWindow(s)
}

func window(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("missing duration")
	}
	seconds, err := parseWindow(strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, seconds, duration.FormatWindow(seconds))
	return nil
}

func printVersion(c *cli.Context) error {
	v, vcs := version.Info()
	fmt.Fprintln(c.App.Writer, v)
	if vcs != "" {
		fmt.Fprintln(c.App.Writer, "Git Date:", vcs)
	}
	fmt.Fprintln(c.App.Writer, "Client:", version.ClientName("autem"))
	return nil
}
