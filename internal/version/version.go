// Copyright 2022 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package version implements reading of build version information.
package version

import (
	"fmt"
	"runtime"

	"github.com/zircuit-labs/autem/params"
)

// ClientName creates a software name/version identifier according to common
// conventions, e.g. autem/v1.2.0/amd64.
func ClientName(clientIdentifier string) string {
	return fmt.Sprintf("%s/%v/%v",
		clientIdentifier,
		params.VersionWithMeta,
		runtime.GOARCH,
	)
}

// Info returns the version line and the VCS details of the running binary.
// vcs is empty when no build information was found.
func Info() (version, vcs string) {
	version = fmt.Sprintf("autem %s", params.VersionWithMeta)
	if params.Info.GitDate != 0 {
		vcs = params.Info.Date.Format("2006-01-02")
	}
	return version, vcs
}
