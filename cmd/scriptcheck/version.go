// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"runtime"

	"github.com/btcvm/btcvm/internal/version"
)

// versionCmd prints the version and exits.
type versionCmd struct{}

var versionCfg = versionCmd{}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *versionCmd) Execute(args []string) error {
	fmt.Printf("scriptcheck version %s (Go version %s %s/%s)\n",
		version.String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
