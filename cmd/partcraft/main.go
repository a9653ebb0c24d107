// SPDX-License-Identifier: AGPL-3.0-or-later

/*

partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package main

import (
	"fmt"
	"os"

	"partcraft/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// We deliberately avoid printing Cobra's default error twice
		// and centralize exit code handling here.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
