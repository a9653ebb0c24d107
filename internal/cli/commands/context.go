// SPDX-License-Identifier: AGPL-3.0-or-later

/*
partcraft - A Go-based parts lifecycle engine.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.
*/

package commands

import (
	"partcraft/pkg/config"
	"partcraft/pkg/lifecycle"
	"partcraft/pkg/logging"
	"partcraft/pkg/overlay"
	"partcraft/pkg/plugins"
	"partcraft/pkg/project"
)

// buildManager reads the parts file named by flags.Config and constructs
// a lifecycle.Manager rooted at flags.WorkDir. It is the single place
// every subcommand goes from resolved flags to a ready-to-drive Manager.
func buildManager(flags *ResolvedFlags) (*lifecycle.Manager, error) {
	projectSection, rawParts, err := config.LoadRaw(flags.Config)
	if err != nil {
		return nil, err
	}

	appName := projectSection.Name
	if appName == "" {
		appName = "partcraft"
	}

	return lifecycle.New(rawParts, lifecycle.Options{
		Project: project.Options{
			ApplicationName:    appName,
			ProjectName:        projectSection.Name,
			WorkDir:            flags.WorkDir,
			Base:               projectSection.Base,
			Partitions:         projectSection.Partitions,
			ParallelBuildCount: projectSection.ParallelBuildCount,
			StrictMode:         projectSection.StrictMode,
		},
		Plugins:        plugins.DefaultRegistry,
		OverlayEnabled: true,
		OverlayChecker: overlay.HostPlatformChecker{},
	})
}

// newLogger returns a Logger honoring the --verbose flag.
func newLogger(flags *ResolvedFlags) logging.Logger {
	return logging.NewLogger(flags.Verbose)
}
