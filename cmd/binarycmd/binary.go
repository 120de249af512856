// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package binarycmd

import (
	"fmt"
	"path/filepath"

	"github.com/luxfi/appinstall/pkg/application"
	"github.com/luxfi/appinstall/pkg/install"
	"github.com/luxfi/appinstall/pkg/ux"
	"github.com/spf13/cobra"
)

var appNames []string

func NewCmd(app *application.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "binary <dir>",
		Short: "Locate the binary inside an installed tree",
		Long: `Locate the binary inside an installed tree.

Searches an already installed application directory for the executable
entry point and prints its path. On macOS the app bundle's Info.plist
decides; elsewhere the tree is walked for a name match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBinary(app, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&appNames, "app", nil, "application name to look for, repeatable (default: the directory's base name)")

	return cmd
}

func runBinary(app *application.App, dir string) error {
	apps := appNames
	if len(apps) == 0 {
		apps = app.DefaultApps()
	}
	if len(apps) == 0 {
		apps = []string{install.AppNameFromSource(filepath.Base(dir))}
	}

	binary, err := install.GetBinary(dir, apps, "")
	if err != nil {
		return fmt.Errorf("failed to locate binary: %w", err)
	}
	ux.Logger.PrintToUser("%s", binary)
	return nil
}
