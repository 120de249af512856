// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package uninstallcmd

import (
	"github.com/luxfi/appinstall/pkg/application"
	"github.com/luxfi/appinstall/pkg/install"
	"github.com/luxfi/appinstall/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	force    bool
	appNames []string
)

func NewCmd(app *application.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall <name-or-dir>",
		Short: "Remove an installed application",
		Long: `Remove an installed application.

The argument is either the name of a managed install (as shown by
'appinstall list') or the path of an install directory. On windows a
native uninstall helper inside the tree runs first; everything left
behind is removed recursively. Removal is refused while the
application's binary is running, unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runUninstall(app, args[0])
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "remove even if the application appears to be running")
	cmd.Flags().StringArrayVar(&appNames, "app", nil, "application name, used to find the binary for the running-process check")

	return cmd
}

func runUninstall(app *application.App, target string) error {
	dir := target
	apps := appNames
	receiptName := ""

	if app.ReceiptExists(target) {
		rc, err := app.LoadReceipt(target)
		if err != nil {
			return err
		}
		dir = rc.InstallDir
		receiptName = rc.Name
		if len(apps) == 0 {
			apps = []string{rc.Name}
		}
	} else if rc, ok := app.FindReceiptByDir(dir); ok {
		receiptName = rc.Name
	}
	if len(apps) == 0 {
		apps = app.DefaultApps()
	}

	if err := install.Uninstall(app, install.UninstallParams{
		Dir:   dir,
		Apps:  apps,
		Force: force,
	}); err != nil {
		return err
	}

	if receiptName != "" {
		if err := app.RemoveReceipt(receiptName); err != nil {
			return err
		}
	}

	ux.Logger.GreenCheckmarkToUser("Uninstalled %s", target)
	return nil
}
