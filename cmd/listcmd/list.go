// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package listcmd

import (
	"os"

	"github.com/luxfi/appinstall/pkg/application"
	"github.com/luxfi/appinstall/pkg/ux"
	"github.com/spf13/cobra"
)

func NewCmd(app *application.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List managed installs",
		Long: `List managed installs.

Shows every application installed below the managed apps dir, with its
format, install location and install time. Installs done with an
explicit --dest are not tracked and do not show up here.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return runList(app)
		},
	}
}

func runList(app *application.App) error {
	receipts, err := app.LoadAllReceipts()
	if err != nil {
		return err
	}
	if len(receipts) == 0 {
		ux.Logger.PrintToUser("No managed installs found")
		return nil
	}

	table := ux.NewTable(os.Stdout, []string{"Name", "Format", "Installed", "Location"})
	for _, rc := range receipts {
		_ = table.Append([]string{
			rc.Name,
			rc.Format,
			rc.InstalledAt.Format("2006-01-02 15:04"),
			rc.InstallDir,
		})
	}
	return table.Render()
}
