// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package installcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luxfi/appinstall/pkg/application"
	"github.com/luxfi/appinstall/pkg/install"
	"github.com/luxfi/appinstall/pkg/status"
	"github.com/luxfi/appinstall/pkg/ux"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	dest     string
	appNames []string
)

func NewCmd(app *application.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <source>",
		Short: "Install an application package",
		Long: `Install an application package.

Accepts zip, tar.gz, tar.bz2, tar, exe (NSIS style, windows only) and
dmg (macOS only) packages. Archives are extracted in-process; platform
installers run silently. Without --dest the package is installed below
the managed apps dir and recorded with a receipt, so it shows up in
'appinstall list' and can be removed with 'appinstall uninstall <name>'.

Prints the path of the located application binary.

Examples:
  appinstall install firefox-91.0.tar.bz2
  appinstall install setup.exe --dest 'C:\apps\firefox' --app firefox`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInstall(app, args[0])
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "d", "", "directory to install into (default: a folder below the managed apps dir)")
	cmd.Flags().StringArrayVar(&appNames, "app", nil, "application name being installed, repeatable (default: derived from the source file name)")

	return cmd
}

func runInstall(app *application.App, source string) error {
	apps := appNames
	if len(apps) == 0 {
		apps = app.DefaultApps()
	}
	name := install.AppNameFromSource(source)
	if len(apps) > 0 {
		name = strings.ToLower(apps[0])
	}

	managed := false
	installDest := dest
	if installDest == "" {
		installDest = filepath.Join(app.GetAppsDir(), name)
		managed = true
	}

	format, err := install.DetectFormat(source)
	if err != nil {
		return err
	}

	// Only extraction reports per-entry progress; exe and dmg installs
	// run as opaque platform tools.
	pt := status.NewProgressTracker(os.Stderr)
	var bar *progressbar.ProgressBar
	var onEntry func(string)
	if format.IsArchive() {
		bar = pt.CreateProgressBar(fmt.Sprintf("extracting %s", filepath.Base(source)), -1)
		onEntry = func(string) {
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}

	result, err := install.Install(app, install.Params{
		Source:  source,
		Dest:    installDest,
		Apps:    apps,
		Timeout: app.InstallTimeout(),
		OnEntry: onEntry,
	})
	pt.FinishProgressBar(bar)
	if err != nil {
		return err
	}

	if managed {
		src, _ := filepath.Abs(source)
		if err := app.CreateReceipt(&application.Receipt{
			Name:        name,
			Source:      src,
			Format:      result.Format.String(),
			InstallDir:  result.InstallDir,
			Binary:      result.Binary,
			InstalledAt: time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("installed, but failed to write receipt: %w", err)
		}
	}

	ux.Logger.GreenCheckmarkToUser("Installed %s", name)
	ux.Logger.PrintToUser("  Format:   %s", result.Format)
	ux.Logger.PrintToUser("  Location: %s", result.InstallDir)
	if result.Binary != "" {
		ux.Logger.PrintToUser("  Binary:   %s", result.Binary)
	} else {
		ux.Logger.PrintToUser("  Binary:   not found (looked for %s)", strings.Join(appsOrDerived(apps, name), ", "))
	}
	return nil
}

func appsOrDerived(apps []string, derived string) []string {
	if len(apps) > 0 {
		return apps
	}
	return []string{derived}
}
