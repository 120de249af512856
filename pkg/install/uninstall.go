// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package install

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/luxfi/appinstall/pkg/application"
	"github.com/luxfi/appinstall/pkg/constants"
	"go.uber.org/zap"
)

// ErrNotInstalled is returned when the install dir to remove does not exist.
var ErrNotInstalled = errors.New("install directory does not exist")

// UninstallParams describes one uninstall request.
type UninstallParams struct {
	// Dir is the install directory to remove.
	Dir string

	// Apps are the application names used to locate the binary for the
	// running-process guard. Empty skips the guard.
	Apps []string

	// OS overrides the platform. Empty means runtime.GOOS.
	OS string

	// Force removes the tree even when its binary appears to be running.
	Force bool

	// Timeout bounds the native uninstaller invocation.
	Timeout time.Duration
}

// Uninstall removes an installed application. On windows a native
// uninstall helper inside the tree runs first; whatever it leaves behind
// (and the tree on every other platform) is removed recursively.
func Uninstall(app *application.App, p UninstallParams) error {
	dir, err := filepath.Abs(p.Dir)
	if err != nil {
		return err
	}
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", dir, ErrNotInstalled)
		}
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	goos := p.OS
	if goos == "" {
		goos = runtime.GOOS
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = constants.UninstallTimeout
	}

	if !p.Force && len(p.Apps) > 0 {
		if err := guardRunning(dir, p.Apps, goos); err != nil {
			return err
		}
	}

	if goos == windows {
		if helper := findUninstallHelper(dir); helper != "" {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			app.Log.Info("running native uninstaller", zap.String("helper", helper))
			cmd := exec.CommandContext(ctx, helper, constants.SilentFlag) //nolint:gosec // G204: helper found below install dir
			if out, err := cmd.CombinedOutput(); err != nil {
				// The helper already removed an unknown subset of the
				// tree; keep going and sweep up the rest.
				app.Log.Warn("native uninstaller failed",
					zap.Error(err),
					zap.String("output", string(out)),
				)
			}
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	app.Log.Info("uninstalled", zap.String("installDir", dir))
	return nil
}

// guardRunning refuses removal while the application's binary has a live
// process.
func guardRunning(dir string, apps []string, goos string) error {
	binary, err := GetBinary(dir, apps, goos)
	if err != nil {
		// No binary, nothing to guard.
		return nil //nolint:nilerr // locator misses are not uninstall failures
	}
	running, err := IsBinaryRunning(binary)
	if err != nil {
		return err
	}
	if running {
		return fmt.Errorf("%s is still running, close it or pass force", binary)
	}
	return nil
}

// findUninstallHelper returns the path of a native uninstall helper
// below dir, or empty when there is none.
func findUninstallHelper(dir string) string {
	var helper string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != constants.UninstallHelperName {
			return nil
		}
		if filepath.Base(filepath.Dir(path)) == constants.UninstallHelperDir {
			helper = path
			return filepath.SkipAll
		}
		return nil
	})
	return helper
}
