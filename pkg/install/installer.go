// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/luxfi/appinstall/pkg/application"
	"github.com/luxfi/appinstall/pkg/constants"
	"go.uber.org/zap"
)

const (
	linux   = "linux"
	darwin  = "darwin"
	windows = "windows"
)

// Params describes one install request.
type Params struct {
	// Source is the package file: archive, installer executable or disk image.
	Source string

	// Dest is where the package is installed. Empty means the source's
	// own directory.
	Dest string

	// Apps are the application names to locate after install. Empty
	// falls back to a name derived from the source file name.
	Apps []string

	// OS overrides the platform, for callers that dispatch on behalf of
	// another host. Empty means runtime.GOOS.
	OS string

	// Timeout bounds platform installer and image mount invocations.
	Timeout time.Duration

	// OnEntry is called per extracted archive entry, for progress
	// reporting. May be nil.
	OnEntry func(name string)
}

// Result describes a finished install.
type Result struct {
	Format     Format
	InstallDir string
	// Binary is empty when no executable matching the requested names
	// was found; the install itself still succeeded.
	Binary string
	// Files are the top level entries created below Dest.
	Files []string
}

// Install installs the package at p.Source and locates the application
// binary inside the installed tree. Archives are extracted in-process;
// exe installers and dmg images are handed to the platform.
func Install(app *application.App, p Params) (*Result, error) {
	src, err := filepath.Abs(p.Source)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("invalid source: %w", err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", src, ErrInvalidSource)
	}

	goos := p.OS
	if goos == "" {
		goos = runtime.GOOS
	}
	dest := p.Dest
	if dest == "" {
		dest = filepath.Dir(src)
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = constants.InstallTimeout
	}

	format, err := DetectFormat(src)
	if err != nil {
		return nil, err
	}
	app.Log.Info("installing package",
		zap.String("source", src),
		zap.String("format", format.String()),
		zap.String("dest", dest),
	)

	result := &Result{Format: format}
	switch {
	case format.IsArchive():
		files, err := ExtractArchive(src, dest, format, p.OnEntry)
		if err != nil {
			return nil, fmt.Errorf("failed to install %s: %w", src, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("failed to install %s: archive is empty", src)
		}
		result.Files = files
		result.InstallDir = files[0]
	case format == FormatDMG:
		if goos != darwin {
			return nil, fmt.Errorf("dmg images need darwin, not %s: %w", goos, ErrInvalidSource)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		installDir, err := installDMG(ctx, app, src, dest)
		if err != nil {
			return nil, fmt.Errorf("failed to install %s: %w", src, err)
		}
		result.InstallDir = installDir
		result.Files = []string{installDir}
	case format == FormatExe:
		if goos != windows {
			return nil, fmt.Errorf("exe installers need windows, not %s: %w", goos, ErrInvalidSource)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		installDir, err := installExe(ctx, src, dest)
		if err != nil {
			return nil, fmt.Errorf("failed to install %s: %w", src, err)
		}
		result.InstallDir = installDir
		result.Files = []string{installDir}
	default:
		return nil, fmt.Errorf("%s: %w", src, ErrInvalidSource)
	}

	apps := p.Apps
	if len(apps) == 0 {
		apps = []string{AppNameFromSource(src)}
	}
	binary, err := GetBinary(result.InstallDir, apps, goos)
	switch {
	case err == nil:
		result.Binary = binary
	case errors.Is(err, ErrBinaryNotFound):
		// Matches the contract: the install stands, the locator just
		// came up empty.
		app.Log.Warn("no binary found in installed tree",
			zap.String("installDir", result.InstallDir),
			zap.Strings("apps", apps),
		)
	default:
		return nil, err
	}

	app.Log.Info("install finished",
		zap.String("installDir", result.InstallDir),
		zap.String("binary", result.Binary),
	)
	return result, nil
}
