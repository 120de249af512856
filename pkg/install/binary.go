// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package install

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"howett.net/plist"
)

// ErrBinaryNotFound is returned when no executable matching the given
// application names exists below an install dir.
var ErrBinaryNotFound = errors.New("binary not found")

const (
	bundleContentsDir = "Contents"
	bundleInfoPlist   = "Info.plist"
	bundleMacOSDir    = "MacOS"

	windowsExeSuffix = ".exe"
)

// GetBinary locates the executable entry point of an installed
// application. On darwin an app bundle resolves through Info.plist; on
// windows names gain an .exe suffix; otherwise the tree is walked for an
// exact name match. goos may be empty, defaulting to runtime.GOOS.
func GetBinary(dir string, apps []string, goos string) (string, error) {
	if goos == "" {
		goos = runtime.GOOS
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	if goos == darwin {
		plistPath := filepath.Join(dir, bundleContentsDir, bundleInfoPlist)
		if _, err := os.Stat(plistPath); err == nil {
			return binaryFromBundle(dir, plistPath)
		}
		// Not a bundle root, fall through to the tree walk.
	}

	names := make([]string, len(apps))
	for i, app := range apps {
		if goos == windows && !strings.HasSuffix(strings.ToLower(app), windowsExeSuffix) {
			app += windowsExeSuffix
		}
		names[i] = app
	}

	var found string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, name := range names {
			if d.Name() == name {
				found = path
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("%w in %s (looked for %s)", ErrBinaryNotFound, dir, strings.Join(names, ", "))
	}
	return filepath.Abs(found)
}

// binaryFromBundle resolves the executable of a mac app bundle through
// its CFBundleExecutable key.
func binaryFromBundle(dir string, plistPath string) (string, error) {
	f, err := os.Open(plistPath) //nolint:gosec // G304: path derived from install dir
	if err != nil {
		return "", err
	}
	defer f.Close()

	var info struct {
		CFBundleExecutable string `plist:"CFBundleExecutable"`
	}
	if err := plist.NewDecoder(f).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", plistPath, err)
	}
	if info.CFBundleExecutable == "" {
		return "", fmt.Errorf("%s has no CFBundleExecutable: %w", plistPath, ErrBinaryNotFound)
	}
	return filepath.Join(dir, bundleContentsDir, bundleMacOSDir, info.CFBundleExecutable), nil
}

// AppNameFromSource derives an application name from a package file
// name, e.g. "firefox-91.0.tar.bz2" yields "firefox".
func AppNameFromSource(src string) string {
	name := filepath.Base(src)
	for _, suffix := range []string{".tar.gz", ".tgz", ".tar.bz2", ".tbz2", ".tar", ".zip", ".exe", ".dmg"} {
		if strings.HasSuffix(strings.ToLower(name), suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}
	if idx := strings.IndexAny(name, "-_ "); idx > 0 {
		name = name[:idx]
	}
	return strings.ToLower(name)
}
