// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	iniFileName  = "application.ini"
	prefsSubdir  = "defaults/pref"
	prefsFile    = "channel.js"
	bundleExec   = "apprunner"
	plistContent = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleExecutable</key>
	<string>` + bundleExec + `</string>
	<key>CFBundleIdentifier</key>
	<string>org.example.apprunner</string>
</dict>
</plist>
`
)

// DummyBinary is the content written for fixture executables.
var DummyBinary = []byte{0x7f, 0x45, 0x4c, 0x46}

// CreateDummyAppTree builds an application layout below parentDir:
//
//	<parentDir>/<appName>/<appName>         (executable)
//	<parentDir>/<appName>/application.ini
//	<parentDir>/<appName>/defaults/pref/channel.js
//
// and returns the top level directory.
func CreateDummyAppTree(require *require.Assertions, parentDir string, appName string) string {
	topDir := filepath.Join(parentDir, appName)
	require.NoError(os.MkdirAll(topDir, 0o700))

	require.NoError(os.WriteFile(filepath.Join(topDir, appName), DummyBinary, 0o755)) //nolint:gosec // G306: fixture binary must be executable
	require.NoError(os.WriteFile(filepath.Join(topDir, iniFileName), []byte("[App]\nName="+appName+"\n"), 0o600))

	prefsDir := filepath.Join(topDir, filepath.FromSlash(prefsSubdir))
	require.NoError(os.MkdirAll(prefsDir, 0o700))
	require.NoError(os.WriteFile(filepath.Join(prefsDir, prefsFile), []byte(`pref("app.update.channel", "release");`), 0o600))

	return topDir
}

// CreateZipPackage builds a zip package containing a dummy app tree and
// returns its path.
func CreateZipPackage(t *testing.T, require *require.Assertions, appName string) string {
	sourceDir := t.TempDir()
	topDir := CreateDummyAppTree(require, sourceDir, appName)

	pkg := filepath.Join(t.TempDir(), fmt.Sprintf("%s-1.0.zip", appName))
	CreateZip(require, topDir, pkg)
	return pkg
}

// CreateTarGzPackage builds a tar.gz package containing a dummy app tree
// and returns its path.
func CreateTarGzPackage(t *testing.T, require *require.Assertions, appName string) string {
	sourceDir := t.TempDir()
	topDir := CreateDummyAppTree(require, sourceDir, appName)

	pkg := filepath.Join(t.TempDir(), fmt.Sprintf("%s-1.0.tar.gz", appName))
	CreateTarGz(require, topDir, pkg, true)
	return pkg
}

// CreateTarPackage builds a plain tar package containing a dummy app
// tree and returns its path.
func CreateTarPackage(t *testing.T, require *require.Assertions, appName string) string {
	sourceDir := t.TempDir()
	topDir := CreateDummyAppTree(require, sourceDir, appName)

	pkg := filepath.Join(t.TempDir(), fmt.Sprintf("%s-1.0.tar", appName))
	CreateTar(require, topDir, pkg, true)
	return pkg
}

// CreateMacBundleTree builds a minimal app bundle below parentDir:
//
//	<parentDir>/<appName>.app/Contents/Info.plist
//	<parentDir>/<appName>.app/Contents/MacOS/apprunner
//
// and returns the bundle directory.
func CreateMacBundleTree(require *require.Assertions, parentDir string, appName string) string {
	bundleDir := filepath.Join(parentDir, appName+".app")
	contentsDir := filepath.Join(bundleDir, "Contents")
	macOSDir := filepath.Join(contentsDir, "MacOS")
	require.NoError(os.MkdirAll(macOSDir, 0o700))

	require.NoError(os.WriteFile(filepath.Join(contentsDir, "Info.plist"), []byte(plistContent), 0o600))
	require.NoError(os.WriteFile(filepath.Join(macOSDir, bundleExec), DummyBinary, 0o755)) //nolint:gosec // G306: fixture binary must be executable

	return bundleDir
}
