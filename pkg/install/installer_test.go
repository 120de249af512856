// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luxfi/appinstall/internal/testutils"
)

func TestInstallZip(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)

	pkg := testutils.CreateZipPackage(t, require, "firefox")
	dest := filepath.Join(t.TempDir(), "installed")

	result, err := Install(app, Params{Source: pkg, Dest: dest})
	require.NoError(err)
	require.Equal(FormatZip, result.Format)
	require.Equal(filepath.Join(dest, "firefox"), result.InstallDir)
	require.Equal([]string{result.InstallDir}, result.Files)
	// App names default to the name derived from the package file.
	require.Equal(filepath.Join(result.InstallDir, "firefox"), result.Binary)
	checkExtractedApp(require, result.InstallDir, "firefox")
}

func TestInstallTarGzDefaultDest(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)

	pkg := testutils.CreateTarGzPackage(t, require, "thunderbird")

	// Without a dest the package installs next to itself.
	result, err := Install(app, Params{Source: pkg})
	require.NoError(err)
	require.Equal(filepath.Join(filepath.Dir(pkg), "thunderbird"), result.InstallDir)
	checkExtractedApp(require, result.InstallDir, "thunderbird")
}

func TestInstallExplicitApps(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)

	// Package name and binary name disagree; --app carries the day.
	pkg := testutils.CreateZipPackage(t, require, "fennec")
	dest := t.TempDir()

	result, err := Install(app, Params{Source: pkg, Dest: dest, Apps: []string{"fennec"}})
	require.NoError(err)
	require.Equal(filepath.Join(dest, "fennec", "fennec"), result.Binary)
}

func TestInstallBinaryMissingIsNotFatal(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)

	pkg := testutils.CreateZipPackage(t, require, "firefox")
	dest := t.TempDir()

	result, err := Install(app, Params{Source: pkg, Dest: dest, Apps: []string{"no-such-app"}})
	require.NoError(err)
	require.Empty(result.Binary)
	require.Equal(filepath.Join(dest, "firefox"), result.InstallDir)
}

func TestInstallInvalidSource(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(os.WriteFile(path, []byte("just text"), 0o600))

	_, err := Install(app, Params{Source: path})
	require.ErrorIs(err, ErrInvalidSource)

	// Directories are not installable sources.
	_, err = Install(app, Params{Source: t.TempDir()})
	require.ErrorIs(err, ErrInvalidSource)

	_, err = Install(app, Params{Source: filepath.Join(t.TempDir(), "missing.zip")})
	require.Error(err)
}

func TestInstallPlatformMismatch(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)

	dmg := filepath.Join(t.TempDir(), "app.dmg")
	require.NoError(os.WriteFile(dmg, []byte("image"), 0o600))
	_, err := Install(app, Params{Source: dmg, OS: "linux"})
	require.ErrorIs(err, ErrInvalidSource)
	require.ErrorContains(err, "darwin")

	exe := filepath.Join(t.TempDir(), "setup.exe")
	require.NoError(os.WriteFile(exe, []byte{0x4d, 0x5a, 0x90, 0x00}, 0o600))
	_, err = Install(app, Params{Source: exe, OS: "linux"})
	require.ErrorIs(err, ErrInvalidSource)
	require.ErrorContains(err, "windows")
}
