// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package install

import (
	"archive/tar"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/luxfi/appinstall/internal/testutils"
	"github.com/stretchr/testify/require"
)

func checkExtractedApp(require *require.Assertions, topDir string, appName string) {
	require.DirExists(topDir)
	require.FileExists(filepath.Join(topDir, appName))
	require.FileExists(filepath.Join(topDir, "application.ini"))
	require.FileExists(filepath.Join(topDir, "defaults", "pref", "channel.js"))

	content, err := os.ReadFile(filepath.Join(topDir, appName))
	require.NoError(err)
	require.Equal(testutils.DummyBinary, content)
}

func TestExtractArchiveZip(t *testing.T) {
	require := testutils.SetupTest(t)

	pkg := testutils.CreateZipPackage(t, require, "firefox")
	dest := t.TempDir()

	var entries []string
	files, err := ExtractArchive(pkg, dest, FormatZip, func(name string) {
		entries = append(entries, name)
	})
	require.NoError(err)
	require.Equal([]string{filepath.Join(dest, "firefox")}, files)
	require.NotEmpty(entries)
	checkExtractedApp(require, files[0], "firefox")

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(filepath.Join(files[0], "firefox"))
		require.NoError(err)
		require.NotZero(fi.Mode().Perm() & 0o100)
	}
}

func TestExtractArchiveTarGz(t *testing.T) {
	require := testutils.SetupTest(t)

	pkg := testutils.CreateTarGzPackage(t, require, "thunderbird")
	dest := t.TempDir()

	files, err := ExtractArchive(pkg, dest, FormatTarGz, nil)
	require.NoError(err)
	require.Equal([]string{filepath.Join(dest, "thunderbird")}, files)
	checkExtractedApp(require, files[0], "thunderbird")
}

func TestExtractArchivePlainTar(t *testing.T) {
	require := testutils.SetupTest(t)

	pkg := testutils.CreateTarPackage(t, require, "fennec")
	dest := t.TempDir()

	files, err := ExtractArchive(pkg, dest, FormatTar, nil)
	require.NoError(err)
	require.Equal([]string{filepath.Join(dest, "fennec")}, files)
	checkExtractedApp(require, files[0], "fennec")
}

func TestExtractArchiveTopLevelOrder(t *testing.T) {
	require := testutils.SetupTest(t)

	// The install dir is defined as the first top level entry, so archive
	// order has to survive extraction.
	pkg := filepath.Join(t.TempDir(), "multi.tar")
	f, err := os.Create(pkg)
	require.NoError(err)
	tw := tar.NewWriter(f)
	for _, entry := range []string{"zeta/", "zeta/file", "alpha/", "alpha/file"} {
		if entry[len(entry)-1] == '/' {
			require.NoError(tw.WriteHeader(&tar.Header{Name: entry, Typeflag: tar.TypeDir, Mode: 0o755}))
			continue
		}
		require.NoError(tw.WriteHeader(&tar.Header{Name: entry, Typeflag: tar.TypeReg, Mode: 0o644, Size: 2}))
		_, err = tw.Write([]byte("ok"))
		require.NoError(err)
	}
	require.NoError(tw.Close())
	require.NoError(f.Close())

	dest := t.TempDir()
	files, err := ExtractArchive(pkg, dest, FormatTar, nil)
	require.NoError(err)
	require.Equal([]string{
		filepath.Join(dest, "zeta"),
		filepath.Join(dest, "alpha"),
	}, files)
}

func TestExtractArchiveRejectsEscapingPaths(t *testing.T) {
	require := testutils.SetupTest(t)

	pkg := filepath.Join(t.TempDir(), "evil.tar")
	f, err := os.Create(pkg)
	require.NoError(err)
	tw := tar.NewWriter(f)
	require.NoError(tw.WriteHeader(&tar.Header{Name: "../evil.txt", Typeflag: tar.TypeReg, Mode: 0o644, Size: 4}))
	_, err = tw.Write([]byte("evil"))
	require.NoError(err)
	require.NoError(tw.Close())
	require.NoError(f.Close())

	dest := filepath.Join(t.TempDir(), "dest")
	_, err = ExtractArchive(pkg, dest, FormatTar, nil)
	require.ErrorContains(err, "invalid file path in archive")
	require.NoFileExists(filepath.Join(filepath.Dir(dest), "evil.txt"))
}

func TestExtractArchiveSymlinks(t *testing.T) {
	require := testutils.SetupTest(t)
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	pkg := filepath.Join(t.TempDir(), "linked.tar")
	f, err := os.Create(pkg)
	require.NoError(err)
	tw := tar.NewWriter(f)
	require.NoError(tw.WriteHeader(&tar.Header{Name: "app/", Typeflag: tar.TypeDir, Mode: 0o755}))
	require.NoError(tw.WriteHeader(&tar.Header{Name: "app/runner", Typeflag: tar.TypeReg, Mode: 0o755, Size: 2}))
	_, err = tw.Write([]byte("ok"))
	require.NoError(err)
	require.NoError(tw.WriteHeader(&tar.Header{Name: "app/alias", Typeflag: tar.TypeSymlink, Linkname: "runner", Mode: 0o777}))
	require.NoError(tw.Close())
	require.NoError(f.Close())

	dest := t.TempDir()
	_, err = ExtractArchive(pkg, dest, FormatTar, nil)
	require.NoError(err)

	link, err := os.Readlink(filepath.Join(dest, "app", "alias"))
	require.NoError(err)
	require.Equal("runner", link)
}

func TestExtractArchiveRejectsEscapingLinkTargets(t *testing.T) {
	require := testutils.SetupTest(t)

	// A link resolving above dest would redirect later writes outside
	// the tree, so both relative escapes and absolute targets are
	// refused.
	for _, linkname := range []string{"../../outside", "/etc/passwd"} {
		pkg := filepath.Join(t.TempDir(), "evil-link.tar")
		f, err := os.Create(pkg)
		require.NoError(err)
		tw := tar.NewWriter(f)
		require.NoError(tw.WriteHeader(&tar.Header{Name: "app/", Typeflag: tar.TypeDir, Mode: 0o755}))
		require.NoError(tw.WriteHeader(&tar.Header{Name: "app/alias", Typeflag: tar.TypeSymlink, Linkname: linkname, Mode: 0o777}))
		require.NoError(tw.Close())
		require.NoError(f.Close())

		dest := t.TempDir()
		_, err = ExtractArchive(pkg, dest, FormatTar, nil)
		require.ErrorContains(err, "invalid link target in archive")
		require.NoFileExists(filepath.Join(dest, "app", "alias"))
	}
}

func TestExtractArchiveDestIsFile(t *testing.T) {
	require := testutils.SetupTest(t)

	pkg := testutils.CreateZipPackage(t, require, "firefox")
	dest := filepath.Join(t.TempDir(), "blocker")
	require.NoError(os.WriteFile(dest, []byte("x"), 0o600))

	_, err := ExtractArchive(pkg, dest, FormatZip, nil)
	require.ErrorContains(err, "is a file")
}
