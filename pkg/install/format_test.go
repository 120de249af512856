// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package install

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/luxfi/appinstall/internal/testutils"
	"github.com/stretchr/testify/require"
)

func TestDetectFormatArchives(t *testing.T) {
	require := require.New(t)

	zipPkg := testutils.CreateZipPackage(t, require, "firefox")
	format, err := DetectFormat(zipPkg)
	require.NoError(err)
	require.Equal(FormatZip, format)

	tgzPkg := testutils.CreateTarGzPackage(t, require, "firefox")
	format, err = DetectFormat(tgzPkg)
	require.NoError(err)
	require.Equal(FormatTarGz, format)

	tarPkg := testutils.CreateTarPackage(t, require, "firefox")
	format, err = DetectFormat(tarPkg)
	require.NoError(err)
	require.Equal(FormatTar, format)
}

func TestDetectFormatMagic(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  []byte
		want     Format
	}{
		{
			name:     "bzip2 stream",
			fileName: "app.tar.bz2",
			content:  []byte("BZh91AY&SY"),
			want:     FormatTarBz2,
		},
		{
			name:     "pe installer",
			fileName: "setup.exe",
			content:  []byte{0x4d, 0x5a, 0x90, 0x00},
			want:     FormatExe,
		},
		{
			name:     "disk image by extension",
			fileName: "app.dmg",
			content:  []byte("no recognizable leading magic"),
			want:     FormatDMG,
		},
		{
			// A PE stub inside a dmg-named file still installs as a dmg:
			// the extension gate runs before the exe fallback.
			name:     "dmg extension wins over pe magic",
			fileName: "hybrid.dmg",
			content:  []byte{0x4d, 0x5a, 0x90, 0x00},
			want:     FormatDMG,
		},
		{
			// Archives are sniffed, never trusted by name.
			name:     "zip magic wins over exe extension",
			fileName: "misnamed.exe",
			content:  []byte{0x50, 0x4b, 0x03, 0x04, 0x00},
			want:     FormatZip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			path := filepath.Join(t.TempDir(), tt.fileName)
			require.NoError(os.WriteFile(path, tt.content, 0o600))

			format, err := DetectFormat(path)
			require.NoError(err)
			require.Equal(tt.want, format)
		})
	}
}

func TestDetectFormatGzipNeedsTar(t *testing.T) {
	require := require.New(t)

	// A gzipped single file is valid gzip but holds no tar stream, so
	// it is not an installable package.
	path := filepath.Join(t.TempDir(), "notes.txt.gz")
	f, err := os.Create(path)
	require.NoError(err)
	gw := gzip.NewWriter(f)
	_, err = gw.Write([]byte("just one compressed file"))
	require.NoError(err)
	require.NoError(gw.Close())
	require.NoError(f.Close())

	_, err = DetectFormat(path)
	require.ErrorIs(err, ErrInvalidSource)
}

func TestFormatIsArchive(t *testing.T) {
	require := require.New(t)

	for _, format := range []Format{FormatZip, FormatTarGz, FormatTarBz2, FormatTar} {
		require.True(format.IsArchive(), format.String())
	}
	for _, format := range []Format{FormatExe, FormatDMG, FormatUnknown} {
		require.False(format.IsArchive(), format.String())
	}
}

func TestDetectFormatInvalid(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(os.WriteFile(path, []byte("just text"), 0o600))

	_, err := DetectFormat(path)
	require.ErrorIs(err, ErrInvalidSource)

	_, err = DetectFormat(filepath.Join(t.TempDir(), "missing.zip"))
	require.Error(err)
	require.NotErrorIs(err, ErrInvalidSource)
}
