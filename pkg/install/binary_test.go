// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luxfi/appinstall/internal/testutils"
	"github.com/stretchr/testify/require"
)

func TestGetBinaryWalk(t *testing.T) {
	require := require.New(t)

	parent := t.TempDir()
	topDir := testutils.CreateDummyAppTree(require, parent, "firefox")

	binary, err := GetBinary(topDir, []string{"firefox"}, "linux")
	require.NoError(err)
	require.Equal(filepath.Join(topDir, "firefox"), binary)

	// The walk searches nested trees too.
	binary, err = GetBinary(parent, []string{"firefox"}, "linux")
	require.NoError(err)
	require.Equal(filepath.Join(topDir, "firefox"), binary)
}

func TestGetBinaryWindowsSuffix(t *testing.T) {
	require := require.New(t)

	topDir := filepath.Join(t.TempDir(), "firefox")
	require.NoError(os.MkdirAll(topDir, 0o700))
	exePath := filepath.Join(topDir, "firefox.exe")
	require.NoError(os.WriteFile(exePath, testutils.DummyBinary, 0o600))

	binary, err := GetBinary(topDir, []string{"firefox"}, "windows")
	require.NoError(err)
	require.Equal(exePath, binary)

	// Names that already carry the suffix are left alone.
	binary, err = GetBinary(topDir, []string{"firefox.exe"}, "windows")
	require.NoError(err)
	require.Equal(exePath, binary)
}

func TestGetBinaryMacBundle(t *testing.T) {
	require := require.New(t)

	bundleDir := testutils.CreateMacBundleTree(require, t.TempDir(), "Firefox")

	// On darwin the bundle plist decides; no app names needed.
	binary, err := GetBinary(bundleDir, nil, "darwin")
	require.NoError(err)
	require.Equal(filepath.Join(bundleDir, "Contents", "MacOS", "apprunner"), binary)
}

func TestGetBinaryNotFound(t *testing.T) {
	require := require.New(t)

	topDir := testutils.CreateDummyAppTree(require, t.TempDir(), "firefox")

	_, err := GetBinary(topDir, []string{"thunderbird"}, "linux")
	require.ErrorIs(err, ErrBinaryNotFound)
}

func TestAppNameFromSource(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"firefox-91.0.tar.bz2", "firefox"},
		{"/tmp/downloads/Thunderbird_78.2.zip", "thunderbird"},
		{"fennec-nightly.en-US.linux.tar.gz", "fennec"},
		{"setup.exe", "setup"},
		{"Firefox 91.0.dmg", "firefox"},
		{"app.tgz", "app"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := AppNameFromSource(tt.source); got != tt.want {
				t.Errorf("AppNameFromSource(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}
