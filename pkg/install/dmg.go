// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package install

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/luxfi/appinstall/pkg/application"
	"github.com/luxfi/appinstall/pkg/constants"
	"go.uber.org/zap"
)

const (
	hdiutil         = "hdiutil"
	volumesPrefix   = "/Volumes/"
	appBundleSuffix = ".app"
)

// installDMG mounts a disk image, copies the app bundle it carries into
// dest and detaches the image again.
func installDMG(ctx context.Context, app *application.App, src string, dest string) (installDir string, err error) {
	mountPoint, err := attachImage(ctx, src)
	if err != nil {
		return "", err
	}
	defer func() {
		// Best effort, a stuck detach must not fail the install.
		if derr := exec.Command(hdiutil, "detach", mountPoint, "-quiet").Run(); derr != nil {
			app.Log.Warn("failed to detach image",
				zap.String("mountPoint", mountPoint),
				zap.Error(derr),
			)
		}
	}()

	bundleName, err := findAppBundle(mountPoint)
	if err != nil {
		return "", err
	}

	installDir = filepath.Join(dest, bundleName)
	if fi, err := os.Stat(installDir); err == nil && !fi.IsDir() {
		return "", fmt.Errorf("install target %s is a file", installDir)
	}
	if err := os.MkdirAll(installDir, constants.DefaultPerms755); err != nil {
		return "", err
	}
	if err := CopyDir(filepath.Join(mountPoint, bundleName), installDir); err != nil {
		return "", fmt.Errorf("failed to copy app bundle: %w", err)
	}
	return installDir, nil
}

// attachImage mounts src and returns the /Volumes mount point reported
// by hdiutil.
func attachImage(ctx context.Context, src string) (string, error) {
	out, err := exec.CommandContext(ctx, hdiutil, "attach", "-nobrowse", "-noautoopen", src).Output() //nolint:gosec // G204: source vetted by DetectFormat
	if err != nil {
		return "", fmt.Errorf("failed to attach image: %w", err)
	}
	for _, field := range strings.Fields(string(out)) {
		if strings.HasPrefix(field, volumesPrefix) {
			return field, nil
		}
	}
	return "", fmt.Errorf("no mount point in hdiutil output for %s", src)
}

func findAppBundle(mountPoint string) (string, error) {
	entries, err := os.ReadDir(mountPoint)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), appBundleSuffix) {
			return entry.Name(), nil
		}
	}
	return "", fmt.Errorf("no app bundle in image mounted at %s", mountPoint)
}
