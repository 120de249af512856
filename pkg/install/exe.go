// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package install

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/luxfi/appinstall/pkg/constants"
)

// installExe runs an NSIS style installer silently, directing it to
// install into dest. The compat layer env var keeps UAC from intercepting
// the child on Vista+ hosts.
func installExe(ctx context.Context, src string, dest string) (string, error) {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, src, constants.SilentFlag, "/D="+absDest) //nolint:gosec // G204: source vetted by DetectFormat
	cmd.Env = append(os.Environ(), "__compat_layer=RunAsInvoker")
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("installer exited with error: %w (output: %s)", err, string(out))
	}
	return absDest, nil
}
