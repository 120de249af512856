// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package install

import (
	"path/filepath"

	"github.com/shirou/gopsutil/process"
)

// IsBinaryRunning reports whether a process with the given executable
// path (or, failing that, base name) is currently running.
func IsBinaryRunning(binPath string) (bool, error) {
	procs, err := process.Processes()
	if err != nil {
		return false, err
	}
	base := filepath.Base(binPath)
	for _, p := range procs {
		// Processes can vanish mid scan; skip the ones we can't inspect.
		if exe, err := p.Exe(); err == nil && exe == binPath {
			return true, nil
		}
		if name, err := p.Name(); err == nil && name == base {
			return true, nil
		}
	}
	return false, nil
}
