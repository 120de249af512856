// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package install

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/luxfi/appinstall/pkg/constants"
)

// ExtractArchive extracts an archive into dest and returns the top level
// entries that were created, in archive order. onEntry, if not nil, is
// called once per extracted entry for progress reporting.
func ExtractArchive(src string, dest string, format Format, onEntry func(name string)) ([]string, error) {
	if fi, err := os.Stat(dest); err == nil && !fi.IsDir() {
		return nil, fmt.Errorf("extraction target %s is a file", dest)
	}
	if err := os.MkdirAll(dest, constants.DefaultPerms755); err != nil {
		return nil, fmt.Errorf("failed to create extraction target: %w", err)
	}

	switch format {
	case FormatZip:
		return extractZip(src, dest, onEntry)
	case FormatTarGz, FormatTarBz2, FormatTar:
		return extractTar(src, dest, format, onEntry)
	default:
		return nil, fmt.Errorf("%s is not an archive format", format)
	}
}

func extractZip(src string, dest string, onEntry func(string)) ([]string, error) {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer reader.Close()

	top := newTopLevelTracker(dest)
	for _, file := range reader.File {
		target, err := sanitizeArchivePath(dest, file.Name)
		if err != nil {
			return nil, err
		}
		top.record(file.Name)

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, constants.DefaultPerms755); err != nil {
				return nil, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), constants.DefaultPerms755); err != nil {
			return nil, err
		}
		if err := writeZipEntry(file, target); err != nil {
			return nil, err
		}
		if onEntry != nil {
			onEntry(file.Name)
		}
	}
	return top.paths(), nil
}

func writeZipEntry(file *zip.File, target string) error {
	in, err := file.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	mode := file.Mode()
	if mode.Perm() == 0 {
		// Archives built on Windows carry no permission bits.
		mode = constants.WriteReadReadPerms
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil { //nolint:gosec // G110: trusted local package
		_ = out.Close()
		return err
	}
	return out.Close()
}

func extractTar(src string, dest string, format Format, onEntry func(string)) ([]string, error) {
	in, err := os.Open(src) //nolint:gosec // G304: source path given by caller
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer in.Close()

	var r io.Reader = in
	switch format {
	case FormatTarGz:
		gr, err := gzip.NewReader(in)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gr.Close()
		r = gr
	case FormatTarBz2:
		r = bzip2.NewReader(in)
	}

	top := newTopLevelTracker(dest)
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		target, err := sanitizeArchivePath(dest, header.Name)
		if err != nil {
			return nil, err
		}
		top.record(header.Name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, constants.DefaultPerms755); err != nil {
				return nil, err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), constants.DefaultPerms755); err != nil {
				return nil, err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(header.Mode).Perm())
			if err != nil {
				return nil, err
			}
			if _, err := io.Copy(out, tr); err != nil { //nolint:gosec // G110: trusted local package
				_ = out.Close()
				return nil, err
			}
			if err := out.Close(); err != nil {
				return nil, err
			}
			if onEntry != nil {
				onEntry(header.Name)
			}
		case tar.TypeSymlink:
			// App bundles (frameworks in particular) are symlink heavy.
			if err := sanitizeLinkTarget(dest, target, header.Linkname); err != nil {
				return nil, err
			}
			if err := os.MkdirAll(filepath.Dir(target), constants.DefaultPerms755); err != nil {
				return nil, err
			}
			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return nil, err
			}
		}
	}
	return top.paths(), nil
}

// sanitizeArchivePath joins name below dest and rejects entries that
// would escape it.
func sanitizeArchivePath(dest string, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return "", err
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	if targetAbs != destAbs && !strings.HasPrefix(targetAbs, destAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid file path in archive: %s", name)
	}
	return target, nil
}

// sanitizeLinkTarget rejects symlink targets that would resolve outside
// dest. An escaping link would redirect every later write through it.
func sanitizeLinkTarget(dest string, target string, linkname string) error {
	if linkname == "" || filepath.IsAbs(linkname) || strings.HasPrefix(linkname, "/") {
		return fmt.Errorf("invalid link target in archive: %s", linkname)
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	resolvedAbs, err := filepath.Abs(filepath.Join(filepath.Dir(target), filepath.FromSlash(linkname)))
	if err != nil {
		return err
	}
	if resolvedAbs != destAbs && !strings.HasPrefix(resolvedAbs, destAbs+string(os.PathSeparator)) {
		return fmt.Errorf("invalid link target in archive: %s", linkname)
	}
	return nil
}

// topLevelTracker keeps the first path component of every archive entry,
// preserving archive order. The install dir is the first one recorded.
type topLevelTracker struct {
	dest  string
	seen  map[string]bool
	order []string
}

func newTopLevelTracker(dest string) *topLevelTracker {
	return &topLevelTracker{dest: dest, seen: map[string]bool{}}
}

func (t *topLevelTracker) record(name string) {
	// Archive entry names use forward slashes on every platform.
	name = strings.TrimPrefix(path.Clean(name), "./")
	root := name
	if idx := strings.Index(name, "/"); idx > 0 {
		root = name[:idx]
	}
	if root == "" || root == "." || t.seen[root] {
		return
	}
	t.seen[root] = true
	t.order = append(t.order, root)
}

func (t *topLevelTracker) paths() []string {
	paths := make([]string, len(t.order))
	for i, root := range t.order {
		paths[i] = filepath.Join(t.dest, root)
	}
	return paths
}
