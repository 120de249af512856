// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stretchr/testify/require"
)

// CreateZip packs src (a directory) into a zip at dest, keeping src's
// base name as the top level entry.
func CreateZip(require *require.Assertions, src string, dest string) {
	zipf, err := os.Create(dest) //nolint:gosec // G304: Test utility for creating archives
	require.NoError(err)
	defer func() { _ = zipf.Close() }()

	zipWriter := zip.NewWriter(zipf)
	defer func() { _ = zipWriter.Close() }()

	err = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Method = zip.Deflate

		rel, err := filepath.Rel(filepath.Dir(src), path)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			header.Name += "/"
		}

		headerWriter, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		f, err := os.Open(path) //nolint:gosec // G304: Test utility, path from internal walk
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		_, err = io.Copy(headerWriter, f)
		return err
	})
	require.NoError(err)
}

// CreateTarGz packs src into a gzipped tar at dest. When includeTopLevel
// is set, entries are rooted at src's base name.
func CreateTarGz(require *require.Assertions, src string, dest string, includeTopLevel bool) {
	tgz, err := os.Create(dest) //nolint:gosec // G304: Test utility for creating archives
	require.NoError(err)
	defer func() { _ = tgz.Close() }()

	gw := gzip.NewWriter(tgz)
	defer func() { _ = gw.Close() }()

	writeTar(require, gw, src, includeTopLevel)
}

// CreateTar packs src into a plain tar at dest.
func CreateTar(require *require.Assertions, src string, dest string, includeTopLevel bool) {
	tarf, err := os.Create(dest) //nolint:gosec // G304: Test utility for creating archives
	require.NoError(err)
	defer func() { _ = tarf.Close() }()

	writeTar(require, tarf, src, includeTopLevel)
}

func writeTar(require *require.Assertions, w io.Writer, src string, includeTopLevel bool) {
	tarball := tar.NewWriter(w)
	defer func() { _ = tarball.Close() }()

	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == src && !includeTopLevel {
			return nil
		}

		header, err := tar.FileInfoHeader(info, info.Name())
		if err != nil {
			return err
		}
		base := src
		if includeTopLevel {
			base = filepath.Dir(src)
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		header.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			header.Name = strings.TrimSuffix(header.Name, "/") + "/"
		}

		if err := tarball.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		file, err := os.Open(path) //nolint:gosec // G304: Test utility, path from internal walk
		if err != nil {
			return err
		}
		defer func() { _ = file.Close() }()

		_, err = io.Copy(tarball, file)
		return err
	})
	require.NoError(err)
}
