// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package install abstracts heterogeneous application package formats
// (archives, silent installers, disk images) behind a uniform
// install / uninstall / get-binary API.
package install

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies the package format of an installer source.
type Format int

const (
	FormatUnknown Format = iota
	FormatZip
	FormatTarGz
	FormatTarBz2
	FormatTar
	FormatExe
	FormatDMG
)

func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTarGz:
		return "tar.gz"
	case FormatTarBz2:
		return "tar.bz2"
	case FormatTar:
		return "tar"
	case FormatExe:
		return "exe"
	case FormatDMG:
		return "dmg"
	default:
		return "unknown"
	}
}

// IsArchive reports whether the format is extracted in-process rather
// than handed to a platform installer.
func (f Format) IsArchive() bool {
	switch f {
	case FormatZip, FormatTarGz, FormatTarBz2, FormatTar:
		return true
	default:
		return false
	}
}

// ErrInvalidSource is returned when a source is not a recognized package
// type (zip, tar.gz, tar.bz2, tar, exe or dmg).
var ErrInvalidSource = errors.New("not a recognized package type (zip, tar.gz, tar.bz2, tar, exe or dmg)")

var (
	zipMagic   = []byte{0x50, 0x4b, 0x03, 0x04}
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
	exeMagic   = []byte("MZ")
	tarMagic   = []byte("ustar")
)

// POSIX tar keeps its magic in the first header block, after the name,
// mode and checksum fields.
const tarMagicOffset = 257

const dmgExtension = ".dmg"

// DetectFormat inspects src and returns its package format. Archive
// detection trusts magic bytes over the file name. DMG images are
// recognized by extension only, as the koly trailer sits at the end of
// the file.
func DetectFormat(src string) (Format, error) {
	f, err := os.Open(src)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	header := make([]byte, tarMagicOffset+len(tarMagic))
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, err
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, zipMagic):
		return FormatZip, nil
	case bytes.HasPrefix(header, gzipMagic):
		// A plain .gz of a single file carries the same magic but is
		// not an installable package.
		isTar, err := gzippedTar(src)
		if err != nil {
			return FormatUnknown, err
		}
		if !isTar {
			return FormatUnknown, fmt.Errorf("%s: %w", src, ErrInvalidSource)
		}
		return FormatTarGz, nil
	case bytes.HasPrefix(header, bzip2Magic):
		return FormatTarBz2, nil
	case len(header) >= tarMagicOffset+len(tarMagic) &&
		bytes.Equal(header[tarMagicOffset:tarMagicOffset+len(tarMagic)], tarMagic):
		return FormatTar, nil
	}

	if strings.EqualFold(filepath.Ext(src), dmgExtension) {
		return FormatDMG, nil
	}
	if bytes.HasPrefix(header, exeMagic) {
		return FormatExe, nil
	}

	return FormatUnknown, fmt.Errorf("%s: %w", src, ErrInvalidSource)
}

// gzippedTar reports whether the gzip member in src decompresses to a
// tar stream, by checking the magic of the first header block.
func gzippedTar(src string) (bool, error) {
	f, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return false, nil
	}
	defer gr.Close()

	block := make([]byte, tarMagicOffset+len(tarMagic))
	if _, err := io.ReadFull(gr, block); err != nil {
		// Too short or corrupt; either way not a tar member.
		return false, nil
	}
	return bytes.Equal(block[tarMagicOffset:tarMagicOffset+len(tarMagic)], tarMagic), nil
}
