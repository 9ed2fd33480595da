// util/compress.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// Scenario and recording files are zstd-compressed on disk when their
// names carry a .zst suffix; these wrappers paper over the decoder's
// awkward Close signature.

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close() // no error returned
	return nil
}

// NewZstdReader wraps r with a zstd decoder that satisfies io.ReadCloser.
func NewZstdReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}
	return zstdReadCloser{zr}, nil
}

// NewZstdWriter wraps w with a zstd encoder.
func NewZstdWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}
