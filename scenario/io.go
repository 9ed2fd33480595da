// scenario/io.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scenario

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/WarBuck-Dev/Project-Judy-sub002/log"
	"github.com/WarBuck-Dev/Project-Judy-sub002/util"
)

// Load reads a scenario file. Files ending in .zst are
// zstd-compressed JSON; anything else is plain JSON.
func Load(path string, lg *log.Logger) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := util.NewZstdReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	sc, err := Parse(b)
	if err != nil {
		return nil, err
	}

	lg.Info("loaded scenario", slog.String("path", path),
		slog.Int("assets", len(sc.Assets)))
	return sc, nil
}

// Parse decodes a scenario from JSON bytes.
func Parse(b []byte) (*Scenario, error) {
	sc := &Scenario{}
	if err := json.Unmarshal(b, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Save writes the scenario, zstd-compressing when the path ends in .zst.
func Save(path string, sc *Scenario, lg *log.Logger) error {
	b, err := json.MarshalIndent(sc, "", "    ")
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	if strings.HasSuffix(path, ".zst") {
		zw, err := util.NewZstdWriter(f)
		if err != nil {
			return err
		}
		defer zw.Close()
		w = zw
	}

	if _, err := w.Write(b); err != nil {
		return err
	}

	lg.Info("saved scenario", slog.String("path", path),
		slog.Int("assets", len(sc.Assets)))
	return nil
}
