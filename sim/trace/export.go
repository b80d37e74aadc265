package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// WriteJSON encodes rt as indented JSON.
func WriteJSON(w io.Writer, rt *RunTrace) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(rt)
}

// SaveToFile writes rt to path. A ".zst" suffix compresses the JSON with zstd.
func SaveToFile(path string, rt *RunTrace) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing trace file: %w", closeErr)
		}
	}()

	if !strings.HasSuffix(path, ".zst") {
		w := bufio.NewWriter(f)
		if err := WriteJSON(w, rt); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		return w.Flush()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("creating zstd encoder: %w", err)
	}
	if err := WriteJSON(enc, rt); err != nil {
		_ = enc.Close()
		return fmt.Errorf("writing trace: %w", err)
	}
	return enc.Close()
}

// LoadFromFile reads a trace written by SaveToFile.
func LoadFromFile(path string) (*RunTrace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var rt RunTrace
	if err := json.NewDecoder(r).Decode(&rt); err != nil {
		return nil, fmt.Errorf("parsing trace: %w", err)
	}
	for _, robot := range rt.Robots {
		for i, rec := range robot.Path {
			if !IsValidAction(string(rec.Action)) {
				return nil, fmt.Errorf("robot %d record %d: unknown action %q", robot.ID, i, rec.Action)
			}
		}
	}
	return &rt, nil
}
