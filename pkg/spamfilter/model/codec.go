package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
)

// Encode writes a as zstd-compressed JSON.
func Encode(w io.Writer, a *Artifact) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(enc).Encode(a); err != nil {
		enc.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	return enc.Close()
}

// Decode reads and validates an artifact written by Encode. Any failure is
// reported as internalerr.ErrArtifact.
func Decode(r io.Reader) (*Artifact, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrArtifact, err)
	}
	defer dec.Close()

	var a Artifact
	if err := json.NewDecoder(dec).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", internalerr.ErrArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Marshal encodes a into a byte slice.
func Marshal(a *Artifact) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes an artifact from data.
func Unmarshal(data []byte) (*Artifact, error) {
	return Decode(bytes.NewReader(data))
}
