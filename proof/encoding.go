package proof

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/internal/ascii"
)

// version is the proof bundle format version emitted by Marshal and
// required by Parse.
const version = 1

// Marshal serializes the proof bundle in its stable ASCII form.
func (p *Proof) Marshal() []byte {
	var buf bytes.Buffer
	w := ascii.NewWriter(&buf)
	w.Uint64("version", version)
	w.Line("log", p.LogKeyHash.Hex())
	w.Uint64("size", p.TreeHead.Size)
	w.Line("root_hash", p.TreeHead.RootHash.Hex())
	w.Line("signature", p.TreeHead.Signature.Hex())
	for _, cs := range p.TreeHead.Cosignatures {
		w.Line("cosignature", cosignatureValue(cs))
	}
	w.Uint64("leaf_index", p.Inclusion.LeafIndex)
	for _, h := range p.Inclusion.Path {
		w.Line("node_hash", h.Hex())
	}
	return buf.Bytes()
}

// String returns the ASCII serialization.
func (p *Proof) String() string {
	return string(p.Marshal())
}

// Parse decodes a proof bundle from its ASCII form. The decode is the
// exact inverse of Marshal for all valid proofs.
func Parse(r io.Reader) (*Proof, error) {
	lines, err := ascii.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("proof: %w", err)
	}

	var p Proof
	seen := make(map[string]bool)
	for _, line := range lines {
		switch line.Key {
		case "cosignature", "node_hash":
			// repeatable
		default:
			if seen[line.Key] {
				return nil, fmt.Errorf("proof: duplicate %q record", line.Key)
			}
			seen[line.Key] = true
		}

		switch line.Key {
		case "version":
			v, err := ascii.ParseUint64(line.Value)
			if err != nil {
				return nil, fmt.Errorf("proof: %w", err)
			}
			if v != version {
				return nil, fmt.Errorf("proof: unsupported version %d", v)
			}
		case "log":
			if p.LogKeyHash, err = crypto.HashFromHex(line.Value); err != nil {
				return nil, fmt.Errorf("proof: %w", err)
			}
		case "size":
			if p.TreeHead.Size, err = ascii.ParseUint64(line.Value); err != nil {
				return nil, fmt.Errorf("proof: %w", err)
			}
		case "root_hash":
			if p.TreeHead.RootHash, err = crypto.HashFromHex(line.Value); err != nil {
				return nil, fmt.Errorf("proof: %w", err)
			}
		case "signature":
			if p.TreeHead.Signature, err = crypto.SignatureFromHex(line.Value); err != nil {
				return nil, fmt.Errorf("proof: %w", err)
			}
		case "cosignature":
			cs, err := parseCosignature(line.Value)
			if err != nil {
				return nil, err
			}
			p.TreeHead.Cosignatures = append(p.TreeHead.Cosignatures, cs)
		case "leaf_index":
			if p.Inclusion.LeafIndex, err = ascii.ParseUint64(line.Value); err != nil {
				return nil, fmt.Errorf("proof: %w", err)
			}
		case "node_hash":
			h, err := crypto.HashFromHex(line.Value)
			if err != nil {
				return nil, fmt.Errorf("proof: %w", err)
			}
			p.Inclusion.Path = append(p.Inclusion.Path, h)
		default:
			return nil, fmt.Errorf("proof: unknown record %q", line.Key)
		}
	}

	for _, required := range []string{"version", "log", "size", "root_hash", "signature", "leaf_index"} {
		if !seen[required] {
			return nil, fmt.Errorf("proof: missing %q record", required)
		}
	}
	return &p, nil
}

// ParseBytes decodes a proof bundle from a byte slice.
func ParseBytes(b []byte) (*Proof, error) {
	return Parse(bytes.NewReader(b))
}

func parseCosignature(value string) (Cosignature, error) {
	fields := strings.Fields(value)
	if len(fields) != 3 {
		return Cosignature{}, fmt.Errorf("proof: cosignature takes a key hash, a timestamp and a signature")
	}
	var cs Cosignature
	var err error
	if cs.KeyHash, err = crypto.HashFromHex(fields[0]); err != nil {
		return Cosignature{}, fmt.Errorf("proof: %w", err)
	}
	if cs.Timestamp, err = ascii.ParseUint64(fields[1]); err != nil {
		return Cosignature{}, fmt.Errorf("proof: %w", err)
	}
	if cs.Signature, err = crypto.SignatureFromHex(fields[2]); err != nil {
		return Cosignature{}, fmt.Errorf("proof: %w", err)
	}
	return cs, nil
}
