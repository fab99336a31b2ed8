package proof

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/internal/ascii"
)

// This file holds the wire encodings of the individual proof pieces as
// they travel on the log and witness HTTP endpoints, separate from the
// persisted proof bundle format in encoding.go.

// Marshal serializes the cosigned tree head as served by the log's
// get-tree-head endpoint.
func (cth *CosignedTreeHead) Marshal() []byte {
	var buf bytes.Buffer
	w := ascii.NewWriter(&buf)
	w.Uint64("size", cth.Size)
	w.Line("root_hash", cth.RootHash.Hex())
	w.Line("signature", cth.Signature.Hex())
	for _, cs := range cth.Cosignatures {
		w.Line("cosignature", cosignatureValue(cs))
	}
	return buf.Bytes()
}

// ParseCosignedTreeHead decodes a get-tree-head response body.
func ParseCosignedTreeHead(r io.Reader) (*CosignedTreeHead, error) {
	lines, err := ascii.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("proof: %w", err)
	}
	var cth CosignedTreeHead
	seen := make(map[string]bool)
	for _, line := range lines {
		if line.Key != "cosignature" {
			if seen[line.Key] {
				return nil, fmt.Errorf("proof: duplicate %q record", line.Key)
			}
			seen[line.Key] = true
		}
		switch line.Key {
		case "size":
			cth.Size, err = ascii.ParseUint64(line.Value)
		case "root_hash":
			cth.RootHash, err = crypto.HashFromHex(line.Value)
		case "signature":
			cth.Signature, err = crypto.SignatureFromHex(line.Value)
		case "cosignature":
			var cs Cosignature
			if cs, err = parseCosignature(line.Value); err == nil {
				cth.Cosignatures = append(cth.Cosignatures, cs)
			}
		default:
			return nil, fmt.Errorf("proof: unknown record %q", line.Key)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, required := range []string{"size", "root_hash", "signature"} {
		if !seen[required] {
			return nil, fmt.Errorf("proof: missing %q record", required)
		}
	}
	return &cth, nil
}

// Marshal serializes the inclusion proof as served by the log's
// get-inclusion-proof endpoint.
func (ip *InclusionProof) Marshal() []byte {
	var buf bytes.Buffer
	w := ascii.NewWriter(&buf)
	w.Uint64("leaf_index", ip.LeafIndex)
	for _, h := range ip.Path {
		w.Line("node_hash", h.Hex())
	}
	return buf.Bytes()
}

// ParseInclusionProof decodes a get-inclusion-proof response body.
func ParseInclusionProof(r io.Reader) (*InclusionProof, error) {
	lines, err := ascii.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("proof: %w", err)
	}
	var ip InclusionProof
	seenIndex := false
	for _, line := range lines {
		switch line.Key {
		case "leaf_index":
			if seenIndex {
				return nil, fmt.Errorf("proof: duplicate %q record", line.Key)
			}
			seenIndex = true
			if ip.LeafIndex, err = ascii.ParseUint64(line.Value); err != nil {
				return nil, err
			}
		case "node_hash":
			h, err := crypto.HashFromHex(line.Value)
			if err != nil {
				return nil, fmt.Errorf("proof: %w", err)
			}
			ip.Path = append(ip.Path, h)
		default:
			return nil, fmt.Errorf("proof: unknown record %q", line.Key)
		}
	}
	if !seenIndex {
		return nil, fmt.Errorf("proof: missing %q record", "leaf_index")
	}
	return &ip, nil
}

// MarshalCosignature serializes a single cosignature as returned by a
// witness's add-tree-head endpoint.
func MarshalCosignature(cs Cosignature) []byte {
	var buf bytes.Buffer
	w := ascii.NewWriter(&buf)
	w.Line("cosignature", cosignatureValue(cs))
	return buf.Bytes()
}

// ParseCosignatureResponse decodes a witness add-tree-head response
// body containing a single cosignature record.
func ParseCosignatureResponse(r io.Reader) (Cosignature, error) {
	lines, err := ascii.Parse(r)
	if err != nil {
		return Cosignature{}, fmt.Errorf("proof: %w", err)
	}
	if len(lines) != 1 || lines[0].Key != "cosignature" {
		return Cosignature{}, fmt.Errorf("proof: want exactly one cosignature record")
	}
	return parseCosignature(lines[0].Value)
}

func cosignatureValue(cs Cosignature) string {
	return fmt.Sprintf("%s %d %s", cs.KeyHash.Hex(), cs.Timestamp, cs.Signature.Hex())
}
