package catalog

import (
	"crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/matzehuels/toolcatalog/pkg/errors"
)

// HashType names a supported content-hash algorithm.
type HashType string

const (
	SHA1   HashType = "sha-1"
	SHA256 HashType = "sha-256"
	SHA384 HashType = "sha-384"
	SHA512 HashType = "sha-512"
)

// HashTypes lists every accepted hash type.
var HashTypes = []HashType{SHA1, SHA256, SHA384, SHA512}

var digestAlgorithms = map[HashType]digest.Algorithm{
	SHA256: digest.SHA256,
	SHA384: digest.SHA384,
	SHA512: digest.SHA512,
}

// Hash is a validated content hash: an algorithm plus its hex digest.
// Construct it with [NewHash] or [ComputeHash]; the zero value is invalid.
type Hash struct {
	Type  HashType `json:"type"`
	Value string   `json:"value"`
}

// NewHash validates typ and returns a Hash. The error carries both the
// offending type and value.
func NewHash(typ, value string) (*Hash, error) {
	t := HashType(typ)
	if !slices.Contains(HashTypes, t) {
		return nil, errors.New(errors.ErrCodeInvalidHash, "unsupported hash type %q (value %q)", typ, value)
	}
	return &Hash{Type: t, Value: value}, nil
}

// ComputeHash hashes data with the given algorithm.
func ComputeHash(typ HashType, data []byte) (*Hash, error) {
	if typ == SHA1 {
		sum := sha1.Sum(data)
		return &Hash{Type: SHA1, Value: hex.EncodeToString(sum[:])}, nil
	}
	alg, ok := digestAlgorithms[typ]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidHash, "unsupported hash type %q", typ)
	}
	return &Hash{Type: typ, Value: alg.FromBytes(data).Encoded()}, nil
}

// Verify reports whether data hashes to h.
func (h *Hash) Verify(data []byte) bool {
	got, err := ComputeHash(h.Type, data)
	if err != nil {
		return false
	}
	return got.Value == strings.ToLower(h.Value)
}

// Equal reports whether two hashes have the same type and value.
// Two nil hashes are equal.
func (h *Hash) Equal(other *Hash) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.Type == other.Type && strings.EqualFold(h.Value, other.Value)
}

// String returns "type:value", the serialized form used when comparing
// catalog snapshots.
func (h *Hash) String() string {
	return string(h.Type) + ":" + h.Value
}

func (h *Hash) clone() *Hash {
	if h == nil {
		return nil
	}
	c := *h
	return &c
}

// FromDigest converts an OCI-style "algorithm:hex" digest, as reported by
// release APIs, into a Hash.
func FromDigest(s string) (*Hash, error) {
	d, err := digest.Parse(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidHash, err, "parse digest %q", s)
	}
	for typ, alg := range digestAlgorithms {
		if d.Algorithm() == alg {
			return &Hash{Type: typ, Value: d.Encoded()}, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidHash, "unsupported digest algorithm %q", d.Algorithm())
}

// Digest returns h as an OCI digest. sha-1 has no OCI representation.
func (h *Hash) Digest() (digest.Digest, error) {
	alg, ok := digestAlgorithms[h.Type]
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidHash, "hash type %q has no digest form", h.Type)
	}
	return digest.NewDigestFromEncoded(alg, strings.ToLower(h.Value)), nil
}
