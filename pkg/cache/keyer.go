package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// FrameKeyOpts holds everything besides the snapshot that determines a
// settled frame.
type FrameKeyOpts struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
	Ticks  int     `json:"t"`
	DT     float64 `json:"dt"`
	Params any     `json:"p"` // physics parameters, hashed as JSON
}

// ArtifactKeyOpts holds the render options of a cached artifact.
type ArtifactKeyOpts struct {
	Format string `json:"f"`
	Edges  bool   `json:"e"`
	Labels bool   `json:"l"`
}

// Keyer derives cache keys. Implementations must be deterministic.
type Keyer interface {
	// SnapshotKey identifies a snapshot fetched from a remote source.
	SnapshotKey(source, name string) string
	// FrameKey identifies a settled frame.
	FrameKey(snapshotHash string, opts FrameKeyOpts) string
	// ArtifactKey identifies a rendered frame.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SnapshotKey returns "snapshot:<source>:<name>".
func (DefaultKeyer) SnapshotKey(source, name string) string {
	return fmt.Sprintf("snapshot:%s:%s", source, name)
}

// FrameKey returns "frame:" followed by a hash of the inputs.
func (DefaultKeyer) FrameKey(snapshotHash string, opts FrameKeyOpts) string {
	return hashKey("frame", snapshotHash, opts)
}

// ArtifactKey returns "artifact:" followed by a hash of the inputs.
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameHash, opts)
}

// KeyType returns the namespace of a key produced by a [Keyer], ignoring
// any scope prefix. It is used as a metrics label.
func KeyType(key string) string {
	for _, t := range []string{"frame", "artifact", "snapshot"} {
		if strings.HasPrefix(key, t+":") || strings.Contains(key, ":"+t+":") {
			return t
		}
	}
	return "other"
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns prefix + ":" + the digest of the JSON encoding of parts.
func hashKey(prefix string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		data = fmt.Appendf(nil, "%#v", parts)
	}
	return prefix + ":" + Hash(data)
}
