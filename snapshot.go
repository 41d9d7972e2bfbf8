package glcaps

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DriverSnapshot is the on-disk YAML form of a driver's identification
// strings and extension list. Snapshots stand in for a live driver handle in
// the CLI and in tests; loading one yields a [StaticDriver].
type DriverSnapshot struct {
	Vendor                 string   `yaml:"vendor"`
	Renderer               string   `yaml:"renderer"`
	Version                string   `yaml:"version"`
	ShadingLanguageVersion string   `yaml:"shading_language_version"`
	Indexed                bool     `yaml:"indexed"`
	Extensions             []string `yaml:"extensions"`
}

// Driver returns the snapshot as a driver handle.
func (s *DriverSnapshot) Driver() *StaticDriver {
	return &StaticDriver{
		Vendor:                 s.Vendor,
		Renderer:               s.Renderer,
		Version:                s.Version,
		ShadingLanguageVersion: s.ShadingLanguageVersion,
		Extensions:             append([]string(nil), s.Extensions...),
		Indexed:                s.Indexed,
	}
}

// ParseDriverSnapshot decodes a YAML driver snapshot.
func ParseDriverSnapshot(r io.Reader) (*DriverSnapshot, error) {
	var s DriverSnapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse driver snapshot: %w", err)
	}
	return &s, nil
}

// LoadDriverSnapshot reads and decodes a YAML driver snapshot file.
func LoadDriverSnapshot(path string) (*DriverSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseDriverSnapshot(f)
}

// Snapshot captures a driver handle's reported state for later replay.
func Snapshot(d Driver) *DriverSnapshot {
	tokens, indexed := queryExtensionStrings(d)
	return &DriverSnapshot{
		Vendor:                 d.VendorString(),
		Renderer:               d.RendererString(),
		Version:                d.VersionString(),
		ShadingLanguageVersion: d.ShadingLanguageVersionString(),
		Indexed:                indexed,
		Extensions:             tokens,
	}
}

// WriteTo encodes the snapshot as YAML.
func (s *DriverSnapshot) WriteTo(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(s)
}
