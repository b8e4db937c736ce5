package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// Syntax is a manifest file syntax.
type Syntax string

const (
	SyntaxYAML Syntax = "yaml"
	SyntaxJSON Syntax = "json"
	SyntaxTOML Syntax = "toml"
	SyntaxHCL  Syntax = "hcl"
)

// ParseSyntax parses a syntax name ("yml" is accepted for yaml).
func ParseSyntax(s string) (Syntax, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return SyntaxYAML, nil
	case "json":
		return SyntaxJSON, nil
	case "toml":
		return SyntaxTOML, nil
	case "hcl":
		return SyntaxHCL, nil
	}
	return "", errors.New(errors.ErrCodeInvalidManifest, "unsupported manifest syntax %q (want yaml, json, toml or hcl)", s)
}

// SyntaxForPath infers the syntax from a file extension.
func SyntaxForPath(path string) (Syntax, error) {
	return ParseSyntax(filepath.Ext(path))
}

// IsManifest reports whether path names a visible file with a manifest
// extension.
func IsManifest(path string) bool {
	return errors.ValidateManifestFilename(filepath.Base(path)) == nil
}

// Decode reads a manifest in the given syntax from r. name is used in error
// messages and as the HCL file name.
func Decode(r io.Reader, syntax Syntax, name string) (*Manifest, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var m Manifest
	switch syntax {
	case SyntaxYAML:
		dec := yaml.NewDecoder(bytes.NewReader(src))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", name)
		}
	case SyntaxJSON:
		dec := json.NewDecoder(bytes.NewReader(src))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", name)
		}
	case SyntaxTOML:
		md, err := toml.Decode(string(src), &m)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", name)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "decode %s: unknown keys %v", name, undecoded)
		}
	case SyntaxHCL:
		hm, err := decodeHCL(src, name)
		if err != nil {
			return nil, err
		}
		m = *hm
	default:
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unsupported manifest syntax %q", syntax)
	}
	return &m, nil
}

// Load reads the manifest at path, inferring the syntax from its extension.
func Load(path string) (*Manifest, error) {
	syntax, err := SyntaxForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, syntax, path)
}

// FindManifests lists the manifest files directly inside dir, sorted by name.
func FindManifests(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsManifest(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}
