package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// PuzzleFile is a puzzle definition read from disk. The same fields are
// accepted in YAML, JSON and HCL:
//
//	size      = 12
//	words     = ["sun", "moon", "star"]
//	seed      = 42
//	collision = "strict"
type PuzzleFile struct {
	Size      int      `json:"size" yaml:"size" hcl:"size,optional"`
	Words     []string `json:"words" yaml:"words" hcl:"words"`
	Seed      int64    `json:"seed" yaml:"seed" hcl:"seed,optional"`
	Collision string   `json:"collision" yaml:"collision" hcl:"collision,optional"`
}

// LoadPuzzleFile reads and decodes a puzzle definition, choosing the format
// from the file extension.
func LoadPuzzleFile(path string) (*PuzzleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read puzzle file: %w", err)
	}
	return parsePuzzleFile(filepath.Base(path), data)
}

func parsePuzzleFile(name string, data []byte) (*PuzzleFile, error) {
	var pf PuzzleFile
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	case ".hcl":
		file, diags := hclparse.NewParser().ParseHCL(data, name)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", name, diags)
		}
		if diags := gohcl.DecodeBody(file.Body, nil, &pf); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", name, diags)
		}
	default:
		return nil, fmt.Errorf("unsupported puzzle file extension %q", ext)
	}

	if len(pf.Words) == 0 {
		return nil, errors.New("puzzle file lists no words")
	}
	if pf.Size < 0 || pf.Size > maxPuzzleSize {
		return nil, fmt.Errorf("puzzle size %d out of range 1..%d", pf.Size, maxPuzzleSize)
	}
	policy, err := ParseCollisionPolicy(pf.Collision)
	if err != nil {
		return nil, err
	}
	if pf.Collision != "" {
		pf.Collision = policy.String()
	}
	return &pf, nil
}
