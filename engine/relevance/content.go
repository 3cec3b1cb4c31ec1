package relevance

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/WessleyAI/carhub/engine/domain"
)

// Content is a content block with its applicability metadata.
type Content struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}

// Partition groups content by classification.
type Partition[T any] struct {
	Applies    []T `json:"applies"`
	General    []T `json:"general"`
	NotApplies []T `json:"notApplies"`
}

// FilterFor classifies each item against car, preserving order within each
// group. With no car selected every non-universal item lands in General.
func FilterFor[T any](items []T, meta func(T) Metadata, car *domain.Vehicle) Partition[T] {
	p := Partition[T]{Applies: []T{}, General: []T{}, NotApplies: []T{}}
	for _, it := range items {
		switch Classify(meta(it), car).Variant {
		case VariantApplies:
			p.Applies = append(p.Applies, it)
		case VariantNotApplies:
			p.NotApplies = append(p.NotApplies, it)
		default:
			p.General = append(p.General, it)
		}
	}
	return p
}

// DecodeContent reads a YAML (or JSON) list of content blocks.
func DecodeContent(r io.Reader) ([]Content, error) {
	var items []Content
	if err := yaml.NewDecoder(r).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return []Content{}, nil
		}
		return nil, fmt.Errorf("relevance: decode content: %w", err)
	}
	for i, c := range items {
		if c.ID == "" {
			return nil, fmt.Errorf("relevance: content %d has no id", i)
		}
	}
	return items, nil
}

// LoadContent reads content blocks from a YAML or JSON file.
func LoadContent(path string) ([]Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("relevance: %w", err)
	}
	defer f.Close()
	return DecodeContent(f)
}

// ParseMetadata decodes a single metadata document.
func ParseMetadata(data []byte) (Metadata, error) {
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("relevance: parse metadata: %w", err)
	}
	return m, nil
}
