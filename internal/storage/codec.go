// Package storage provides the persistence adapters for the task snapshot:
// a local file, a redis key, and an in-process map. Each adapter stores the
// whole collection as one serialized array under a well-known key.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/valter-silva-au/todo/pkg/models"
)

// ErrCorrupt is returned by Load when the stored snapshot cannot be decoded.
var ErrCorrupt = errors.New("corrupt task snapshot")

// Codec serializes the task collection.
type Codec interface {
	Marshal(tasks []models.Task) ([]byte, error)
	Unmarshal(data []byte) ([]models.Task, error)
	// Ext is the file extension used by the file adapter, without the dot.
	Ext() string
}

// CodecFor returns the codec for a snapshot format name.
func CodecFor(format string) (Codec, error) {
	switch format {
	case "", models.FormatJSON:
		return JSONCodec{}, nil
	case models.FormatYAML:
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
}

// JSONCodec encodes the collection as a JSON array.
type JSONCodec struct{}

func (JSONCodec) Ext() string { return "json" }

func (JSONCodec) Marshal(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshaling tasks: %w", err)
	}
	return data, nil
}

func (JSONCodec) Unmarshal(data []byte) ([]models.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return tasks, nil
}

// YAMLCodec encodes the collection as a YAML sequence.
type YAMLCodec struct{}

func (YAMLCodec) Ext() string { return "yaml" }

func (YAMLCodec) Marshal(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := yaml.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshaling tasks: %w", err)
	}
	return data, nil
}

func (YAMLCodec) Unmarshal(data []byte) ([]models.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var tasks []models.Task
	if err := yaml.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return tasks, nil
}
