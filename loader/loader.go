// Package loader reads a policy document from disk into a *model.Policy,
// dispatching on file extension between JSON and YAML, grounded on this
// module's domain-stack contributor's config package, which decodes YAML
// straight into a tagged Go struct with gopkg.in/yaml.v3 (see DESIGN.md).
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odrlplan/policyplan/model"
	"gopkg.in/yaml.v3"
)

// ErrorCode identifies a loader failure.
type ErrorCode string

const (
	// ErrCodeUnsupportedExtension is returned for any extension other than
	// .json, .yaml, or .yml.
	ErrCodeUnsupportedExtension ErrorCode = "E_UNSUPPORTED_EXTENSION"
	// ErrCodeReadFailed wraps an underlying os.ReadFile failure.
	ErrCodeReadFailed ErrorCode = "E_READ_FAILED"
	// ErrCodeDecodeFailed wraps an underlying json/yaml decode failure.
	ErrCodeDecodeFailed ErrorCode = "E_DECODE_FAILED"
)

// LoaderError is returned by LoadFile.
type LoaderError struct {
	Code ErrorCode
	Path string
	Err  error
}

// Error implements error.
func (e *LoaderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *LoaderError) Unwrap() error { return e.Err }

// LoadFile reads path and decodes it into a *model.Policy. The format is
// chosen by extension: .json uses encoding/json (via model's own
// UnmarshalJSON on ConstraintList), .yaml/.yml is parsed with
// gopkg.in/yaml.v3 and then decoded through the same JSON codec (see
// decodeYAML).
func LoadFile(path string) (*model.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoaderError{Code: ErrCodeReadFailed, Path: path, Err: err}
	}

	switch filepath.Ext(path) {
	case ".json":
		policy, err := decodeJSON(data)
		if err != nil {
			return nil, &LoaderError{Code: ErrCodeDecodeFailed, Path: path, Err: err}
		}
		return policy, nil
	case ".yaml", ".yml":
		policy, err := decodeYAML(data)
		if err != nil {
			return nil, &LoaderError{Code: ErrCodeDecodeFailed, Path: path, Err: err}
		}
		return policy, nil
	default:
		return nil, &LoaderError{
			Code: ErrCodeUnsupportedExtension,
			Path: path,
			Err:  fmt.Errorf("unsupported extension %q, want .json, .yaml, or .yml", filepath.Ext(path)),
		}
	}
}

func decodeJSON(data []byte) (*model.Policy, error) {
	var policy model.Policy
	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// decodeYAML decodes a YAML policy document by first decoding it into a
// generic tree with gopkg.in/yaml.v3, then re-encoding that tree as JSON
// and decoding it with model's own JSON codec. model.ConstraintList's
// discriminated-union decoding (see model/json.go) is written once, against
// encoding/json; bridging through it here avoids a second, YAML-specific
// implementation of the same four-way tagged union.
func decodeYAML(data []byte) (*model.Policy, error) {
	var tree interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	jsonCompatible := convertYAMLTree(tree)
	asJSON, err := json.Marshal(jsonCompatible)
	if err != nil {
		return nil, err
	}
	return decodeJSON(asJSON)
}

// convertYAMLTree recursively converts the map[string]interface{} /
// []interface{} tree yaml.v3 produces into a shape encoding/json can
// marshal directly, since yaml.v3 (unlike the older go-yaml v2) already
// emits map[string]interface{} for mappings, but nested maps still need
// the same treatment applied recursively.
func convertYAMLTree(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, child := range val {
			out[k] = convertYAMLTree(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, child := range val {
			out[i] = convertYAMLTree(child)
		}
		return out
	default:
		return val
	}
}
