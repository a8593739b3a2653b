package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const jsonPolicy = `{
  "permissions": [
    {
      "action": {"type": "use"},
      "constraints": [
        {"type": "atomic", "leftOperand": {"value": "spatial.region"}, "operator": "eq", "rightOperand": {"value": "EU"}}
      ]
    }
  ]
}`

const yamlPolicy = `
permissions:
  - action:
      type: use
    constraints:
      - type: atomic
        leftOperand:
          value: spatial.region
        operator: eq
        rightOperand:
          value: EU
`

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeTemp(t, "policy.json", jsonPolicy)
	policy, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, policy.Permissions, 1)
	require.Equal(t, "use", policy.Permissions[0].Action.Type)
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeTemp(t, "policy.yaml", yamlPolicy)
	policy, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, policy.Permissions, 1)
	require.Len(t, policy.Permissions[0].Constraints, 1)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "policy.txt", jsonPolicy)
	_, err := LoadFile(path)
	loaderErr, ok := err.(*LoaderError)
	require.True(t, ok, "error should be *LoaderError, got %T", err)
	require.Equal(t, ErrCodeUnsupportedExtension, loaderErr.Code)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	loaderErr, ok := err.(*LoaderError)
	require.True(t, ok, "error should be *LoaderError, got %T", err)
	require.Equal(t, ErrCodeReadFailed, loaderErr.Code)
}

func TestLoadFile_MalformedJSON(t *testing.T) {
	path := writeTemp(t, "policy.json", "{not json")
	_, err := LoadFile(path)
	loaderErr, ok := err.(*LoaderError)
	require.True(t, ok, "error should be *LoaderError, got %T", err)
	require.Equal(t, ErrCodeDecodeFailed, loaderErr.Code)
}
