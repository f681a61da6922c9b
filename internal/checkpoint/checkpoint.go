// Package checkpoint persists Stage 1A progress so interrupted batch runs
// can resume without re-extracting completed rows.
package checkpoint

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/masato/tag-generator/internal/types"
)

//go:embed schema.json
var checkpointSchema string

// ValidationError reports a checkpoint that parsed as JSON but violated
// the checkpoint schema. Callers treat it as "no checkpoint" and start
// fresh rather than resuming from a corrupt record.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid checkpoint: %s", strings.Join(e.Problems, "; "))
}

// decode parses and validates raw checkpoint JSON. Version mismatches are
// rejected the same way as schema violations.
func decode(raw []byte) (*types.Checkpoint, error) {
	schemaLoader := gojsonschema.NewStringLoader(checkpointSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate checkpoint: %w", err)
	}
	if !result.Valid() {
		verr := &ValidationError{}
		for _, desc := range result.Errors() {
			verr.Problems = append(verr.Problems, desc.String())
		}
		return nil, verr
	}

	var cp types.Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}
	if cp.Version != types.CheckpointVersion {
		return nil, &ValidationError{Problems: []string{
			fmt.Sprintf("unsupported checkpoint version %d", cp.Version),
		}}
	}
	return &cp, nil
}

func encode(cp *types.Checkpoint) ([]byte, error) {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	return data, nil
}
