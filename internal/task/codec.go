package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/studyplan/internal/utils"
)

//go:embed tasks.schema.json
var schemaJSON string

const schemaURL = "https://github.com/nibzard/studyplan/tasks.schema.json"

// ErrMalformed is returned by Decode when the blob cannot be used.
var ErrMalformed = errors.New("malformed task data")

// Schema returns the embedded JSON Schema document.
func Schema() string {
	return schemaJSON
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Encode serializes the collection. A nil slice encodes as an empty array.
func Encode(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("marshal tasks: %w", err)
	}
	return string(data), nil
}

// Decode parses and validates a serialized collection.
// Any failure is reported as an error wrapping ErrMalformed.
func Decode(blob string) ([]Task, error) {
	result := Validate(blob)
	if !result.Valid {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, errors.Join(result.Errors...))
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(blob), &tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // path to the error location, e.g. "[2].topic"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
	Count      int  // number of tasks in the blob, when it parsed
}

// Validate checks a serialized collection against the embedded schema and
// the invariants the schema cannot express.
func Validate(blob string) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	dec := json.NewDecoder(strings.NewReader(blob))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		result.fail(&ValidationError{Err: fmt.Errorf("parse: %w", err)})
		return result
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		result.fail(&ValidationError{Err: fmt.Errorf("parse: trailing data after collection")})
		return result
	}

	schema, err := compiledSchema()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("JSON Schema validation not available, using minimal checks: %v", err))
	} else {
		result.UsedSchema = true
		if err := schema.Validate(doc); err != nil {
			appendSchemaErrors(result, err)
			return result
		}
	}

	items, ok := doc.([]interface{})
	if !ok {
		result.fail(&ValidationError{Err: fmt.Errorf("expected an array of tasks")})
		return result
	}
	result.Count = len(items)

	var tasks []Task
	if err := json.Unmarshal([]byte(blob), &tasks); err != nil {
		result.fail(&ValidationError{Err: err})
		return result
	}
	validateMinimal(tasks, result)
	return result
}

func (r *ValidationResult) fail(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// validateMinimal covers what the schema cannot: unique ids, and the field
// rules when the schema is unavailable.
func validateMinimal(tasks []Task, result *ValidationResult) {
	seen := make(map[int64]int, len(tasks))
	for i, t := range tasks {
		path := fmt.Sprintf("[%d]", i)
		if first, dup := seen[t.ID]; dup {
			result.fail(&ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %d (first used at [%d])", t.ID, first),
			})
			continue
		}
		seen[t.ID] = i

		if result.UsedSchema {
			continue
		}
		if strings.TrimSpace(t.Topic) == "" {
			result.fail(&ValidationError{Path: path + ".topic", Err: ErrBlankTopic})
		}
		if !t.Priority.Valid() {
			result.fail(&ValidationError{
				Path: path + ".priority",
				Err:  fmt.Errorf("%w: got %q", ErrInvalidPriority, t.Priority),
			})
		}
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	result.Valid = false

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// Pretty re-indents a blob with 2-space indentation for display.
func Pretty(blob string) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(blob), "", "  "); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}
