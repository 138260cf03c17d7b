package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

// ErrUnparseable matches every *UnparseableError via errors.Is.
var ErrUnparseable = errors.New("unparseable completion")

// UnparseableError is returned when a reply is not JSON or does not match
// the expected schema.
type UnparseableError struct {
	Schema  string
	Raw     string
	Reasons []string
}

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("unparseable completion for %s: %s", e.Schema, strings.Join(e.Reasons, "; "))
}

func (e *UnparseableError) Is(target error) bool { return target == ErrUnparseable }

// Schema validates replies against a JSON schema before decoding them.
type Schema struct {
	name string
	rs   *jsonschema.Schema
}

// MustSchema compiles src or panics. Schemas are package-level constants, so
// a bad one is a programming error.
func MustSchema(name, src string) *Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic(fmt.Sprintf("completion: invalid schema %s: %v", name, err))
	}
	return &Schema{name: name, rs: rs}
}

func (s *Schema) Name() string { return s.name }

// Decode extracts the JSON payload from text, validates it and unmarshals it
// into out.
func (s *Schema) Decode(ctx context.Context, text string, out interface{}) error {
	payload := ExtractJSON(text)
	if payload == "" {
		return &UnparseableError{Schema: s.name, Raw: text, Reasons: []string{"no JSON value found"}}
	}

	verrs, err := s.rs.ValidateBytes(ctx, []byte(payload))
	if err != nil {
		return &UnparseableError{Schema: s.name, Raw: text, Reasons: []string{err.Error()}}
	}
	if len(verrs) > 0 {
		reasons := make([]string, 0, len(verrs))
		for _, v := range verrs {
			reasons = append(reasons, strings.TrimSpace(v.PropertyPath+" "+v.Message))
		}
		return &UnparseableError{Schema: s.name, Raw: text, Reasons: reasons}
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return &UnparseableError{Schema: s.name, Raw: text, Reasons: []string{err.Error()}}
	}
	return nil
}

// Ask sends prompt through c and decodes the reply with s.
func Ask(ctx context.Context, c Completer, s *Schema, prompt string, out interface{}) error {
	text, err := c.Complete(ctx, prompt)
	if err != nil {
		return err
	}
	return s.Decode(ctx, text, out)
}

// ExtractJSON strips markdown fences and returns the outermost JSON object or
// array in s, or "" when there is none.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	obj := strings.Index(s, "{")
	arr := strings.Index(s, "[")
	open, closer := obj, "}"
	if obj == -1 || (arr != -1 && arr < obj) {
		open, closer = arr, "]"
	}
	if open == -1 {
		return ""
	}
	last := strings.LastIndex(s, closer)
	if last < open {
		return ""
	}
	return s[open : last+1]
}
