package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError means a model completion could not be recovered into a JSON
// object. Raw carries the original completion for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing model response: %v (raw: %q)", e.Err, e.Raw)
	}
	return fmt.Sprintf("model response is not a JSON object (raw: %q)", e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// sanitizeJSON turns a raw model completion into a single valid JSON object,
// tolerating the common failure modes: surrounding whitespace, markdown code
// fences, and two concatenated objects. It never defaults to an empty object;
// if no object can be recovered it returns a ParseError.
func sanitizeJSON(raw string) ([]byte, error) {
	text := strings.TrimSpace(raw)
	text = stripCodeFence(text)
	text = firstObject(text)

	if obj, err := parseObject(text); err == nil {
		return obj, nil
	}

	// Fallback: extract from the first '{' to the last '}' of the original
	// response and retry with the same duplicate-object fix.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		candidate := firstObject(raw[start : end+1])
		if obj, err := parseObject(candidate); err == nil {
			return obj, nil
		}
	}

	return nil, &ParseError{Raw: raw}
}

// stripCodeFence removes ```json ... ``` or ``` ... ``` wrappers.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.Trim(text, "`")
	if strings.HasPrefix(text, "json") {
		text = text[len("json"):]
	}
	return strings.TrimSpace(text)
}

// firstObject keeps only the first object when the model emitted two
// concatenated ones ("}{"). A known model failure mode; not generalized
// beyond the adjacent-brace case.
func firstObject(text string) string {
	if idx := strings.Index(text, "}{"); idx != -1 {
		return text[:idx+1]
	}
	return text
}

// parseObject strictly parses text as a single JSON object.
func parseObject(text string) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("JSON null is not an object")
	}
	return []byte(text), nil
}
