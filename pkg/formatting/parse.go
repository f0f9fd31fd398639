package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON
// after code fences have been stripped.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile("(?s)```[A-Za-z]*\\s*\\n?(.*?)\\n?```")

// StripFences removes Markdown code-fence markers from content. When a fenced
// block is present its body is returned and any surrounding prose is dropped;
// otherwise stray fence markers are removed. The result is trimmed.
func StripFences(content string) string {
	content = strings.TrimSpace(content)

	if matches := jsonBlockRegex.FindStringSubmatch(content); len(matches) >= 2 {
		return strings.TrimSpace(matches[1])
	}

	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

// Parse unmarshals content into T. Content that is not a single JSON value
// as-is gets its code fences stripped and is decoded again, so fence markers
// inside string values of unfenced JSON are left alone.
// Trailing data after the first JSON value is rejected.
func Parse[T any](content string) (T, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		var zero T
		return zero, fmt.Errorf("%w: empty content", ErrParseFailed)
	}

	if result, err := decode[T](trimmed); err == nil {
		return result, nil
	}

	cleaned := StripFences(trimmed)
	if cleaned == "" {
		var zero T
		return zero, fmt.Errorf("%w: empty content", ErrParseFailed)
	}

	result, err := decode[T](cleaned)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return result, nil
}

func decode[T any](content string) (T, error) {
	var result T

	dec := json.NewDecoder(strings.NewReader(content))
	if err := dec.Decode(&result); err != nil {
		return result, err
	}
	if dec.More() {
		return result, errors.New("trailing data after JSON value")
	}
	return result, nil
}
