package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeExercises serializes an exercise list to the JSON array string used
// on the wire and in the workouts table. A nil list encodes as "[]".
// Entries must be valid UTF-8: JSON replaces invalid bytes with U+FFFD, so
// only valid UTF-8 lists survive DecodeExercises unchanged. The service
// rejects request bodies that are not valid UTF-8.
func EncodeExercises(list []string) string {
	if list == nil {
		list = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a []string cannot fail.
	_ = enc.Encode(list)
	return strings.TrimRight(buf.String(), "\n")
}

// DecodeExercises parses a JSON array string into an exercise list.
// Empty input and "null" decode to an empty, non-nil list.
func DecodeExercises(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return []string{}, nil
	}

	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, fmt.Errorf("decoding exercises: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}
