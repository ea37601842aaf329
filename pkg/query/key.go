package query

import (
	"encoding/json"
	"fmt"
)

// Key identifies a cached query, e.g. Key{"auth", "me"}. Elements must be
// JSON-encodable; two keys are equal when their encodings are.
type Key []any

func (k Key) hash() string {
	b, err := json.Marshal([]any(k))
	if err != nil {
		return fmt.Sprintf("%#v", []any(k))
	}
	return string(b)
}

// HasPrefix reports whether k starts with every element of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	return k[:len(prefix)].hash() == prefix.hash()
}

func (k Key) String() string {
	return k.hash()
}
