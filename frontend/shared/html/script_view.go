package html

import "encoding/json"

// JSString quotes s as a JavaScript string literal safe inside a <script> block.
func JSString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	// json.Marshal escapes <, > and & by default, so a closing script tag cannot end the block.
	return string(b)
}
