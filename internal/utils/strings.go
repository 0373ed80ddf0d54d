package utils

import (
	"encoding/json"
	"strconv"
)

// JSONToString renders v as compact JSON for prompts, tool-call replays and
// log attributes. Values that cannot be encoded become {"error": "..."}.
func JSONToString(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return `{"error": ` + strconv.Quote("failed to marshal to JSON: "+err.Error()) + `}`
	}
	return string(encoded)
}
