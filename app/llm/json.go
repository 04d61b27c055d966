package llm

import (
	"strings"
)

// CleanJSONResponse strips markdown fences and surrounding prose from a
// model response, leaving the outermost JSON object or array.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around the JSON.
	objStart := strings.Index(content, "{")
	arrStart := strings.Index(content, "[")

	start := objStart
	end := strings.LastIndex(content, "}")
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		start = arrStart
		end = strings.LastIndex(content, "]")
	}

	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
