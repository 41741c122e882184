// Package lang maps source files to language names for the reviewer prompt.
package lang

import (
	"path/filepath"
	"strings"
)

var byExtension = map[string]string{
	".go":    "Go",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".py":    "Python",
	".java":  "Java",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".hpp":   "C++",
	".rs":    "Rust",
	".rb":    "Ruby",
	".php":   "PHP",
	".cs":    "C#",
	".swift": "Swift",
	".kt":    "Kotlin",
	".scala": "Scala",
}

// Detect names the language of the file at path by its extension. Unknown or
// missing extensions return an empty string and the caller leaves the
// language out of the prompt.
func Detect(path string) string {
	return byExtension[strings.ToLower(filepath.Ext(path))]
}
