package chunk

import (
	"path/filepath"
	"strings"

	"github.com/poiesic/loom/core"
)

// languageByExtension maps common file extensions to language labels.
var languageByExtension = map[string]string{
	"go":    "go",
	"py":    "python",
	"js":    "javascript",
	"jsx":   "javascript",
	"ts":    "typescript",
	"tsx":   "typescript",
	"java":  "java",
	"rb":    "ruby",
	"rs":    "rust",
	"c":     "c",
	"h":     "c",
	"cpp":   "cpp",
	"cc":    "cpp",
	"hpp":   "cpp",
	"cs":    "csharp",
	"php":   "php",
	"swift": "swift",
	"kt":    "kotlin",
	"scala": "scala",
	"sh":    "shell",
	"bash":  "shell",
	"sql":   "sql",
	"html":  "html",
	"css":   "css",
	"json":  "json",
	"yaml":  "yaml",
	"yml":   "yaml",
	"toml":  "toml",
	"md":    "markdown",
	"mdx":   "markdown",
	"txt":   "text",
}

// InferLanguage infers a language label from a file path's extension.
// Unknown extensions pass through as the label; files without an extension
// are labeled "text".
func InferLanguage(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "text"
	}
	if language, ok := languageByExtension[ext]; ok {
		return language
	}
	return ext
}

// FileTypeFor classifies a file as markdown or code for extraction purposes.
func FileTypeFor(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "md", "mdx", "markdown":
		return core.FileTypeMarkdown
	default:
		return core.FileTypeCode
	}
}
