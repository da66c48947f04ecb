package application

import (
	"strings"

	"github.com/AranL152/GeetCode/internal/domain/model"
)

// languageExtensions maps the languages the remote judge reports to file
// extensions. Lookups are case-insensitive; unknown languages fall back to txt.
var languageExtensions = map[string]string{
	"c":          "c",
	"cpp":        "cpp",
	"c++":        "cpp",
	"csharp":     "cs",
	"c#":         "cs",
	"java":       "java",
	"python":     "py",
	"python3":    "py",
	"go":         "go",
	"golang":     "go",
	"javascript": "js",
	"typescript": "ts",
	"ruby":       "rb",
	"swift":      "swift",
	"kotlin":     "kt",
	"rust":       "rs",
	"scala":      "scala",
	"php":        "php",
	"dart":       "dart",
	"elixir":     "ex",
	"erlang":     "erl",
	"racket":     "rkt",
	"mysql":      "sql",
	"mssql":      "sql",
	"oraclesql":  "sql",
	"postgresql": "sql",
	"bash":       "sh",
}

// titleSanitizer replaces characters that are unsafe in a repository file
// path with "-".
var titleSanitizer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	"?", "-",
	"%", "-",
	"*", "-",
	":", "-",
	"|", "-",
	`"`, "-",
	"<", "-",
	">", "-",
)

// ExtensionFor returns the file extension for a judge language name.
func ExtensionFor(language string) string {
	if ext, ok := languageExtensions[strings.ToLower(language)]; ok {
		return ext
	}
	return "txt"
}

// SanitizeTitle makes a problem title safe to use as a file name.
func SanitizeTitle(title string) string {
	return titleSanitizer.Replace(title)
}

// SolutionPath derives the destination path for a submission:
// "<sanitizedTitle>.<ext>".
func SolutionPath(sub model.Submission) string {
	return SanitizeTitle(sub.ProblemTitle) + "." + ExtensionFor(sub.Language)
}

// DefaultCommitMessage is the commit message used when the caller supplies
// none.
func DefaultCommitMessage(sub model.Submission) string {
	return SanitizeTitle(sub.ProblemTitle) + " Solved"
}
