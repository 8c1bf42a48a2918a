package plan

import (
	"regexp"
	"strings"
)

// Fallback parameter defaults. Extraction never fails a plan; when no
// pattern matches, the literal default is used instead.
const (
	defaultFilename    = "new_file.txt"
	defaultPackage     = "express"
	defaultCommand     = `echo "Hello World"`
	defaultModifyFile  = "file.txt"
	defaultModifyValue = "modified content"
	defaultProjectName = "project"
)

var (
	// "called notes.txt" / "named config.yaml"
	namedFileRe = regexp.MustCompile(`(?i)(?:called|named)\s+([\w][\w.-]*)`)

	// any bare token with a file extension
	extensionRe = regexp.MustCompile(`\b([\w-]+\.[A-Za-z0-9]{1,8})\b`)

	// "install [the] [package] lodash"
	packageRe = regexp.MustCompile(`(?i)\b(?:install|add)\s+(?:the\s+)?(?:packages|package|dependencies|dependency|module)?\s*([a-z0-9@][\w@/.-]*)`)

	// quoted or backticked command text
	quotedRe = regexp.MustCompile("[`\"']([^`\"']+)[`\"']")

	// "run [the] [command] npm test"
	commandRe = regexp.MustCompile(`(?i)\b(?:run|execute|launch)\s+(?:the\s+)?(?:command\s+|script\s+)?([^,.;]+)`)

	// "setup project in ./server" / "initialize the api workspace"
	dirRe     = regexp.MustCompile(`(?i)\b(?:in|at|under|to)\s+([\w./-]+)`)
	projectRe = regexp.MustCompile(`(?i)\b(?:project|workspace|environment|repo)\s+(?:called\s+|named\s+)?([\w-]+)`)
)

// packageStopWords are tokens the package matcher can capture that are
// connective words rather than package names.
var packageStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "then": true, "it": true,
}

// extractFilename pulls a target filename out of the instruction text.
func extractFilename(text string) string {
	if m := namedFileRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := extensionRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return defaultFilename
}

// extractPackage pulls a package name out of the instruction text.
func extractPackage(text string) string {
	if m := packageRe.FindStringSubmatch(text); m != nil {
		candidate := strings.ToLower(m[1])
		if !packageStopWords[candidate] {
			return m[1]
		}
	}
	return defaultPackage
}

// extractCommand pulls a shell command out of the instruction text.
// Quoted text wins over the looser run/execute capture.
func extractCommand(text string) string {
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := commandRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return defaultCommand
}

// extractModification pulls a modification target and replacement content.
// Always returns exactly two parameters.
func extractModification(text string) []string {
	target := defaultModifyFile
	if m := extensionRe.FindStringSubmatch(text); m != nil {
		target = m[1]
	}

	content := defaultModifyValue
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		content = m[1]
	}

	return []string{target, content}
}

// extractProjectName pulls a directory or project name for environment setup.
func extractProjectName(text string) string {
	if m := dirRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := projectRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return defaultProjectName
}
