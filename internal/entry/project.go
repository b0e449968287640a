package entry

import (
	"net/url"
	"strings"
	"unicode"
)

var segmentCleaner = strings.NewReplacer("-", " ", "_", " ")

// ProjectFromCwd humanizes a working-directory path into a project name:
// URL-decode, take the last path segment, turn dashes and underscores into
// spaces, collapse whitespace, and title-case each word.
//
//	"/home/user/projects/my-cool_app" -> "My Cool App"
//
// Empty or undecodable input yields UnknownProject.
func ProjectFromCwd(cwd string) string {
	if cwd == "" {
		return UnknownProject
	}

	decoded, err := url.QueryUnescape(cwd)
	if err != nil {
		return UnknownProject
	}

	segments := strings.FieldsFunc(decoded, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(segments) == 0 {
		return UnknownProject
	}

	tail := segmentCleaner.Replace(segments[len(segments)-1])
	words := strings.Fields(tail)
	if len(words) == 0 {
		return UnknownProject
	}

	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
