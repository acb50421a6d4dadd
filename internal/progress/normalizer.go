// Package progress derives a student's course completion state from the
// loosely typed task and enrollment lists stored on the student document.
//
// Everything in this package is synchronous and free of I/O; persistence of
// the results belongs to the service layer.
package progress

import (
	"regexp"
	"strings"
)

var (
	numericSlugLevel = regexp.MustCompile(`(?:^|-)level-(\d+)$`)
	wordSlugLevel    = regexp.MustCompile(`(?:^|-)level-(beginner|intermediate|advanced|expert)$`)
	labelLevel       = regexp.MustCompile(`(?i)^(.*?)\s+level\s+(\d+|beginner|intermediate|advanced|expert)\s*$`)
)

var levelWords = map[string]string{
	"beginner":     "1",
	"intermediate": "2",
	"advanced":     "3",
	"expert":       "4",
}

// CourseRef is a course identity resolved from a slug.
type CourseRef struct {
	// Name is the course name as stored on enrollments, without the level.
	Name string `json:"name"`
	// Level is the numeric level code, empty when the slug carries none.
	Level string `json:"level"`
	// Display is Name with " Level <n>" appended when a level is known.
	Display string `json:"display"`
}

// Normalizer turns URL slugs into course identities using a token table.
type Normalizer struct {
	tokens *TokenTable
}

// NewNormalizer builds a normalizer. A nil table selects the bundled one.
func NewNormalizer(tokens *TokenTable) *Normalizer {
	if tokens == nil {
		tokens = DefaultTokenTable()
	}
	return &Normalizer{tokens: tokens}
}

// NormalizeSlug converts a hyphenated slug such as "web-designing-level-2"
// into CourseRef{Name: "Web Designing", Level: "2", Display: "Web Designing Level 2"}.
func (n *Normalizer) NormalizeSlug(slug string) CourseRef {
	working := strings.ToLower(strings.TrimSpace(slug))
	if working == "" {
		return CourseRef{}
	}

	var level string
	if m := numericSlugLevel.FindStringSubmatch(working); m != nil {
		level = m[1]
		working = working[:len(working)-len(m[0])]
	} else if m := wordSlugLevel.FindStringSubmatch(working); m != nil {
		level = m[1]
		working = working[:len(working)-len(m[0])]
	}

	tokens := strings.Fields(strings.ReplaceAll(working, "-", " "))
	for i, token := range tokens {
		tokens[i] = n.tokens.Apply(token)
	}
	ref := CourseRef{Name: strings.Join(tokens, " "), Level: CanonicalLevel(level)}
	ref.Display = ref.Name
	if ref.Level != "" {
		ref.Display = strings.TrimSpace(ref.Name + " Level " + ref.Level)
	}
	return ref
}

// ExtractCourseAndLevel splits a free-text label into course name and level.
// "Name|Level" is split on the first pipe, "Name Level 2" loses its suffix, and
// anything else is returned with an empty level. Values are never recapitalised
// and level words are left as written.
func ExtractCourseAndLevel(label string) (string, string) {
	if i := strings.Index(label, "|"); i >= 0 {
		return strings.TrimSpace(label[:i]), strings.TrimSpace(label[i+1:])
	}
	if m := labelLevel.FindStringSubmatch(label); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	return strings.TrimSpace(label), ""
}

// IsSameCourseAndLevel is the one equality predicate for course identities.
// Names compare case-insensitively with whitespace collapsed; levels compare
// after CanonicalLevel, so a missing level only equals another missing level.
func IsSameCourseAndLevel(nameA, levelA, nameB, levelB string) bool {
	return foldName(nameA) == foldName(nameB) && CanonicalLevel(levelA) == CanonicalLevel(levelB)
}

// CanonicalLevel trims and lower-cases a level and maps level words to digits.
func CanonicalLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if digit, ok := levelWords[level]; ok {
		return digit
	}
	return level
}

func foldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
