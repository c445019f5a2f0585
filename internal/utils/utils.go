// Package utils provides helpers for filename and title sanitization,
// output naming and UUID generation.
//
// Functions:
//   - SanitizeFilename: Returns a safe filename for storage.
//     Input: string (filename)
//     Output: string (sanitized filename)
//   - BaseName: Returns the filename without directory and extension.
//     Input: string (filename)
//     Output: string
//   - SanitizeTitle: Returns a printable outline title.
//     Input: string (title)
//     Output: string (title, "Untitled" if nothing printable remains)
//   - UniqueTitles: De-duplicates titles in order by appending " (2)", " (3)", ...
//     Input: []string
//     Output: []string (same length)
//   - GenerateUUID: Returns a new UUID string.
//     Output: string (UUID)
//
// Used throughout the backend for safe file handling and unique IDs.
package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const maxTitleLength = 120

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	safe := unsafeChars.ReplaceAllString(base, "_")
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe
}

func BaseName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func SanitizeTitle(title string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range title {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			lastSpace = true
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	clean := strings.TrimSpace(b.String())
	if r := []rune(clean); len(r) > maxTitleLength {
		clean = strings.TrimSpace(string(r[:maxTitleLength]))
	}
	if clean == "" {
		return "Untitled"
	}
	return clean
}

func UniqueTitles(titles []string) []string {
	out := make([]string, len(titles))
	seen := make(map[string]int, len(titles))
	for i, t := range titles {
		seen[t]++
		candidate := t
		for n := seen[t]; n > 1; n++ {
			candidate = fmt.Sprintf("%s (%d)", t, n)
			if seen[candidate] == 0 {
				seen[t] = n
				break
			}
		}
		if candidate != t {
			seen[candidate]++
		}
		out[i] = candidate
	}
	return out
}

func GenerateUUID() string {
	return uuid.New().String()
}
