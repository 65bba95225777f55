package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	idStripChars  = regexp.MustCompile(`[^0-9A-Za-z-]`)
)

// GenerateID derives the deterministic record id, which doubles as the
// citation key, from a format template. The template is a
// hyphen-separated list of field@N tokens: author@N contributes the
// first N author names (authors are separated by the literal " and "),
// each followed by a hyphen; any other field contributes the first N
// characters of its value, trimmed. The assembled string then has
// whitespace runs replaced with hyphens, characters outside
// [0-9A-Za-z-] stripped, and is lowercased.
//
// The same template and fields always produce the same id. Two distinct
// records can still collide when their leading author/title/year agree;
// the storage uniqueness constraint rejects the second insert rather
// than resolving the collision here.
func GenerateID(recordType, format string, fields map[string]string) (string, error) {
	if format == "" {
		return "", &ConfigurationError{RecordType: recordType, Format: format, Reason: "empty template"}
	}
	var b strings.Builder
	for _, token := range strings.Split(format, "-") {
		key, countRaw, ok := strings.Cut(token, "@")
		if !ok {
			return "", &ConfigurationError{
				RecordType: recordType,
				Format:     format,
				Reason:     fmt.Sprintf("malformed token %q", token),
			}
		}
		count, err := strconv.Atoi(countRaw)
		if err != nil || count < 1 {
			return "", &ConfigurationError{
				RecordType: recordType,
				Format:     format,
				Reason:     fmt.Sprintf("malformed token %q", token),
			}
		}
		value, ok := fields[key]
		if !ok || value == "" {
			return "", &ConfigurationError{
				RecordType: recordType,
				Format:     format,
				Field:      key,
				Reason:     "is absent from the record",
			}
		}
		if key == FieldAuthor {
			authors := strings.Split(value, " and ")
			if count > len(authors) {
				count = len(authors)
			}
			for _, author := range authors[:count] {
				b.WriteString(strings.TrimSpace(author))
				b.WriteString("-")
			}
		} else {
			runes := []rune(value)
			if count < len(runes) {
				runes = runes[:count]
			}
			b.WriteString(strings.TrimSpace(string(runes)))
		}
	}
	id := whitespaceRun.ReplaceAllString(b.String(), "-")
	id = idStripChars.ReplaceAllString(id, "")
	return strings.ToLower(id), nil
}
