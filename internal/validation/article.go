package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	titleMinLength = 1
	titleMaxLength = 200
	tagMaxLength   = 40
)

var tagRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateArticleTitle checks length bounds on an article title.
func ValidateArticleTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if len(trimmed) < titleMinLength {
		return fmt.Errorf("title is required")
	}
	if len(trimmed) > titleMaxLength {
		return fmt.Errorf("title must be at most %d characters", titleMaxLength)
	}
	return nil
}

// ValidateTag checks a single normalized tag.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag cannot be empty")
	}
	if len(tag) > tagMaxLength {
		return fmt.Errorf("tag must be at most %d characters", tagMaxLength)
	}
	if !tagRegex.MatchString(tag) {
		return fmt.Errorf("tag may contain only lowercase letters, numbers, and hyphens")
	}
	if strings.HasPrefix(tag, "-") || strings.HasSuffix(tag, "-") {
		return fmt.Errorf("tag cannot start or end with a hyphen")
	}
	return nil
}
