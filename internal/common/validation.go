package common

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var tagSplitter = regexp.MustCompile(`[,\n]+`)

// ValidateStruct runs the `validate` tags of s, skipping the listed fields.
// Failures come back as *ValidationError naming the first offending field.
func ValidateStruct(s interface{}, skip ...string) error {
	var err error
	if len(skip) > 0 {
		err = validate.StructExcept(s, skip...)
	} else {
		err = validate.Struct(s)
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return NewValidationError(strings.ToLower(fe.Field()), describeTag(fe))
	}
	return NewValidationError("", err.Error())
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be an absolute URL"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// NormalizeTags trims, lower-cases and de-duplicates tag names keeping first-seen order.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, chunk := range raw {
		for _, name := range tagSplitter.Split(chunk, -1) {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// JoinTags renders tags the way payload rows cache them.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// SplitTags parses a cached tag list back into normalized names.
func SplitTags(cached string) []string {
	if strings.TrimSpace(cached) == "" {
		return nil
	}
	return NormalizeTags([]string{cached})
}
