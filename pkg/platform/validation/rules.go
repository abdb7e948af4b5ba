package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxIdentifierLength bounds every record identifier accepted at the boundary.
const MaxIdentifierLength = 128

var formats = validator.New()

// Rule checks a single value. It returns nil when the value is acceptable.
type Rule[T any] func(field string, value T) *Violation

// Check runs rules in order against value and records the first failure.
// It reports whether every rule passed.
func Check[T any](vs *Violations, field string, value T, rules ...Rule[T]) bool {
	for _, rule := range rules {
		if v := rule(field, value); v != nil {
			vs.Add(*v)
			return false
		}
	}
	return true
}

// Require records a required-field violation unless o carries a non-null value.
func Require[T any](vs *Violations, field string, o Opt[T]) bool {
	if !o.Set || o.Null {
		vs.Add(Shape(field, RuleRequired, "is required"))
		return false
	}
	return true
}

// Present reports whether o carries a value. An explicit null is recorded as
// a violation: absence is expressed by leaving the key out.
func Present[T any](vs *Violations, field string, o Opt[T]) bool {
	if !o.Set {
		return false
	}
	if o.Null {
		vs.Add(Shape(field, RuleNotNull, "must not be null"))
		return false
	}
	return true
}

func violation(v Violation) *Violation {
	return &v
}

// NonBlank rejects the empty string.
func NonBlank() Rule[string] {
	return func(field, value string) *Violation {
		if value == "" {
			return violation(Shape(field, RuleRequired, "must not be empty"))
		}
		return nil
	}
}

// MinLen rejects strings shorter than n characters.
func MinLen(n int) Rule[string] {
	return func(field, value string) *Violation {
		if utf8.RuneCountInString(value) < n {
			return violation(Shape(field, RuleMinLength, fmt.Sprintf("must be at least %d characters", n)))
		}
		return nil
	}
}

// MaxLen rejects strings longer than n characters.
func MaxLen(n int) Rule[string] {
	return func(field, value string) *Violation {
		if utf8.RuneCountInString(value) > n {
			return violation(Shape(field, RuleMaxLength, fmt.Sprintf("must be at most %d characters", n)))
		}
		return nil
	}
}

// EmailOrEmpty accepts a well-formed address or the empty string, which
// stands for "no email on file".
func EmailOrEmpty() Rule[string] {
	return func(field, value string) *Violation {
		if value == "" {
			return nil
		}
		if err := formats.Var(value, "email"); err != nil {
			return violation(Shape(field, RuleEmail, "must be a valid email address or empty"))
		}
		return nil
	}
}

// Identifier checks the shape of a record reference. Existence is the
// store's concern.
func Identifier() Rule[string] {
	return func(field, value string) *Violation {
		if msg := IdentifierProblem(value); msg != "" {
			return violation(Shape(field, RuleIdentifier, msg))
		}
		return nil
	}
}

// IdentifierProblem describes why s is not a usable identifier, or returns ""
// when it is.
func IdentifierProblem(s string) string {
	switch {
	case s == "":
		return "must not be empty"
	case len(s) > MaxIdentifierLength:
		return fmt.Sprintf("must be at most %d bytes", MaxIdentifierLength)
	case !utf8.ValidString(s):
		return "must be valid UTF-8"
	}
	for _, r := range s {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return "must not contain whitespace or control characters"
		}
	}
	return ""
}

// Enum accepts only the listed members, compared verbatim.
func Enum[T ~string](allowed ...T) Rule[string] {
	return func(field, value string) *Violation {
		for _, a := range allowed {
			if string(a) == value {
				return nil
			}
		}
		names := make([]string, len(allowed))
		for i, a := range allowed {
			names[i] = string(a)
		}
		return &Violation{
			Field:   field,
			Kind:    KindEnum,
			Rule:    RuleEnum,
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(names, ", "), value),
		}
	}
}

// MaxItems bounds the length of a list.
func MaxItems[T any](n int) Rule[[]T] {
	return func(field string, value []T) *Violation {
		if len(value) > n {
			return violation(Shape(field, RuleMaxItems, fmt.Sprintf("must have at most %d items", n)))
		}
		return nil
	}
}

// Each applies rules to every item, reporting the first failing item as
// field[i].
func Each(rules ...Rule[string]) Rule[[]string] {
	return func(field string, value []string) *Violation {
		for i, item := range value {
			name := fmt.Sprintf("%s[%d]", field, i)
			for _, rule := range rules {
				if v := rule(name, item); v != nil {
					return v
				}
			}
		}
		return nil
	}
}

// IntBetween accepts min <= value <= max.
func IntBetween(min, max int) Rule[int] {
	return func(field string, value int) *Violation {
		if value < min || value > max {
			return violation(Shape(field, RuleRange, fmt.Sprintf("must be between %d and %d", min, max)))
		}
		return nil
	}
}

// IntAtLeast accepts value >= min.
func IntAtLeast(min int) Rule[int] {
	return func(field string, value int) *Violation {
		if value < min {
			return violation(Shape(field, RuleRange, fmt.Sprintf("must be at least %d", min)))
		}
		return nil
	}
}
