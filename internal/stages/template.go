package stages

import (
	"fmt"
	"regexp"
	"slices"
)

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Placeholders returns the distinct slot names in template, in order of first use.
func Placeholders(template string) []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// Resolve substitutes every {name} slot in template with params[name].
// Braces that do not form a slot are left as written.
func Resolve(template string, params map[string]string) (string, error) {
	for _, name := range Placeholders(template) {
		if _, ok := params[name]; !ok {
			return "", fmt.Errorf("%w: %s", ErrMissingParam, name)
		}
	}

	return placeholder.ReplaceAllStringFunc(template, func(slot string) string {
		return params[slot[1:len(slot)-1]]
	}), nil
}

// Validate checks that template names exactly the required slots.
func Validate(template string, required ...string) error {
	names := Placeholders(template)

	for _, name := range required {
		if !slices.Contains(names, name) {
			return fmt.Errorf("%w: %s", ErrMissingPlaceholder, name)
		}
	}
	for _, name := range names {
		if !slices.Contains(required, name) {
			return fmt.Errorf("%w: %s", ErrUnknownPlaceholder, name)
		}
	}
	return nil
}
