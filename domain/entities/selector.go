package entities

import (
	"fmt"
	"regexp"
)

// DefaultSelectorAttribute is the DOM attribute "@name" shorthand resolves against
const DefaultSelectorAttribute = "dusk"

var shorthandPattern = regexp.MustCompile(`@(\S+)`)

// SelectorResolver turns "@name" shorthand into CSS attribute selectors
type SelectorResolver struct {
	Attribute string
}

// NewSelectorResolver - creates resolver for attribute, empty means DefaultSelectorAttribute
func NewSelectorResolver(attribute string) SelectorResolver {
	if attribute == "" {
		attribute = DefaultSelectorAttribute
	}
	return SelectorResolver{Attribute: attribute}
}

// Resolve - replaces every "@token" with [attribute="token"], leaving plain CSS untouched
func (r SelectorResolver) Resolve(selector string) string {
	attribute := r.Attribute
	if attribute == "" {
		attribute = DefaultSelectorAttribute
	}
	return shorthandPattern.ReplaceAllStringFunc(selector, func(m string) string {
		return fmt.Sprintf(`[%s="%s"]`, attribute, m[1:])
	})
}
