package entities

import "fmt"

// DefaultMode is the presentation variant used when none is given
const DefaultMode = "input"

// ResultWindow is how many result positions the bounded assertions inspect
const ResultWindow = 5

// FieldReference identifies a searchable field on a form
type FieldReference struct {
	attribute string
	mode      string
}

// NewFieldReference - creates field reference, empty mode falls back to DefaultMode
func NewFieldReference(attribute string, mode string) FieldReference {
	if mode == "" {
		mode = DefaultMode
	}
	return FieldReference{attribute: attribute, mode: mode}
}

func (f FieldReference) Attribute() string { return f.attribute }

func (f FieldReference) Mode() string { return f.mode }

// Selector - returns the root selector of the field
func (f FieldReference) Selector() string {
	return fmt.Sprintf("@%s-search-%s", f.attribute, f.mode)
}

// Dropdown - returns the selector of the result dropdown
func (f FieldReference) Dropdown() string {
	return f.Selector() + "-dropdown"
}

// SearchInput - returns the selector of the query input inside the dropdown
func (f FieldReference) SearchInput() string {
	return f.Dropdown() + ` input[type="search"]`
}

// ClearButton - returns the selector of the button that clears the selection
func (f FieldReference) ClearButton() string {
	return f.Selector() + "-clear-button"
}

// Result - returns the selector of the result at index (0-based, DOM order)
func (f FieldReference) Result(index int) string {
	return fmt.Sprintf("%s-result-%d", f.Selector(), index)
}

// Selected - returns the selector of the element showing the selected value
func (f FieldReference) Selected() string {
	return f.Selector() + "-selected"
}

// Results - returns the selector of the aggregate results container
func (f FieldReference) Results() string {
	return f.Selector() + "-results"
}

func (f FieldReference) String() string {
	return f.Selector()
}
