package reader

import (
	"fmt"
	"strings"

	"github.com/mizutori/nosread/pkg/domain"
)

// Validator validates subscription filters
type Validator struct{}

// NewValidator creates a new filter validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks a filter before it is encoded into a REQ frame
func (v *Validator) Validate(f domain.Filter) error {
	if len(f.Kinds) == 0 {
		return fmt.Errorf("filter must name at least one kind")
	}

	for _, kind := range f.Kinds {
		if kind < 0 {
			return fmt.Errorf("invalid kind %d: kinds must be non-negative", kind)
		}
	}

	if f.Limit < 1 {
		return fmt.Errorf("invalid limit %d: limit must be at least 1", f.Limit)
	}

	for name, value := range f.TagFilters {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("tag name is required")
		}
		if strings.HasPrefix(name, "#") {
			return fmt.Errorf("tag name %q must not carry the # prefix; it is added on encoding", name)
		}
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("tag %q requires a value", name)
		}
	}

	return nil
}
