package survey

import (
	"fmt"
	"strings"

	"survey-studio/backend/internal"
)

// ErrOptionConfig reports fields whose type needs an option source but has
// neither inline options nor a rating scale reference. The whole config is
// rejected; no partial save occurs.
type ErrOptionConfig struct {
	FieldLabels []string
}

func (e ErrOptionConfig) Error() string {
	return fmt.Sprintf("fields missing option configuration: %s", strings.Join(e.FieldLabels, ", "))
}

func (e ErrOptionConfig) Unwrap() error {
	return internal.ErrValidationFailed
}

// ErrContentRef reports a section whose content ordering references an id
// that no longer exists among its fields or subsections.
type ErrContentRef struct {
	SectionID string
}

func (e ErrContentRef) Error() string {
	return fmt.Sprintf("section %s content references a missing field or subsection", e.SectionID)
}

func (e ErrContentRef) Unwrap() error {
	return internal.ErrValidationFailed
}

// ValidateForSave gates persistence on structural well-formedness. Any
// radio/multiselect/rating field must carry either a non-empty inline
// option list or a rating scale reference, never neither. Exclusivity is
// also settled here: a field holding a scale reference must have an empty
// inline option list.
func ValidateForSave(cfg Config) error {
	var offending []string

	check := func(f Field) {
		if !f.Type.HasOptions() {
			return
		}
		if f.RatingScaleID != "" {
			if len(f.Options) > 0 {
				offending = append(offending, f.Label)
			}
			return
		}
		if len(f.Options) == 0 {
			offending = append(offending, f.Label)
		}
	}

	for i := range cfg.Sections {
		section := &cfg.Sections[i]
		if !section.ContentValid() {
			return ErrContentRef{SectionID: section.ID}
		}
		for _, f := range section.Fields {
			check(f)
		}
		for _, sub := range section.Subsections {
			for _, f := range sub.Fields {
				check(f)
			}
		}
	}

	if len(offending) > 0 {
		return ErrOptionConfig{FieldLabels: offending}
	}
	return nil
}
