// Package optionset manages the reusable option libraries: rating scales
// and the radio/multiselect/select option sets. Fields reference a set by
// id, never by embedded value once a reference exists.
package optionset

import (
	"errors"
	"time"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/survey"
)

// Kind discriminates the four independent registries. Each kind is its own
// namespace: names are unique per kind, not globally.
type Kind string

const (
	KindRatingScale Kind = "rating_scale"
	KindRadio       Kind = "radio"
	KindMultiSelect Kind = "multiselect"
	KindSelect      Kind = "select"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindRatingScale, KindRadio, KindMultiSelect, KindSelect:
		return Kind(s), nil
	default:
		return "", internal.ErrInvalidOptionSetKind
	}
}

type OptionSet struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Options     []survey.Option `json:"options"`
	IsActive    bool            `json:"isActive"`
	Metadata    survey.Metadata `json:"metadata"`
}

// Registry is a loaded snapshot of one kind's sets, keyed by id. The zero
// value is the not-yet-loaded state, which is distinct from a loaded
// registry that simply has no entries.
type Registry struct {
	kind     Kind
	sets     map[string]OptionSet
	loaded   bool
	loadedAt time.Time
}

func NewRegistry(kind Kind, sets []OptionSet, loadedAt time.Time) *Registry {
	byID := make(map[string]OptionSet, len(sets))
	for _, set := range sets {
		byID[set.ID] = set
	}
	return &Registry{kind: kind, sets: byID, loaded: true, loadedAt: loadedAt}
}

func (r *Registry) Loaded() bool {
	return r != nil && r.loaded
}

// Get looks up a set by id. The not-loaded error tells callers to show a
// loading state instead of treating the set as having no options.
func (r *Registry) Get(id string) (OptionSet, error) {
	if !r.Loaded() {
		return OptionSet{}, internal.ErrRegistryNotLoaded
	}
	set, ok := r.sets[id]
	if !ok {
		return OptionSet{}, internal.ErrOptionSetNotFound
	}
	return set, nil
}

// Resolve returns a field's effective option list: the referenced scale's
// options when ratingScaleId is set, the inline options otherwise. Imported
// configs can carry scale ids minted by another installation, so an id miss
// falls back to the stored scale name before failing.
func (r *Registry) Resolve(f survey.Field) ([]survey.Option, error) {
	if f.RatingScaleID == "" {
		return f.Options, nil
	}
	set, err := r.Get(f.RatingScaleID)
	if errors.Is(err, internal.ErrOptionSetNotFound) && f.RatingScaleName != "" {
		if byName, ok := r.getByName(f.RatingScaleName); ok {
			return byName.Options, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return set.Options, nil
}

func (r *Registry) getByName(name string) (OptionSet, bool) {
	for _, set := range r.sets {
		if set.Name == name {
			return set, true
		}
	}
	return OptionSet{}, false
}
