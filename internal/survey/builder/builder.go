// Package builder holds one survey config under edit and applies structural
// edits atomically and immutably. A failed command leaves the previous state
// intact so the caller can retry.
package builder

import (
	"time"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/survey"
)

// State is the full builder state: the config under edit plus UI selection
// and modal-visibility flags. It is an explicit value passed by ownership;
// there is no ambient global store.
type State struct {
	Config            survey.Config
	SelectedSectionID string
	SelectedFieldID   string
	ShowSectionModal  bool
	ShowFieldModal    bool
}

// Store owns a State and a clock. Edits flow through Apply; reads get a
// deep copy so callers can never mutate the held tree in place.
type Store struct {
	state State
	now   func() time.Time
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{now: now}
}

// State returns a deep copy of the current builder state.
func (s *Store) State() State {
	out := s.state
	out.Config = s.state.Config.Clone()
	return out
}

// Apply runs one command against the current state. On error the held
// state is unchanged.
func (s *Store) Apply(cmd Command) error {
	next, err := Apply(s.state, cmd, s.now())
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Apply is the single pure transition function over builder state. It never
// mutates its input: the config tree is cloned before any edit.
func Apply(state State, cmd Command, now time.Time) (State, error) {
	next := state
	next.Config = state.Config.Clone()

	touched := true
	switch c := cmd.(type) {
	case SetConfig:
		cfg := c.Config.Clone()
		cfg.Normalize()
		next.Config = cfg
		next.SelectedSectionID = ""
		next.SelectedFieldID = ""
		touched = false

	case AddSection:
		section := c.Section
		if section.Fields == nil {
			section.Fields = []survey.Field{}
		}
		if section.Subsections == nil {
			section.Subsections = []survey.Subsection{}
		}
		if section.Content == nil {
			section.Content = []survey.ContentRef{}
		}
		next.Config.Sections = append(next.Config.Sections, section)

	case UpdateSection:
		section := next.Config.FindSection(c.SectionID)
		if section == nil {
			return state, internal.ErrSectionNotFound
		}
		if c.Title != nil {
			section.Title = *c.Title
		}
		if c.Type != nil {
			section.Type = *c.Type
		}

	case DeleteSection:
		idx := -1
		for i, sec := range next.Config.Sections {
			if sec.ID == c.SectionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return state, internal.ErrSectionNotFound
		}
		removed := next.Config.Sections[idx]
		next.Config.Sections = append(next.Config.Sections[:idx], next.Config.Sections[idx+1:]...)
		if next.SelectedSectionID == removed.ID {
			next.SelectedSectionID = ""
		}
		if next.SelectedFieldID != "" && removed.OwnsField(next.SelectedFieldID) {
			next.SelectedFieldID = ""
		}

	case ReorderSections:
		if err := moveSection(&next.Config.Sections, c.FromIndex, c.ToIndex); err != nil {
			return state, err
		}

	case AddSubsection:
		section := next.Config.FindSection(c.SectionID)
		if section == nil {
			return state, internal.ErrSectionNotFound
		}
		sub := c.Subsection
		if sub.Fields == nil {
			sub.Fields = []survey.Field{}
		}
		section.Subsections = append(section.Subsections, sub)
		section.Content = append(section.Content, survey.ContentRef{
			Kind:  survey.ContentKindSubsection,
			RefID: sub.ID,
		})

	case UpdateSubsection:
		section := next.Config.FindSection(c.SectionID)
		if section == nil {
			return state, internal.ErrSectionNotFound
		}
		sub := section.FindSubsection(c.SubsectionID)
		if sub == nil {
			return state, internal.ErrSubsectionNotFound
		}
		if c.Title != nil {
			sub.Title = *c.Title
		}
		if c.Type != nil {
			sub.Type = *c.Type
		}

	case DeleteSubsection:
		section := next.Config.FindSection(c.SectionID)
		if section == nil {
			return state, internal.ErrSectionNotFound
		}
		idx := -1
		for i, sub := range section.Subsections {
			if sub.ID == c.SubsectionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return state, internal.ErrSubsectionNotFound
		}
		section.Subsections = append(section.Subsections[:idx], section.Subsections[idx+1:]...)
		removeContentRef(section, survey.ContentKindSubsection, c.SubsectionID)

	case ReorderSubsections:
		section := next.Config.FindSection(c.SectionID)
		if section == nil {
			return state, internal.ErrSectionNotFound
		}
		if err := moveSubsection(&section.Subsections, c.FromIndex, c.ToIndex); err != nil {
			return state, err
		}

	case AddField:
		section := next.Config.FindSection(c.SectionID)
		if section == nil {
			return state, internal.ErrSectionNotFound
		}
		field := c.Field
		if field.Options == nil {
			field.Options = []survey.Option{}
		}
		if c.SubsectionID != "" {
			sub := section.FindSubsection(c.SubsectionID)
			if sub == nil {
				return state, internal.ErrSubsectionNotFound
			}
			sub.Fields = append(sub.Fields, field)
		} else {
			section.Fields = append(section.Fields, field)
			section.Content = append(section.Content, survey.ContentRef{
				Kind:  survey.ContentKindField,
				RefID: field.ID,
			})
		}

	case UpdateField:
		field, err := findField(&next.Config, c.SectionID, c.SubsectionID, c.FieldID)
		if err != nil {
			return state, err
		}
		if c.Label != nil {
			field.Label = *c.Label
		}
		if c.Type != nil {
			field.Type = *c.Type
		}
		if c.Required != nil {
			field.Required = *c.Required
		}
		if c.Placeholder != nil {
			field.Placeholder = *c.Placeholder
		}

	case DeleteField:
		section, fields, err := findFieldSlice(&next.Config, c.SectionID, c.SubsectionID)
		if err != nil {
			return state, err
		}
		idx := -1
		for i, f := range *fields {
			if f.ID == c.FieldID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return state, internal.ErrFieldNotFound
		}
		*fields = append((*fields)[:idx], (*fields)[idx+1:]...)
		if c.SubsectionID == "" {
			removeContentRef(section, survey.ContentKindField, c.FieldID)
		}
		if next.SelectedFieldID == c.FieldID {
			next.SelectedFieldID = ""
		}

	case ReorderFields:
		_, fields, err := findFieldSlice(&next.Config, c.SectionID, c.SubsectionID)
		if err != nil {
			return state, err
		}
		if err := moveField(fields, c.FromIndex, c.ToIndex); err != nil {
			return state, err
		}

	case AddFieldOption:
		field, err := findField(&next.Config, c.SectionID, c.SubsectionID, c.FieldID)
		if err != nil {
			return state, err
		}
		field.Options = append(field.Options, c.Option)

	case UpdateFieldOption:
		field, err := findField(&next.Config, c.SectionID, c.SubsectionID, c.FieldID)
		if err != nil {
			return state, err
		}
		if c.OptionIndex < 0 || c.OptionIndex >= len(field.Options) {
			return state, internal.ErrOptionIndexOutOfRange
		}
		field.Options[c.OptionIndex] = c.Option

	case DeleteFieldOption:
		field, err := findField(&next.Config, c.SectionID, c.SubsectionID, c.FieldID)
		if err != nil {
			return state, err
		}
		if c.OptionIndex < 0 || c.OptionIndex >= len(field.Options) {
			return state, internal.ErrOptionIndexOutOfRange
		}
		field.Options = append(field.Options[:c.OptionIndex], field.Options[c.OptionIndex+1:]...)

	case AssignRatingScale:
		field, err := findField(&next.Config, c.SectionID, c.SubsectionID, c.FieldID)
		if err != nil {
			return state, err
		}
		field.RatingScaleID = c.ScaleID
		field.RatingScaleName = c.ScaleName
		field.Options = []survey.Option{}

	case ClearRatingScale:
		field, err := findField(&next.Config, c.SectionID, c.SubsectionID, c.FieldID)
		if err != nil {
			return state, err
		}
		field.RatingScaleID = ""
		field.RatingScaleName = ""
		field.Options = []survey.Option{}

	case ReorderSectionContent:
		section := next.Config.FindSection(c.SectionID)
		if section == nil {
			return state, internal.ErrSectionNotFound
		}
		if err := moveContentRef(&section.Content, c.FromIndex, c.ToIndex); err != nil {
			return state, err
		}

	case SelectSection:
		next.SelectedSectionID = c.SectionID
		touched = false

	case SelectField:
		next.SelectedSectionID = c.SectionID
		next.SelectedFieldID = c.FieldID
		touched = false

	case SetSectionModal:
		next.ShowSectionModal = c.Visible
		touched = false

	case SetFieldModal:
		next.ShowFieldModal = c.Visible
		touched = false

	default:
		return state, internal.ErrUnknownCommand
	}

	if touched {
		next.Config.Metadata.UpdatedAt = now
	}
	return next, nil
}

func findFieldSlice(cfg *survey.Config, sectionID, subsectionID string) (*survey.Section, *[]survey.Field, error) {
	section := cfg.FindSection(sectionID)
	if section == nil {
		return nil, nil, internal.ErrSectionNotFound
	}
	if subsectionID == "" {
		return section, &section.Fields, nil
	}
	sub := section.FindSubsection(subsectionID)
	if sub == nil {
		return nil, nil, internal.ErrSubsectionNotFound
	}
	return section, &sub.Fields, nil
}

func findField(cfg *survey.Config, sectionID, subsectionID, fieldID string) (*survey.Field, error) {
	_, fields, err := findFieldSlice(cfg, sectionID, subsectionID)
	if err != nil {
		return nil, err
	}
	for i := range *fields {
		if (*fields)[i].ID == fieldID {
			return &(*fields)[i], nil
		}
	}
	return nil, internal.ErrFieldNotFound
}

func removeContentRef(section *survey.Section, kind survey.ContentKind, refID string) {
	for i, ref := range section.Content {
		if ref.Kind == kind && ref.RefID == refID {
			section.Content = append(section.Content[:i], section.Content[i+1:]...)
			return
		}
	}
}

// The move helpers implement standard array moves: remove the element at
// from, then insert it at to. Out-of-range indices return an error with the
// slice untouched.

func moveSection(s *[]survey.Section, from, to int) error {
	if from < 0 || from >= len(*s) || to < 0 || to >= len(*s) {
		return internal.ErrIndexOutOfRange
	}
	item := (*s)[from]
	rest := append((*s)[:from], (*s)[from+1:]...)
	*s = append(rest[:to], append([]survey.Section{item}, rest[to:]...)...)
	return nil
}

func moveSubsection(s *[]survey.Subsection, from, to int) error {
	if from < 0 || from >= len(*s) || to < 0 || to >= len(*s) {
		return internal.ErrIndexOutOfRange
	}
	item := (*s)[from]
	rest := append((*s)[:from], (*s)[from+1:]...)
	*s = append(rest[:to], append([]survey.Subsection{item}, rest[to:]...)...)
	return nil
}

func moveField(s *[]survey.Field, from, to int) error {
	if from < 0 || from >= len(*s) || to < 0 || to >= len(*s) {
		return internal.ErrIndexOutOfRange
	}
	item := (*s)[from]
	rest := append((*s)[:from], (*s)[from+1:]...)
	*s = append(rest[:to], append([]survey.Field{item}, rest[to:]...)...)
	return nil
}

func moveContentRef(s *[]survey.ContentRef, from, to int) error {
	if from < 0 || from >= len(*s) || to < 0 || to >= len(*s) {
		return internal.ErrIndexOutOfRange
	}
	item := (*s)[from]
	rest := append((*s)[:from], (*s)[from+1:]...)
	*s = append(rest[:to], append([]survey.ContentRef{item}, rest[to:]...)...)
	return nil
}
