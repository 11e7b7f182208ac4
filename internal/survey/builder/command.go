package builder

import (
	"survey-studio/backend/internal/survey"
)

// Command is the closed set of builder edits. Every structural change to a
// config under edit flows through one of these variants; there are no
// stringly-typed action names.
type Command interface {
	isCommand()
}

// SetConfig replaces the whole tree and normalizes legacy shapes. It is a
// load, not an edit: unlike every other command it keeps the incoming
// Metadata.UpdatedAt instead of stamping the clock.
type SetConfig struct {
	Config survey.Config `json:"config"`
}

// AddSection appends a section to the config.
type AddSection struct {
	Section survey.Section `json:"section"`
}

// UpdateSection applies a partial update to one section. Nil pointers leave
// the current value untouched.
type UpdateSection struct {
	SectionID string              `json:"sectionId"`
	Title     *string             `json:"title,omitempty"`
	Type      *survey.SectionType `json:"type,omitempty"`
}

// DeleteSection removes a section; it also clears the selection if the
// selection pointed into the removed section.
type DeleteSection struct {
	SectionID string `json:"sectionId"`
}

// ReorderSections moves the section at FromIndex to ToIndex
// (remove-then-insert, not swap).
type ReorderSections struct {
	FromIndex int `json:"fromIndex"`
	ToIndex   int `json:"toIndex"`
}

// AddSubsection appends a subsection to a section and records its position
// among sibling fields in the section's content ordering.
type AddSubsection struct {
	SectionID  string            `json:"sectionId"`
	Subsection survey.Subsection `json:"subsection"`
}

type UpdateSubsection struct {
	SectionID    string              `json:"sectionId"`
	SubsectionID string              `json:"subsectionId"`
	Title        *string             `json:"title,omitempty"`
	Type         *survey.SectionType `json:"type,omitempty"`
}

// DeleteSubsection removes a subsection and its content entry.
type DeleteSubsection struct {
	SectionID    string `json:"sectionId"`
	SubsectionID string `json:"subsectionId"`
}

type ReorderSubsections struct {
	SectionID string `json:"sectionId"`
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
}

// AddField appends a field to a subsection when SubsectionID is set,
// otherwise to the section's direct field list (which also appends a
// content entry).
type AddField struct {
	SectionID    string       `json:"sectionId"`
	SubsectionID string       `json:"subsectionId"`
	Field        survey.Field `json:"field"`
}

type UpdateField struct {
	SectionID    string            `json:"sectionId"`
	SubsectionID string            `json:"subsectionId"`
	FieldID      string            `json:"fieldId"`
	Label        *string           `json:"label,omitempty"`
	Type         *survey.FieldType `json:"type,omitempty"`
	Required     *bool             `json:"required,omitempty"`
	Placeholder  *string           `json:"placeholder,omitempty"`
}

// DeleteField removes a field and, for direct fields, its content entry.
type DeleteField struct {
	SectionID    string `json:"sectionId"`
	SubsectionID string `json:"subsectionId"`
	FieldID      string `json:"fieldId"`
}

type ReorderFields struct {
	SectionID    string `json:"sectionId"`
	SubsectionID string `json:"subsectionId"`
	FromIndex    int    `json:"fromIndex"`
	ToIndex      int    `json:"toIndex"`
}

// AddFieldOption appends an inline option to a field. Inline options are
// addressed by index only.
type AddFieldOption struct {
	SectionID    string        `json:"sectionId"`
	SubsectionID string        `json:"subsectionId"`
	FieldID      string        `json:"fieldId"`
	Option       survey.Option `json:"option"`
}

type UpdateFieldOption struct {
	SectionID    string        `json:"sectionId"`
	SubsectionID string        `json:"subsectionId"`
	FieldID      string        `json:"fieldId"`
	OptionIndex  int           `json:"optionIndex"`
	Option       survey.Option `json:"option"`
}

type DeleteFieldOption struct {
	SectionID    string `json:"sectionId"`
	SubsectionID string `json:"subsectionId"`
	FieldID      string `json:"fieldId"`
	OptionIndex  int    `json:"optionIndex"`
}

// AssignRatingScale points a field at a shared rating scale and clears its
// inline options immediately.
type AssignRatingScale struct {
	SectionID    string `json:"sectionId"`
	SubsectionID string `json:"subsectionId"`
	FieldID      string `json:"fieldId"`
	ScaleID      string `json:"scaleId"`
	ScaleName    string `json:"scaleName"`
}

// ClearRatingScale removes a field's scale reference, leaving its option
// list empty for inline editing.
type ClearRatingScale struct {
	SectionID    string `json:"sectionId"`
	SubsectionID string `json:"subsectionId"`
	FieldID      string `json:"fieldId"`
}

// ReorderSectionContent reorders only the field/subsection interleave,
// independent of the underlying field and subsection arrays.
type ReorderSectionContent struct {
	SectionID string `json:"sectionId"`
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
}

// SelectSection and SelectField update UI selection without touching the
// config tree; they do not stamp UpdatedAt.
type SelectSection struct {
	SectionID string `json:"sectionId"`
}

type SelectField struct {
	SectionID string `json:"sectionId"`
	FieldID   string `json:"fieldId"`
}

// SetSectionModal and SetFieldModal toggle editor dialog visibility. Like
// selection they never stamp UpdatedAt.
type SetSectionModal struct {
	Visible bool `json:"visible"`
}

type SetFieldModal struct {
	Visible bool `json:"visible"`
}

func (SetConfig) isCommand()             {}
func (AddSection) isCommand()            {}
func (UpdateSection) isCommand()         {}
func (DeleteSection) isCommand()         {}
func (ReorderSections) isCommand()       {}
func (AddSubsection) isCommand()         {}
func (UpdateSubsection) isCommand()      {}
func (DeleteSubsection) isCommand()      {}
func (ReorderSubsections) isCommand()    {}
func (AddField) isCommand()              {}
func (UpdateField) isCommand()           {}
func (DeleteField) isCommand()           {}
func (ReorderFields) isCommand()         {}
func (AddFieldOption) isCommand()        {}
func (UpdateFieldOption) isCommand()     {}
func (DeleteFieldOption) isCommand()     {}
func (AssignRatingScale) isCommand()     {}
func (ClearRatingScale) isCommand()      {}
func (ReorderSectionContent) isCommand() {}
func (SelectSection) isCommand()         {}
func (SelectField) isCommand()           {}
func (SetSectionModal) isCommand()       {}
func (SetFieldModal) isCommand()         {}
