package survey

import (
	"time"
)

type SectionType string

const (
	SectionTypePersonalInfo SectionType = "personal_info"
	SectionTypeBusinessInfo SectionType = "business_info"
	SectionTypeRating       SectionType = "rating_section"
	SectionTypeCheckbox     SectionType = "checkbox_section"
	SectionTypeRadio        SectionType = "radio_section"
	SectionTypeTextInput    SectionType = "text_input"
	SectionTypeCustom       SectionType = "custom"
)

type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeEmail       FieldType = "email"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeMultiSelect FieldType = "multiselect"
	FieldTypeRating      FieldType = "rating"
	FieldTypeNumber      FieldType = "number"
)

// HasOptions reports whether the field type carries a configurable option list.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeRadio, FieldTypeMultiSelect, FieldTypeRating:
		return true
	default:
		return false
	}
}

type Metadata struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Option is a single selectable choice of a field or option set.
// Options carry no stable identifier and are addressed by array index;
// reordering an option list silently relabels positions. This mirrors the
// stored data shape and is a known fragility of the format.
type Option struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	Color     string `json:"color,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

type ContentKind string

const (
	ContentKindField      ContentKind = "field"
	ContentKindSubsection ContentKind = "subsection"
)

// ContentRef interleaves a section's direct fields and subsections into a
// single display ordering. Every RefID must exist among the section's
// fields or subsections.
type ContentRef struct {
	Kind  ContentKind `json:"kind"`
	RefID string      `json:"refId"`
}

// Field is a single question of a survey. Options and RatingScaleID are
// mutually exclusive, but the exclusivity is only enforced by the save-time
// validation pass, not continuously.
type Field struct {
	ID              string    `json:"id"`
	Label           string    `json:"label"`
	Type            FieldType `json:"type"`
	Required        bool      `json:"required"`
	Placeholder     string    `json:"placeholder,omitempty"`
	Options         []Option  `json:"options"`
	RatingScaleID   string    `json:"ratingScaleId,omitempty"`
	RatingScaleName string    `json:"ratingScaleName,omitempty"`
}

// Subsection has the shape of a section minus nested subsections. It is
// owned exclusively by its parent section.
type Subsection struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Type   SectionType `json:"type"`
	Fields []Field     `json:"fields"`
}

type Section struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Type        SectionType  `json:"type"`
	Fields      []Field      `json:"fields"`
	Subsections []Subsection `json:"subsections"`
	Content     []ContentRef `json:"content,omitempty"`
}

// Config is the full nested survey definition under edit or bound to an
// instance. Section ordering is significant and stays contiguous after any
// reorder.
type Config struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Sections    []Section `json:"sections"`
	Version     int       `json:"version"`
	IsActive    bool      `json:"isActive"`
	Metadata    Metadata  `json:"metadata"`
}

// Clone returns a deep copy of the config. Builder commands operate on
// copies so a failed command never leaves a partially mutated tree behind.
func (c Config) Clone() Config {
	out := c
	out.Sections = cloneSections(c.Sections)
	return out
}

func cloneSections(sections []Section) []Section {
	if sections == nil {
		return nil
	}
	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = s
		out[i].Fields = cloneFields(s.Fields)
		out[i].Content = append([]ContentRef(nil), s.Content...)
		if s.Subsections != nil {
			subs := make([]Subsection, len(s.Subsections))
			for j, sub := range s.Subsections {
				subs[j] = sub
				subs[j].Fields = cloneFields(sub.Fields)
			}
			out[i].Subsections = subs
		}
	}
	return out
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f
		out[i].Options = append([]Option(nil), f.Options...)
	}
	return out
}

// Normalize back-fills the shape that legacy documents may lack: every
// section gets a non-nil subsections slice and a content ordering built
// from fields first, then subsections.
func (c *Config) Normalize() {
	for i := range c.Sections {
		section := &c.Sections[i]
		if section.Fields == nil {
			section.Fields = []Field{}
		}
		if section.Subsections == nil {
			section.Subsections = []Subsection{}
		}
		for j := range section.Subsections {
			if section.Subsections[j].Fields == nil {
				section.Subsections[j].Fields = []Field{}
			}
		}
		if section.Content == nil {
			content := make([]ContentRef, 0, len(section.Fields)+len(section.Subsections))
			for _, f := range section.Fields {
				content = append(content, ContentRef{Kind: ContentKindField, RefID: f.ID})
			}
			for _, sub := range section.Subsections {
				content = append(content, ContentRef{Kind: ContentKindSubsection, RefID: sub.ID})
			}
			section.Content = content
		}
	}
}

// FindSection returns a pointer into the config's section slice, or nil.
func (c *Config) FindSection(id string) *Section {
	for i := range c.Sections {
		if c.Sections[i].ID == id {
			return &c.Sections[i]
		}
	}
	return nil
}

// FindSubsection returns a pointer into the section's subsection slice, or nil.
func (s *Section) FindSubsection(id string) *Subsection {
	for i := range s.Subsections {
		if s.Subsections[i].ID == id {
			return &s.Subsections[i]
		}
	}
	return nil
}

// OwnsField reports whether the field id exists among the section's direct
// fields or any of its subsections.
func (s *Section) OwnsField(fieldID string) bool {
	for _, f := range s.Fields {
		if f.ID == fieldID {
			return true
		}
	}
	for _, sub := range s.Subsections {
		for _, f := range sub.Fields {
			if f.ID == fieldID {
				return true
			}
		}
	}
	return false
}

// ContentValid reports whether every id referenced by the section's content
// ordering resolves to one of its fields or subsections.
func (s *Section) ContentValid() bool {
	for _, ref := range s.Content {
		switch ref.Kind {
		case ContentKindField:
			found := false
			for _, f := range s.Fields {
				if f.ID == ref.RefID {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case ContentKindSubsection:
			if s.FindSubsection(ref.RefID) == nil {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// AllFields walks every field of the config, direct and nested, in section
// order with direct fields before subsection fields.
func (c *Config) AllFields() []Field {
	var fields []Field
	for _, section := range c.Sections {
		fields = append(fields, section.Fields...)
		for _, sub := range section.Subsections {
			fields = append(fields, sub.Fields...)
		}
	}
	return fields
}
