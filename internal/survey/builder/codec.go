package builder

import (
	"encoding/json"
	"fmt"
	"reflect"

	"survey-studio/backend/internal"
)

// Envelope is the wire form of one command: a type discriminator plus the
// variant's payload.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var commandTypes = map[string]func() Command{
	"setConfig":             func() Command { return &SetConfig{} },
	"addSection":            func() Command { return &AddSection{} },
	"updateSection":         func() Command { return &UpdateSection{} },
	"deleteSection":         func() Command { return &DeleteSection{} },
	"reorderSections":       func() Command { return &ReorderSections{} },
	"addSubsection":         func() Command { return &AddSubsection{} },
	"updateSubsection":      func() Command { return &UpdateSubsection{} },
	"deleteSubsection":      func() Command { return &DeleteSubsection{} },
	"reorderSubsections":    func() Command { return &ReorderSubsections{} },
	"addField":              func() Command { return &AddField{} },
	"updateField":           func() Command { return &UpdateField{} },
	"deleteField":           func() Command { return &DeleteField{} },
	"reorderFields":         func() Command { return &ReorderFields{} },
	"addFieldOption":        func() Command { return &AddFieldOption{} },
	"updateFieldOption":     func() Command { return &UpdateFieldOption{} },
	"deleteFieldOption":     func() Command { return &DeleteFieldOption{} },
	"assignRatingScale":     func() Command { return &AssignRatingScale{} },
	"clearRatingScale":      func() Command { return &ClearRatingScale{} },
	"reorderSectionContent": func() Command { return &ReorderSectionContent{} },
	"selectSection":         func() Command { return &SelectSection{} },
	"selectField":           func() Command { return &SelectField{} },
	"setSectionModal":       func() Command { return &SetSectionModal{} },
	"setFieldModal":         func() Command { return &SetFieldModal{} },
}

// Decode turns a wire envelope into its command variant. Unknown type names
// fail with ErrUnknownCommand.
func Decode(envelope Envelope) (Command, error) {
	factory, ok := commandTypes[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%q: %w", envelope.Type, internal.ErrUnknownCommand)
	}

	cmd := factory()
	if len(envelope.Payload) > 0 {
		if err := json.Unmarshal(envelope.Payload, cmd); err != nil {
			return nil, fmt.Errorf("invalid payload for command %q: %w", envelope.Type, err)
		}
	}

	// Apply switches on value types; unwrap the pointer the decoder needed.
	return reflect.ValueOf(cmd).Elem().Interface().(Command), nil
}

// DecodeBatch decodes an ordered command batch. The first failure aborts
// the whole batch.
func DecodeBatch(envelopes []Envelope) ([]Command, error) {
	commands := make([]Command, 0, len(envelopes))
	for _, envelope := range envelopes {
		cmd, err := Decode(envelope)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}
