package export_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/export"
	"survey-studio/backend/internal/optionset"
	"survey-studio/backend/internal/survey"
)

func sampleSections() []survey.Section {
	return []survey.Section{
		{
			ID:    "sec-1",
			Title: "Profile",
			Type:  survey.SectionTypePersonalInfo,
			Fields: []survey.Field{
				{ID: "f-name", Label: "Name", Type: survey.FieldTypeText, Required: true},
				{ID: "f-color", Label: "Color", Type: survey.FieldTypeRadio, Options: []survey.Option{
					{Label: "Red", Value: "red"},
					{Label: "Blue", Value: "blue"},
				}},
			},
			Content: []survey.ContentRef{
				{Kind: survey.ContentKindField, ID: "f-name"},
				{Kind: survey.ContentKindField, ID: "f-color"},
			},
		},
	}
}

func TestDecode_Envelope(t *testing.T) {
	t.Parallel()

	t.Run("valid envelope passes through", func(t *testing.T) {
		t.Parallel()

		env, err := export.NewEnvelope(export.EntitySurveyConfig, export.ConfigPayload{
			Title:    "Feedback",
			Sections: sampleSections(),
		}, export.Metadata{ExportedAt: time.Now(), Title: "Feedback"})
		require.NoError(t, err)

		data, err := json.Marshal(env)
		require.NoError(t, err)

		decoded, err := export.Decode(data)
		require.NoError(t, err)
		require.Equal(t, export.EntitySurveyConfig, decoded.Type)
		require.Equal(t, export.EnvelopeVersion, decoded.Version)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := export.Decode([]byte(`{"type":"Widget","version":1,"data":{}}`))
		require.ErrorIs(t, err, internal.ErrUnknownEntityType)
	})

	t.Run("non-JSON input is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := export.Decode([]byte("not json"))
		require.ErrorIs(t, err, internal.ErrInvalidEnvelope)
	})
}

func TestDecode_SniffsLegacyFiles(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data string
		want export.EntityType
	}{
		{
			name: "section tree marks a config",
			data: `{"title":"Feedback","sections":[]}`,
			want: export.EntitySurveyConfig,
		},
		{
			name: "config reference marks an instance",
			data: `{"title":"Spring Run","configId":"d5a4b8f0-0000-0000-0000-000000000000"}`,
			want: export.EntitySurveyInstance,
		},
		{
			name: "named options default to rating scale",
			data: `{"name":"Agreement","options":[{"value":"1","label":"Disagree"}]}`,
			want: export.EntityRatingScale,
		},
		{
			name: "kind field overrides the option set default",
			data: `{"name":"Colors","kind":"radio","options":[{"value":"red","label":"Red"}]}`,
			want: export.EntityRadioSet,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env, err := export.Decode([]byte(tc.data))
			require.NoError(t, err)
			require.Equal(t, tc.want, env.Type)
		})
	}

	t.Run("unrecognizable structure is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := export.Decode([]byte(`{"foo":"bar"}`))
		require.ErrorIs(t, err, internal.ErrUnknownEntityType)
	})
}

func TestDecodeConfig_RequiredFields(t *testing.T) {
	t.Parallel()

	env := export.Envelope{
		Type: export.EntitySurveyConfig,
		Data: json.RawMessage(`{"description":"no title or sections"}`),
	}

	_, err := export.DecodeConfig(env)
	require.ErrorIs(t, err, internal.ErrImportValidation)
	require.Contains(t, err.Error(), "title")
	require.Contains(t, err.Error(), "sections")
}

func TestDecodeOptionSet_MapsKind(t *testing.T) {
	t.Parallel()

	env := export.Envelope{
		Type: export.EntityMultiSelectSet,
		Data: json.RawMessage(`{"name":"Toppings","options":[{"value":"cheese","label":"Cheese"}]}`),
	}

	payload, kind, err := export.DecodeOptionSet(env)
	require.NoError(t, err)
	require.Equal(t, optionset.KindMultiSelect, kind)
	require.Equal(t, "Toppings", payload.Name)
}

func TestDecodeInstance_RequiredFields(t *testing.T) {
	t.Parallel()

	env := export.Envelope{
		Type: export.EntitySurveyInstance,
		Data: json.RawMessage(`{"slug":"spring"}`),
	}

	_, err := export.DecodeInstance(env)
	require.ErrorIs(t, err, internal.ErrImportValidation)
	require.Contains(t, err.Error(), "configId")
}

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()

	original := export.ConfigPayload{
		ID:          "cfg-1",
		Title:       "Feedback",
		Description: "Quarterly feedback",
		Sections:    sampleSections(),
	}

	env, err := export.NewEnvelope(export.EntitySurveyConfig, original, export.Metadata{
		ExportedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		OriginalID: "cfg-1",
		Title:      "Feedback",
	})
	require.NoError(t, err)

	data, err := json.Marshal(env)
	require.NoError(t, err)

	decoded, err := export.Decode(data)
	require.NoError(t, err)

	imported, err := export.DecodeConfig(decoded)
	require.NoError(t, err)
	require.Equal(t, original, imported)
}
