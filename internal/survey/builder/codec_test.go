package builder_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/survey"
	"survey-studio/backend/internal/survey/builder"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		raw     string
		want    builder.Command
		wantErr error
	}{
		{
			name: "addField with nested payload",
			raw:  `{"type":"addField","payload":{"sectionId":"sec-1","field":{"id":"f-1","label":"Name","type":"text","options":[]}}}`,
			want: builder.AddField{
				SectionID: "sec-1",
				Field:     survey.Field{ID: "f-1", Label: "Name", Type: survey.FieldTypeText, Options: []survey.Option{}},
			},
		},
		{
			name: "updateSection with partial patch keeps nil pointers",
			raw:  `{"type":"updateSection","payload":{"sectionId":"sec-1","title":"Renamed"}}`,
			want: builder.UpdateSection{SectionID: "sec-1", Title: strPtr("Renamed")},
		},
		{
			name: "reorderSections carries indices",
			raw:  `{"type":"reorderSections","payload":{"fromIndex":2,"toIndex":0}}`,
			want: builder.ReorderSections{FromIndex: 2, ToIndex: 0},
		},
		{
			name: "selectSection without payload decodes zero value",
			raw:  `{"type":"selectSection"}`,
			want: builder.SelectSection{},
		},
		{
			name:    "unknown type fails",
			raw:     `{"type":"explodeSurvey","payload":{}}`,
			wantErr: internal.ErrUnknownCommand,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var envelope builder.Envelope
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &envelope))

			got, err := builder.Decode(envelope)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeBatch_FirstFailureAborts(t *testing.T) {
	t.Parallel()

	envelopes := []builder.Envelope{
		{Type: "addSection", Payload: json.RawMessage(`{"section":{"id":"sec-1"}}`)},
		{Type: "nope"},
	}

	commands, err := builder.DecodeBatch(envelopes)
	require.ErrorIs(t, err, internal.ErrUnknownCommand)
	require.Nil(t, commands)
}
