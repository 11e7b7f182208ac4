package builder_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/survey"
	"survey-studio/backend/internal/survey/builder"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleConfig() survey.Config {
	return survey.Config{
		ID:    "cfg-1",
		Title: "Customer Feedback",
		Sections: []survey.Section{
			{
				ID:    "sec-1",
				Title: "About You",
				Type:  survey.SectionTypePersonalInfo,
				Fields: []survey.Field{
					{ID: "f-name", Label: "Name", Type: survey.FieldTypeText, Options: []survey.Option{}},
					{ID: "f-email", Label: "Email", Type: survey.FieldTypeEmail, Options: []survey.Option{}},
				},
				Subsections: []survey.Subsection{
					{
						ID:    "sub-1",
						Title: "Company",
						Type:  survey.SectionTypeBusinessInfo,
						Fields: []survey.Field{
							{ID: "f-role", Label: "Role", Type: survey.FieldTypeText, Options: []survey.Option{}},
						},
					},
				},
				Content: []survey.ContentRef{
					{Kind: survey.ContentKindField, RefID: "f-name"},
					{Kind: survey.ContentKindField, RefID: "f-email"},
					{Kind: survey.ContentKindSubsection, RefID: "sub-1"},
				},
			},
			{
				ID:    "sec-2",
				Title: "Ratings",
				Type:  survey.SectionTypeRating,
				Fields: []survey.Field{
					{
						ID:    "f-score",
						Label: "Overall",
						Type:  survey.FieldTypeRating,
						Options: []survey.Option{
							{Value: "1", Label: "Poor"},
							{Value: "2", Label: "Great"},
						},
					},
				},
				Subsections: []survey.Subsection{},
				Content: []survey.ContentRef{
					{Kind: survey.ContentKindField, RefID: "f-score"},
				},
			},
		},
	}
}

func TestApply_SectionCommands(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		state      builder.State
		cmd        builder.Command
		wantErr    error
		assertions func(t *testing.T, got builder.State)
	}{
		{
			name:  "add section appends with initialized slices",
			state: builder.State{Config: sampleConfig()},
			cmd:   builder.AddSection{Section: survey.Section{ID: "sec-3", Title: "Extra", Type: survey.SectionTypeCustom}},
			assertions: func(t *testing.T, got builder.State) {
				require.Len(t, got.Config.Sections, 3)
				added := got.Config.Sections[2]
				require.Equal(t, "sec-3", added.ID)
				require.NotNil(t, added.Fields)
				require.NotNil(t, added.Subsections)
				require.NotNil(t, added.Content)
			},
		},
		{
			name:  "update section patches only set pointers",
			state: builder.State{Config: sampleConfig()},
			cmd:   builder.UpdateSection{SectionID: "sec-1", Title: strPtr("Renamed")},
			assertions: func(t *testing.T, got builder.State) {
				require.Equal(t, "Renamed", got.Config.Sections[0].Title)
				require.Equal(t, survey.SectionTypePersonalInfo, got.Config.Sections[0].Type)
			},
		},
		{
			name:    "update unknown section fails",
			state:   builder.State{Config: sampleConfig()},
			cmd:     builder.UpdateSection{SectionID: "missing", Title: strPtr("x")},
			wantErr: internal.ErrSectionNotFound,
		},
		{
			name: "delete section clears selection pointing into it",
			state: builder.State{
				Config:            sampleConfig(),
				SelectedSectionID: "sec-1",
				SelectedFieldID:   "f-role",
			},
			cmd: builder.DeleteSection{SectionID: "sec-1"},
			assertions: func(t *testing.T, got builder.State) {
				require.Len(t, got.Config.Sections, 1)
				require.Equal(t, "sec-2", got.Config.Sections[0].ID)
				require.Empty(t, got.SelectedSectionID)
				require.Empty(t, got.SelectedFieldID)
			},
		},
		{
			name: "delete section keeps selection owned elsewhere",
			state: builder.State{
				Config:            sampleConfig(),
				SelectedSectionID: "sec-2",
				SelectedFieldID:   "f-score",
			},
			cmd: builder.DeleteSection{SectionID: "sec-1"},
			assertions: func(t *testing.T, got builder.State) {
				require.Equal(t, "sec-2", got.SelectedSectionID)
				require.Equal(t, "f-score", got.SelectedFieldID)
			},
		},
		{
			name:    "reorder out of range fails",
			state:   builder.State{Config: sampleConfig()},
			cmd:     builder.ReorderSections{FromIndex: 0, ToIndex: 5},
			wantErr: internal.ErrIndexOutOfRange,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := builder.Apply(tc.state, tc.cmd, testNow)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Equal(t, tc.state, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testNow, got.Config.Metadata.UpdatedAt)
			if tc.assertions != nil {
				tc.assertions(t, got)
			}
		})
	}
}

func TestApply_ReorderIsItsOwnInverse(t *testing.T) {
	t.Parallel()

	state := builder.State{Config: sampleConfig()}
	original := state.Config.Clone()

	moved, err := builder.Apply(state, builder.ReorderSections{FromIndex: 0, ToIndex: 1}, testNow)
	require.NoError(t, err)
	require.Equal(t, "sec-2", moved.Config.Sections[0].ID)

	restored, err := builder.Apply(moved, builder.ReorderSections{FromIndex: 1, ToIndex: 0}, testNow)
	require.NoError(t, err)
	require.Equal(t, original.Sections, restored.Config.Sections)
}

func TestApply_FieldCommands(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		state      builder.State
		cmd        builder.Command
		wantErr    error
		assertions func(t *testing.T, got builder.State)
	}{
		{
			name:  "add direct field appends content entry",
			state: builder.State{Config: sampleConfig()},
			cmd: builder.AddField{
				SectionID: "sec-1",
				Field:     survey.Field{ID: "f-new", Label: "New", Type: survey.FieldTypeText},
			},
			assertions: func(t *testing.T, got builder.State) {
				section := got.Config.FindSection("sec-1")
				require.Len(t, section.Fields, 3)
				require.Equal(t, survey.ContentRef{Kind: survey.ContentKindField, RefID: "f-new"}, section.Content[len(section.Content)-1])
			},
		},
		{
			name:  "add subsection field leaves content untouched",
			state: builder.State{Config: sampleConfig()},
			cmd: builder.AddField{
				SectionID:    "sec-1",
				SubsectionID: "sub-1",
				Field:        survey.Field{ID: "f-dept", Label: "Department", Type: survey.FieldTypeText},
			},
			assertions: func(t *testing.T, got builder.State) {
				section := got.Config.FindSection("sec-1")
				require.Len(t, section.FindSubsection("sub-1").Fields, 2)
				require.Len(t, section.Content, 3)
			},
		},
		{
			name:  "delete direct field removes content entry and selection",
			state: builder.State{Config: sampleConfig(), SelectedFieldID: "f-email"},
			cmd:   builder.DeleteField{SectionID: "sec-1", FieldID: "f-email"},
			assertions: func(t *testing.T, got builder.State) {
				section := got.Config.FindSection("sec-1")
				require.Len(t, section.Fields, 1)
				for _, ref := range section.Content {
					require.NotEqual(t, "f-email", ref.RefID)
				}
				require.Empty(t, got.SelectedFieldID)
			},
		},
		{
			name:    "delete unknown field fails",
			state:   builder.State{Config: sampleConfig()},
			cmd:     builder.DeleteField{SectionID: "sec-1", FieldID: "missing"},
			wantErr: internal.ErrFieldNotFound,
		},
		{
			name:  "update field patches required flag",
			state: builder.State{Config: sampleConfig()},
			cmd:   builder.UpdateField{SectionID: "sec-1", FieldID: "f-name", Required: boolPtr(true)},
			assertions: func(t *testing.T, got builder.State) {
				require.True(t, got.Config.FindSection("sec-1").Fields[0].Required)
				require.Equal(t, "Name", got.Config.FindSection("sec-1").Fields[0].Label)
			},
		},
		{
			name:    "update option out of range fails",
			state:   builder.State{Config: sampleConfig()},
			cmd:     builder.UpdateFieldOption{SectionID: "sec-2", FieldID: "f-score", OptionIndex: 7, Option: survey.Option{Value: "x"}},
			wantErr: internal.ErrOptionIndexOutOfRange,
		},
		{
			name:  "delete option shifts later indices down",
			state: builder.State{Config: sampleConfig()},
			cmd:   builder.DeleteFieldOption{SectionID: "sec-2", FieldID: "f-score", OptionIndex: 0},
			assertions: func(t *testing.T, got builder.State) {
				opts := got.Config.FindSection("sec-2").Fields[0].Options
				require.Len(t, opts, 1)
				require.Equal(t, "Great", opts[0].Label)
			},
		},
		{
			name:  "assign rating scale clears inline options",
			state: builder.State{Config: sampleConfig()},
			cmd: builder.AssignRatingScale{
				SectionID: "sec-2",
				FieldID:   "f-score",
				ScaleID:   "scale-9",
				ScaleName: "Agreement",
			},
			assertions: func(t *testing.T, got builder.State) {
				field := got.Config.FindSection("sec-2").Fields[0]
				require.Equal(t, "scale-9", field.RatingScaleID)
				require.Equal(t, "Agreement", field.RatingScaleName)
				require.Empty(t, field.Options)
			},
		},
		{
			name:  "clear rating scale leaves empty options for inline editing",
			state: builder.State{Config: sampleConfig()},
			cmd:   builder.ClearRatingScale{SectionID: "sec-2", FieldID: "f-score"},
			assertions: func(t *testing.T, got builder.State) {
				field := got.Config.FindSection("sec-2").Fields[0]
				require.Empty(t, field.RatingScaleID)
				require.Empty(t, field.Options)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := builder.Apply(tc.state, tc.cmd, testNow)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Equal(t, tc.state, got)
				return
			}
			require.NoError(t, err)
			if tc.assertions != nil {
				tc.assertions(t, got)
			}
		})
	}
}

func TestApply_SelectionDoesNotStampUpdatedAt(t *testing.T) {
	t.Parallel()

	state := builder.State{Config: sampleConfig()}
	before := state.Config.Metadata.UpdatedAt

	got, err := builder.Apply(state, builder.SelectSection{SectionID: "sec-2"}, testNow)
	require.NoError(t, err)
	require.Equal(t, "sec-2", got.SelectedSectionID)
	require.Equal(t, before, got.Config.Metadata.UpdatedAt)

	got, err = builder.Apply(got, builder.SetFieldModal{Visible: true}, testNow)
	require.NoError(t, err)
	require.True(t, got.ShowFieldModal)
	require.Equal(t, before, got.Config.Metadata.UpdatedAt)
}

func TestApply_SetConfigNormalizesLegacyShape(t *testing.T) {
	t.Parallel()

	persistedAt := testNow.Add(-48 * time.Hour)
	legacy := survey.Config{
		ID:       "cfg-legacy",
		Metadata: survey.Metadata{UpdatedAt: persistedAt},
		Sections: []survey.Section{
			{
				ID: "sec-1",
				Fields: []survey.Field{
					{ID: "f-1", Label: "One", Type: survey.FieldTypeText},
				},
				Subsections: []survey.Subsection{
					{ID: "sub-1", Title: "Nested"},
				},
			},
		},
	}

	got, err := builder.Apply(builder.State{SelectedSectionID: "stale"}, builder.SetConfig{Config: legacy}, testNow)
	require.NoError(t, err)
	require.Empty(t, got.SelectedSectionID)
	// A load keeps the persisted timestamp; only edits stamp the clock.
	require.Equal(t, persistedAt, got.Config.Metadata.UpdatedAt)

	section := got.Config.Sections[0]
	require.Equal(t, []survey.ContentRef{
		{Kind: survey.ContentKindField, RefID: "f-1"},
		{Kind: survey.ContentKindSubsection, RefID: "sub-1"},
	}, section.Content)
	require.NotNil(t, section.Subsections[0].Fields)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	state := builder.State{Config: sampleConfig()}
	snapshot := state.Config.Clone()

	_, err := builder.Apply(state, builder.AddFieldOption{
		SectionID: "sec-2",
		FieldID:   "f-score",
		Option:    survey.Option{Value: "3", Label: "Excellent"},
	}, testNow)
	require.NoError(t, err)
	require.Equal(t, snapshot, state.Config)
}

func TestApply_ReorderSectionContent(t *testing.T) {
	t.Parallel()

	state := builder.State{Config: sampleConfig()}
	got, err := builder.Apply(state, builder.ReorderSectionContent{SectionID: "sec-1", FromIndex: 2, ToIndex: 0}, testNow)
	require.NoError(t, err)

	section := got.Config.FindSection("sec-1")
	require.Equal(t, survey.ContentKindSubsection, section.Content[0].Kind)
	// underlying slices keep their own order; only the interleave moved
	require.Equal(t, "f-name", section.Fields[0].ID)
}

func TestStore_ApplyKeepsStateOnFailure(t *testing.T) {
	t.Parallel()

	store := builder.NewStore(func() time.Time { return testNow })
	require.NoError(t, store.Apply(builder.SetConfig{Config: sampleConfig()}))

	before := store.State()
	err := store.Apply(builder.ReorderSections{FromIndex: 9, ToIndex: 0})
	require.ErrorIs(t, err, internal.ErrIndexOutOfRange)
	require.Equal(t, before, store.State())
}

func TestStore_StateReturnsCopy(t *testing.T) {
	t.Parallel()

	store := builder.NewStore(func() time.Time { return testNow })
	require.NoError(t, store.Apply(builder.SetConfig{Config: sampleConfig()}))

	leaked := store.State()
	leaked.Config.Sections[0].Title = "tampered"
	require.Equal(t, "About You", store.State().Config.Sections[0].Title)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
