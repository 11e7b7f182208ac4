package export_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"survey-studio/backend/internal/export"
	"survey-studio/backend/internal/response"
	"survey-studio/backend/internal/survey"
)

func TestResponseWorkbook(t *testing.T) {
	t.Parallel()

	cfg := survey.Config{
		Sections: []survey.Section{
			{ID: "sec-1", Title: "Profile"},
			{ID: "sec-2", Title: "Feedback"},
		},
	}

	respID := uuid.New()
	sessionID := uuid.New()
	submitted := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

	responses := []response.Response{
		{
			ID:          respID,
			SessionID:   sessionID,
			SubmittedAt: submitted,
			Answers: map[string]json.RawMessage{
				"Feedback - Rating": json.RawMessage(`"5"`),
				"Profile - Name":    json.RawMessage(`"Ada"`),
				"Profile - Tags":    json.RawMessage(`["go","sql"]`),
				"extra":             json.RawMessage(`{"note":"x"}`),
			},
		},
	}

	workbook, err := export.ResponseWorkbook(&cfg, responses)
	require.NoError(t, err)
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	rows, err := workbook.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Metadata first, then columns grouped by section in config order,
	// ungrouped keys last.
	require.Equal(t, []string{
		"Response ID", "Session ID", "Submitted At",
		"Profile - Name", "Profile - Tags", "Feedback - Rating", "extra",
	}, rows[0])

	require.Equal(t, []string{
		respID.String(), sessionID.String(), "2025-06-02 09:30:00",
		"Ada", "go, sql", "5", `{"note":"x"}`,
	}, rows[1])
}

func TestResponseWorkbook_NoConfigKeepsStableOrder(t *testing.T) {
	t.Parallel()

	responses := []response.Response{
		{ID: uuid.New(), SubmittedAt: time.Now(), Answers: map[string]json.RawMessage{
			"b": json.RawMessage(`"2"`),
			"a": json.RawMessage(`"1"`),
		}},
	}

	workbook, err := export.ResponseWorkbook(nil, responses)
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows(workbook.GetSheetName(0))
	require.NoError(t, err)
	require.Equal(t, []string{"Response ID", "Session ID", "Submitted At", "a", "b"}, rows[0])
}
