package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"survey-studio/backend/internal/response"
	"survey-studio/backend/internal/survey"
)

var metaColumns = []string{"Response ID", "Session ID", "Submitted At"}

// ResponseWorkbook flattens a response set into a spreadsheet: one row
// per response, metadata columns first, then one column per answer key.
// Arrays join with ", " and objects keep their JSON form. When a config
// is supplied, answer columns are grouped by section so related answers
// sit together.
func ResponseWorkbook(cfg *survey.Config, responses []response.Response) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	columns := answerColumns(cfg, responses)
	headers := append(append([]string{}, metaColumns...), columns...)

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header %q: %w", header, err)
		}
	}

	for rowIdx, resp := range responses {
		row := rowIdx + 2

		values := []interface{}{resp.ID.String(), resp.SessionID.String(), resp.SubmittedAt.UTC().Format("2006-01-02 15:04:05")}
		for _, column := range columns {
			if raw, ok := resp.Answers[column]; ok {
				values = append(values, cellValue(raw))
			} else {
				values = append(values, "")
			}
		}

		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write response cell: %w", err)
			}
		}
	}

	return f, nil
}

// answerColumns unions the answer keys across all responses and sorts
// them for a stable base order. With a config, keys are regrouped so every
// key whose text contains a section's title comes out in that section's
// position; keys matching no section trail in sorted order.
func answerColumns(cfg *survey.Config, responses []response.Response) []string {
	var keys []string
	seen := make(map[string]struct{})
	for _, resp := range responses {
		for key := range resp.Answers {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	// Map iteration order is random; pin a stable base order first.
	sort.Strings(keys)

	if cfg == nil {
		return keys
	}

	grouped := make([]string, 0, len(keys))
	used := make(map[string]struct{}, len(keys))
	for _, section := range cfg.Sections {
		title := strings.ToLower(section.Title)
		if title == "" {
			continue
		}
		for _, key := range keys {
			if _, ok := used[key]; ok {
				continue
			}
			if strings.Contains(strings.ToLower(key), title) {
				grouped = append(grouped, key)
				used[key] = struct{}{}
			}
		}
	}
	for _, key := range keys {
		if _, ok := used[key]; !ok {
			grouped = append(grouped, key)
		}
	}
	return grouped
}

func cellValue(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case strings.HasPrefix(trimmed, "["):
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return trimmed
		}
		parts := make([]string, 0, len(arr))
		for _, elem := range arr {
			parts = append(parts, cellValue(elem))
		}
		return strings.Join(parts, ", ")
	case strings.HasPrefix(trimmed, "{"):
		return trimmed
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return trimmed
	}
}
