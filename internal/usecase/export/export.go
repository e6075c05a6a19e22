package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
)

// Row is the flattened export shape of one action item. Identifiers and
// server timestamps are deliberately excluded.
type Row struct {
	Task        string  `json:"task"`
	Owner       *string `json:"owner"`
	Contact     *string `json:"contact"`
	Deadline    *string `json:"deadline"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	Confidence  float64 `json:"confidence"`
	NeedsReview bool    `json:"needs_review"`
	Notes       *string `json:"notes"`
}

// Flatten maps persisted items onto export rows
func Flatten(items []*entities.ActionItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		row := Row{
			Task:        item.Task,
			Owner:       item.Owner,
			Contact:     item.OwnerContact,
			Priority:    string(item.Priority),
			Status:      string(item.Status),
			Confidence:  item.Confidence,
			NeedsReview: item.NeedsReview(),
			Notes:       item.Notes,
		}
		if item.Deadline != nil {
			d := item.Deadline.UTC().Format(time.RFC3339)
			row.Deadline = &d
		}
		rows = append(rows, row)
	}
	return rows
}

// ToJSON serializes the item set as a JSON array
func ToJSON(items []*entities.ActionItem) ([]byte, error) {
	data, err := json.MarshalIndent(Flatten(items), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return data, nil
}

// ToCSV serializes the item set as CSV with a header row
func ToCSV(items []*entities.ActionItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"task", "owner", "contact", "deadline", "priority", "status", "confidence", "needs_review", "notes"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range Flatten(items) {
		record := []string{
			row.Task,
			deref(row.Owner),
			deref(row.Contact),
			deref(row.Deadline),
			row.Priority,
			row.Status,
			strconv.FormatFloat(row.Confidence, 'f', -1, 64),
			strconv.FormatBool(row.NeedsReview),
			deref(row.Notes),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
