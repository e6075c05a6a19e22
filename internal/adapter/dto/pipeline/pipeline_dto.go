package pipeline

import (
	"time"

	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	pipelineUsecase "github.com/ShivamSharma6214/MeetAct/internal/usecase/pipeline"
)

// ExtractRequest is the text-path pipeline request
type ExtractRequest struct {
	Transcript  string `json:"transcript" validate:"required"`
	MeetingID   string `json:"meetingId" validate:"required,uuid"`
	MeetingDate string `json:"meetingDate,omitempty"` // ISO 8601, defaults to the meeting's own date
}

// ExtractResponse returns the persisted rows of one extraction run
type ExtractResponse struct {
	Success     bool                   `json:"success"`
	ActionItems []*entities.ActionItem `json:"actionItems"`
	Count       int                    `json:"count"`
}

// TranscribeRequest is the audio-path pipeline request; exactly one of
// audioUrl / filePath / audioBase64 must be set
type TranscribeRequest struct {
	AudioURL    string `json:"audioUrl,omitempty"`
	FilePath    string `json:"filePath,omitempty"`
	AudioBase64 string `json:"audioBase64,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	MeetingID   string `json:"meetingId,omitempty" validate:"omitempty,uuid"`
}

// CandidateItem is one advisory action item from the transcription stage
type CandidateItem struct {
	Task         string     `json:"task"`
	Owner        *string    `json:"owner"`
	OwnerContact *string    `json:"owner_contact"`
	Deadline     *time.Time `json:"deadline"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	Confidence   float64    `json:"confidence"`
	Notes        *string    `json:"notes"`
}

// TranscribeResponse is the audio-path pipeline response
type TranscribeResponse struct {
	Transcript     string          `json:"transcript"`
	MeetingSummary string          `json:"meetingSummary"`
	ActionItems    []CandidateItem `json:"actionItems"`
	MeetingUpdated bool            `json:"meetingUpdated"`
	MeetingID      *string         `json:"meetingId"`
	Model          string          `json:"model"`
}

// FromCandidates maps pipeline candidates onto response items
func FromCandidates(candidates []pipelineUsecase.Candidate) []CandidateItem {
	items := make([]CandidateItem, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, CandidateItem{
			Task:         c.Task,
			Owner:        c.Owner,
			OwnerContact: c.OwnerContact,
			Deadline:     c.Deadline,
			Priority:     string(c.Priority),
			Status:       string(c.Status),
			Confidence:   c.Confidence,
			Notes:        c.Notes,
		})
	}
	return items
}
