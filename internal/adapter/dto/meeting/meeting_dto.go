package meeting

// CreateMeetingRequest registers a new meeting
type CreateMeetingRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	MeetingDate string  `json:"meeting_date,omitempty"` // ISO 8601, defaults to now
	AudioURL    *string `json:"audio_url,omitempty" validate:"omitempty,url"`
}

// UpdateItemRequest is a partial edit of one action item; absent fields are
// left unchanged, an explicit null deadline clears it
type UpdateItemRequest struct {
	Task          *string `json:"task,omitempty" validate:"omitempty,min=1"`
	Owner         *string `json:"owner,omitempty"`
	OwnerContact  *string `json:"owner_contact,omitempty"`
	Deadline      *string `json:"deadline,omitempty"`
	ClearDeadline bool    `json:"clear_deadline,omitempty"`
	Priority      *string `json:"priority,omitempty" validate:"omitempty,priority"`
	Status        *string `json:"status,omitempty" validate:"omitempty,item_status"`
	Notes         *string `json:"notes,omitempty"`
}

// JiraIntegrationRequest stores the user's Jira credential
type JiraIntegrationRequest struct {
	BaseURL    string `json:"base_url" validate:"required,url"`
	Email      string `json:"email" validate:"required,email"`
	APIToken   string `json:"api_token" validate:"required"`
	ProjectKey string `json:"project_key" validate:"required"`
}

// PublishItemRequest is one item selected for tracker publishing
type PublishItemRequest struct {
	ID          string `json:"id" validate:"required,uuid"`
	Summary     string `json:"summary" validate:"required"`
	Description string `json:"description,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// PublishRequest is the tracker publish batch
type PublishRequest struct {
	ActionItems []PublishItemRequest `json:"actionItems" validate:"required,min=1,dive"`
}
