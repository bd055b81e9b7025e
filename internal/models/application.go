package models

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/looooooty/basesweb/internal/types"
)

// Application statuses. PENDING is the only non-terminal state; there is no
// transition out of APPROVED or REJECTED.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Application sources (provenance only, no behavior differences beyond the
// inactive-form tolerance on the staff path).
const (
	SourceWeb   = "web"
	SourceStaff = "staff"
)

// Applicant field limits.
const (
	MaxDiscordTagLen = 64
	MaxIGNLen        = 32
	MaxReasonLen     = 1000
	MaxAnswerLen     = 500
	MaxReviewerLen   = 32
)

// Application is one applicant's submission against a form, tracked through
// the review state machine. The form name and targets are denormalized
// snapshots from submission time; approval re-reads the form for the
// current targets before acting.
type Application struct {
	ID              string          `json:"id"`
	GuildID         string          `json:"guildId"`
	DiscordUserID   string          `json:"discordUserId"`
	DiscordTag      string          `json:"discordTag"`
	MinecraftIGN    string          `json:"minecraftIgn"`
	Reason          string          `json:"reason"`
	FormID          string          `json:"formId"`
	FormName        string          `json:"formName"`
	TargetGuildID   string          `json:"targetGuildId"`
	TargetRoleID    string          `json:"targetRoleId"`
	CustomQuestions []string        `json:"customQuestions"`
	CustomAnswers   []string        `json:"customAnswers"`
	Status          string          `json:"status"`
	Source          string          `json:"source"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
	ApprovedAt      string          `json:"approvedAt,omitempty"`
	RejectedAt      string          `json:"rejectedAt,omitempty"`
	ReviewedBy      string          `json:"reviewedBy"`
	ApprovalResult  json.RawMessage `json:"approvalResult,omitempty"`
}

// rawApplication tolerates the legacy singular customQuestion and
// customAnswer fields.
type rawApplication struct {
	ID              string                 `json:"id"`
	GuildID         string                 `json:"guildId"`
	DiscordUserID   string                 `json:"discordUserId"`
	DiscordTag      string                 `json:"discordTag"`
	MinecraftIGN    string                 `json:"minecraftIgn"`
	Reason          string                 `json:"reason"`
	FormID          string                 `json:"formId"`
	FormName        string                 `json:"formName"`
	TargetGuildID   string                 `json:"targetGuildId"`
	TargetRoleID    string                 `json:"targetRoleId"`
	CustomQuestions types.FlexList[string] `json:"customQuestions"`
	CustomQuestion  string                 `json:"customQuestion"`
	CustomAnswers   types.FlexList[string] `json:"customAnswers"`
	CustomAnswer    string                 `json:"customAnswer"`
	Status          string                 `json:"status"`
	Source          string                 `json:"source"`
	CreatedAt       string                 `json:"createdAt"`
	UpdatedAt       string                 `json:"updatedAt"`
	ApprovedAt      string                 `json:"approvedAt"`
	RejectedAt      string                 `json:"rejectedAt"`
	ReviewedBy      string                 `json:"reviewedBy"`
	ApprovalResult  json.RawMessage        `json:"approvalResult"`
}

// UnmarshalJSON folds the legacy field variants into the typed record.
func (a *Application) UnmarshalJSON(data []byte) error {
	var raw rawApplication
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	questions := raw.CustomQuestions.Slice()
	if len(questions) == 0 && raw.CustomQuestion != "" {
		questions = []string{raw.CustomQuestion}
	}
	answers := raw.CustomAnswers.Slice()
	if len(answers) == 0 && raw.CustomAnswer != "" {
		answers = []string{raw.CustomAnswer}
	}

	*a = Application{
		ID:              raw.ID,
		GuildID:         raw.GuildID,
		DiscordUserID:   raw.DiscordUserID,
		DiscordTag:      raw.DiscordTag,
		MinecraftIGN:    raw.MinecraftIGN,
		Reason:          raw.Reason,
		FormID:          raw.FormID,
		FormName:        raw.FormName,
		TargetGuildID:   raw.TargetGuildID,
		TargetRoleID:    raw.TargetRoleID,
		CustomQuestions: questions,
		CustomAnswers:   answers,
		Status:          raw.Status,
		Source:          raw.Source,
		CreatedAt:       raw.CreatedAt,
		UpdatedAt:       raw.UpdatedAt,
		ApprovedAt:      raw.ApprovedAt,
		RejectedAt:      raw.RejectedAt,
		ReviewedBy:      raw.ReviewedBy,
		ApprovalResult:  raw.ApprovalResult,
	}
	return nil
}

// NewApplicationID returns a globally unique, time-ordered application id
// in the APP-<millis>-<NNN> format the collection has always used.
func NewApplicationID() string {
	return fmt.Sprintf("APP-%d-%d", time.Now().UnixMilli(), 100+rand.Intn(900))
}
