package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/looooooty/basesweb/internal/models"
	"github.com/looooooty/basesweb/internal/store"
	"github.com/looooooty/basesweb/internal/types"
)

// Review decisions.
const (
	DecisionApprove = "APPROVE"
	DecisionReject  = "REJECT"
)

const rejectionNote = "Contact staff if you need more details."

// Coordinator performs the privileged actions the portal delegates to the
// Discord bot: granting the target role and notifying the applicant of a
// decision. The two calls fail independently.
type Coordinator interface {
	GrantRole(ctx context.Context, app models.Application) (json.RawMessage, error)
	NotifyDecision(ctx context.Context, app models.Application, status, note string) error
}

// SubmitInput carries one applicant submission.
type SubmitInput struct {
	FormID        string
	DiscordUserID string
	DiscordTag    string
	MinecraftIGN  string
	Reason        string
	Answers       []string
	Source        string
}

// ReviewResult is the outcome of a review action. Warning carries a
// non-fatal follow-up failure (the decision DM) that the reviewer should
// see but that does not undo the committed decision.
type ReviewResult struct {
	Application models.Application
	Warning     string
}

// ApplicationService owns the submitted-application collection and its
// review state machine.
type ApplicationService struct {
	mu              sync.Mutex
	collection      *store.Collection[models.Application]
	forms           *FormRegistry
	coordinator     Coordinator
	fallbackGuildID string
	fallbackRoleID  string
}

// NewApplicationService returns a service over base_member_applications.json
// in dir. The fallback guild and role fill in applications whose form
// carries no target of its own.
func NewApplicationService(dir string, forms *FormRegistry, coordinator Coordinator, fallbackGuildID, fallbackRoleID string) *ApplicationService {
	return &ApplicationService{
		collection:      store.NewCollection[models.Application](dir, "base_member_applications.json"),
		forms:           forms,
		coordinator:     coordinator,
		fallbackGuildID: fallbackGuildID,
		fallbackRoleID:  fallbackRoleID,
	}
}

// List returns every application, newest first.
func (s *ApplicationService) List() ([]models.Application, error) {
	s.mu.Lock()
	apps := s.collection.Load([]models.Application{})
	s.mu.Unlock()

	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].CreatedAt > apps[j].CreatedAt
	})
	return apps, nil
}

// Submit validates one submission against its form, snapshots the form's
// current name and targets into a new PENDING application, and persists it.
// The staff source tolerates an inactive form; the public source does not.
func (s *ApplicationService) Submit(in SubmitInput) (models.Application, error) {
	discordUserID := strings.TrimSpace(in.DiscordUserID)
	if !models.IsSnowflake(discordUserID) {
		return models.Application{}, &types.ValidationError{Message: "Invalid Discord User ID"}
	}

	form, err := s.forms.Find(strings.TrimSpace(in.FormID))
	if err != nil {
		var notFound *types.NotFoundError
		if errors.As(err, &notFound) {
			return models.Application{}, &types.InvalidFormError{FormID: in.FormID}
		}
		return models.Application{}, err
	}
	if !form.Active && in.Source != models.SourceStaff {
		return models.Application{}, &types.InvalidFormError{FormID: form.ID}
	}

	answers := make([]string, len(in.Answers))
	for i, a := range in.Answers {
		answers[i] = models.CleanText(a, models.MaxAnswerLen)
	}

	// Every question needs a non-empty answer before any reshaping.
	questionCount := len(form.Questions)
	answered := 0
	for i := 0; i < questionCount; i++ {
		if i < len(answers) && answers[i] != "" {
			answered++
		}
	}
	if answered < questionCount {
		return models.Application{}, &types.IncompleteAnswersError{
			Questions: questionCount,
			Answered:  answered,
		}
	}

	// Excess answers are dropped; missing trailing answers are padded.
	if len(answers) > questionCount {
		answers = answers[:questionCount]
	}
	for len(answers) < questionCount {
		answers = append(answers, "")
	}

	source := in.Source
	if source != models.SourceStaff {
		source = models.SourceWeb
	}

	now := models.NowISO()
	app := models.Application{
		ID:              models.NewApplicationID(),
		GuildID:         s.resolveGuild(form),
		DiscordUserID:   discordUserID,
		DiscordTag:      models.CleanText(in.DiscordTag, models.MaxDiscordTagLen),
		MinecraftIGN:    models.CleanText(in.MinecraftIGN, models.MaxIGNLen),
		Reason:          models.CleanText(in.Reason, models.MaxReasonLen),
		FormID:          form.ID,
		FormName:        form.Name,
		TargetGuildID:   s.resolveGuild(form),
		TargetRoleID:    s.resolveRole(form),
		CustomQuestions: form.Questions,
		CustomAnswers:   answers,
		Status:          models.StatusPending,
		Source:          source,
		CreatedAt:       now,
		UpdatedAt:       now,
		ReviewedBy:      "",
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	apps := s.collection.Load([]models.Application{})
	apps = append(apps, app)
	if err := s.collection.Save(apps); err != nil {
		return models.Application{}, err
	}
	return app, nil
}

// Review applies a terminal decision to a PENDING application.
//
// APPROVE re-resolves the form so the grant acts on the form's current
// guild and role, not the snapshot taken at submission time, and commits
// the APPROVED state only after the grant call succeeds; on failure the
// record stays PENDING and the reviewer can retry.
//
// REJECT commits immediately and then notifies the applicant best-effort;
// a failed notification surfaces as a warning, never as a rollback.
func (s *ApplicationService) Review(ctx context.Context, id, decision, reviewer string) (ReviewResult, error) {
	reviewer = models.CleanText(reviewer, models.MaxReviewerLen)
	if reviewer == "" {
		reviewer = "Staff"
	}
	if decision != DecisionApprove && decision != DecisionReject {
		return ReviewResult{}, &types.ValidationError{Message: fmt.Sprintf("Unknown review decision '%s'", decision)}
	}

	// The lock deliberately spans the outbound grant call: reviews are
	// serialized so the PENDING re-check below holds until the decision
	// is committed.
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := s.collection.Load([]models.Application{})
	idx := -1
	for i := range apps {
		if apps[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ReviewResult{}, &types.NotFoundError{Kind: "application", ID: id}
	}

	app := apps[idx]
	if app.Status != models.StatusPending {
		return ReviewResult{}, &types.AlreadyReviewedError{ID: id, Status: app.Status}
	}

	if decision == DecisionReject {
		now := models.NowISO()
		app.Status = models.StatusRejected
		app.ReviewedBy = reviewer
		app.UpdatedAt = now
		app.RejectedAt = now
		apps[idx] = app
		if err := s.collection.Save(apps); err != nil {
			return ReviewResult{}, err
		}

		result := ReviewResult{Application: app}
		if err := s.coordinator.NotifyDecision(ctx, app, models.StatusRejected, rejectionNote); err != nil {
			result.Warning = fmt.Sprintf("Application rejected but DM failed: %v", err)
		}
		return result, nil
	}

	// The form may have been edited since submission; approval always
	// targets its current guild and role. A deleted form leaves the
	// snapshot in place.
	if form, err := s.forms.Find(app.FormID); err == nil {
		if form.RoleID != "" {
			app.TargetRoleID = form.RoleID
		}
		if form.GuildID != "" {
			app.TargetGuildID = form.GuildID
			app.GuildID = form.GuildID
		}
		app.FormName = form.Name
	}

	grantResult, err := s.coordinator.GrantRole(ctx, app)
	if err != nil {
		// No commit: the record stays PENDING.
		return ReviewResult{}, err
	}

	now := models.NowISO()
	app.Status = models.StatusApproved
	app.ReviewedBy = reviewer
	app.UpdatedAt = now
	app.ApprovedAt = now
	app.ApprovalResult = grantResult
	apps[idx] = app
	if err := s.collection.Save(apps); err != nil {
		return ReviewResult{}, err
	}
	return ReviewResult{Application: app}, nil
}

func (s *ApplicationService) resolveGuild(form models.ApplicationForm) string {
	if form.GuildID != "" {
		return form.GuildID
	}
	return strings.TrimSpace(s.fallbackGuildID)
}

func (s *ApplicationService) resolveRole(form models.ApplicationForm) string {
	if form.RoleID != "" {
		return form.RoleID
	}
	return strings.TrimSpace(s.fallbackRoleID)
}
