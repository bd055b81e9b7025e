package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/looooooty/basesweb/internal/types"
)

// Form field limits.
const (
	MaxFormNameLen = 80
	MaxQuestionLen = 160
	maxFormSlugLen = 40
)

// ApplicationForm is a configurable application type: the guild and role it
// targets plus an ordered custom question set. Question order is
// semantically meaningful; it pairs positionally with an applicant's
// answers.
type ApplicationForm struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	GuildID   string   `json:"guildId"`
	RoleID    string   `json:"roleId"`
	Questions []string `json:"questions"`
	Active    bool     `json:"active"`
	CreatedAt string   `json:"createdAt"`
}

// rawForm tolerates the loose shapes the legacy portal wrote: a singular
// "question" field, "questions" as a bare string, and a missing "active"
// flag meaning active.
type rawForm struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	GuildID   string                 `json:"guildId"`
	RoleID    string                 `json:"roleId"`
	Questions types.FlexList[string] `json:"questions"`
	Question  string                 `json:"question"`
	Active    *bool                  `json:"active"`
	CreatedAt string                 `json:"createdAt"`
}

// UnmarshalJSON folds the legacy field variants into the typed record.
func (f *ApplicationForm) UnmarshalJSON(data []byte) error {
	var raw rawForm
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	questions := raw.Questions.Slice()
	if len(questions) == 0 && raw.Question != "" {
		questions = []string{raw.Question}
	}

	*f = ApplicationForm{
		ID:        raw.ID,
		Name:      raw.Name,
		GuildID:   raw.GuildID,
		RoleID:    raw.RoleID,
		Questions: questions,
		Active:    raw.Active == nil || *raw.Active,
		CreatedAt: raw.CreatedAt,
	}
	return nil
}

// NormalizeForm fills missing fields and clamps lengths on a loaded form
// record. idx is the record's position in the collection, used for
// synthesized defaults.
func NormalizeForm(f ApplicationForm, idx int, fallbackGuildID string) ApplicationForm {
	name := CleanText(f.Name, MaxFormNameLen)
	if name == "" {
		name = fmt.Sprintf("Application %d", idx+1)
	}

	id := strings.TrimSpace(f.ID)
	if id == "" {
		id = fmt.Sprintf("form-%d", idx+1)
	}

	guildID := strings.TrimSpace(f.GuildID)
	if guildID == "" {
		guildID = strings.TrimSpace(fallbackGuildID)
	}

	createdAt := f.CreatedAt
	if createdAt == "" {
		createdAt = NowISO()
	}

	return ApplicationForm{
		ID:        id,
		Name:      name,
		GuildID:   guildID,
		RoleID:    strings.TrimSpace(f.RoleID),
		Questions: NormalizeQuestions(f.Questions),
		Active:    f.Active,
		CreatedAt: createdAt,
	}
}

// NormalizeQuestions trims each question, clamps it to MaxQuestionLen and
// drops blanks.
func NormalizeQuestions(questions []string) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		q = CleanText(q, MaxQuestionLen)
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}

var formSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// MakeFormID derives a unique slug id from a display name, resolving
// collisions with a numeric suffix. It never overwrites an existing id.
func MakeFormID(name string, forms []ApplicationForm) string {
	root := strings.Trim(formSlugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
	root = Clamp(root, maxFormSlugLen)
	if root == "" {
		root = "form"
	}

	used := make(map[string]struct{}, len(forms))
	for _, f := range forms {
		used[f.ID] = struct{}{}
	}

	id := root
	for n := 2; ; n++ {
		if _, taken := used[id]; !taken {
			return id
		}
		id = fmt.Sprintf("%s-%d", root, n)
	}
}
