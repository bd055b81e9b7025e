package services

import (
	"strings"
	"sync"

	"github.com/looooooty/basesweb/internal/models"
	"github.com/looooooty/basesweb/internal/store"
	"github.com/looooooty/basesweb/internal/types"
)

// FormRegistry owns the application-form collection. All mutating cycles
// on the collection are serialized through the registry's mutex.
type FormRegistry struct {
	mu              sync.Mutex
	collection      *store.Collection[models.ApplicationForm]
	fallbackGuildID string
	defaultRoleID   string
}

// NewFormRegistry returns a registry over application_forms.json in dir.
// guildID and defaultRoleID fill in forms that carry no target of their own.
func NewFormRegistry(dir, guildID, defaultRoleID string) *FormRegistry {
	return &FormRegistry{
		collection:      store.NewCollection[models.ApplicationForm](dir, "application_forms.json"),
		fallbackGuildID: guildID,
		defaultRoleID:   defaultRoleID,
	}
}

// List loads every form, normalizing each record and re-persisting the
// collection so malformed stored data self-heals on every read. An empty
// or absent collection is seeded with the built-in default forms, which
// keeps the public submission page populated on a fresh deployment.
func (r *FormRegistry) List() ([]models.ApplicationForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked()
}

func (r *FormRegistry) listLocked() ([]models.ApplicationForm, error) {
	forms := r.collection.Load([]models.ApplicationForm{})
	if len(forms) == 0 {
		forms = r.defaultForms()
	} else {
		for i := range forms {
			forms[i] = models.NormalizeForm(forms[i], i, r.fallbackGuildID)
		}
	}
	if err := r.collection.Save(forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// Find returns the form with the given id.
func (r *FormRegistry) Find(id string) (models.ApplicationForm, error) {
	forms, err := r.List()
	if err != nil {
		return models.ApplicationForm{}, err
	}
	for _, f := range forms {
		if f.ID == id {
			return f, nil
		}
	}
	return models.ApplicationForm{}, &types.NotFoundError{Kind: "application form", ID: id}
}

// Create validates and appends a new form. The id is derived from the name
// and made unique with a numeric suffix on collision.
func (r *FormRegistry) Create(name, guildID, roleID string, questions []string) (models.ApplicationForm, error) {
	name, guildID, roleID, err := validateFormInput(name, guildID, roleID)
	if err != nil {
		return models.ApplicationForm{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	forms, err := r.listLocked()
	if err != nil {
		return models.ApplicationForm{}, err
	}

	form := models.ApplicationForm{
		ID:        models.MakeFormID(name, forms),
		Name:      name,
		GuildID:   guildID,
		RoleID:    roleID,
		Questions: models.NormalizeQuestions(questions),
		Active:    true,
		CreatedAt: models.NowISO(),
	}
	forms = append(forms, form)
	if err := r.collection.Save(forms); err != nil {
		return models.ApplicationForm{}, err
	}
	return form, nil
}

// Update replaces a form's name, targets and questions in place,
// preserving its id, active flag and creation timestamp.
func (r *FormRegistry) Update(id, name, guildID, roleID string, questions []string) (models.ApplicationForm, error) {
	name, guildID, roleID, err := validateFormInput(name, guildID, roleID)
	if err != nil {
		return models.ApplicationForm{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	forms, err := r.listLocked()
	if err != nil {
		return models.ApplicationForm{}, err
	}

	idx := findFormIndex(forms, id)
	if idx == -1 {
		return models.ApplicationForm{}, &types.NotFoundError{Kind: "application form", ID: id}
	}

	forms[idx].Name = name
	forms[idx].GuildID = guildID
	forms[idx].RoleID = roleID
	forms[idx].Questions = models.NormalizeQuestions(questions)
	if err := r.collection.Save(forms); err != nil {
		return models.ApplicationForm{}, err
	}
	return forms[idx], nil
}

// ToggleActive flips a form's active flag. Inactive forms are hidden from
// public submission but stay visible to staff.
func (r *FormRegistry) ToggleActive(id string) (models.ApplicationForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	forms, err := r.listLocked()
	if err != nil {
		return models.ApplicationForm{}, err
	}

	idx := findFormIndex(forms, id)
	if idx == -1 {
		return models.ApplicationForm{}, &types.NotFoundError{Kind: "application form", ID: id}
	}

	forms[idx].Active = !forms[idx].Active
	if err := r.collection.Save(forms); err != nil {
		return models.ApplicationForm{}, err
	}
	return forms[idx], nil
}

// Delete removes a form. Existing applications keep their snapshotted
// targets; deletion does not cascade.
func (r *FormRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	forms, err := r.listLocked()
	if err != nil {
		return err
	}

	idx := findFormIndex(forms, id)
	if idx == -1 {
		return &types.NotFoundError{Kind: "application form", ID: id}
	}

	forms = append(forms[:idx], forms[idx+1:]...)
	return r.collection.Save(forms)
}

func findFormIndex(forms []models.ApplicationForm, id string) int {
	for i := range forms {
		if forms[i].ID == id {
			return i
		}
	}
	return -1
}

func validateFormInput(name, guildID, roleID string) (string, string, string, error) {
	name = models.CleanText(name, models.MaxFormNameLen)
	guildID = strings.TrimSpace(guildID)
	roleID = strings.TrimSpace(roleID)

	if name == "" {
		return "", "", "", &types.ValidationError{Message: "Form name is required"}
	}
	if !models.IsSnowflake(guildID) {
		return "", "", "", &types.ValidationError{Message: "Invalid Guild ID"}
	}
	if !models.IsSnowflake(roleID) {
		return "", "", "", &types.ValidationError{Message: "Invalid Role ID"}
	}
	return name, guildID, roleID, nil
}

// defaultForms is the built-in seed: the two application types the
// community launched with.
func (r *FormRegistry) defaultForms() []models.ApplicationForm {
	guildID := strings.TrimSpace(r.fallbackGuildID)
	if guildID == "" {
		guildID = "1374475620846928062"
	}
	memberRoleID := strings.TrimSpace(r.defaultRoleID)
	if memberRoleID == "" {
		memberRoleID = "1375496244163641414"
	}
	now := models.NowISO()

	return []models.ApplicationForm{
		{
			ID:      "base-member",
			Name:    "Base Member",
			GuildID: guildID,
			RoleID:  memberRoleID,
			Questions: []string{
				"When have you joined 2b2t for the first time?",
				"Have you leaked or griefed any base in the past?",
				"Do you own priority queue",
				"Were you part of any base that got griefed in the past?",
				"Is it okay for you to travel long distances on 2b2t?",
				"Why do you want to become a Base member",
				"Have you accidentally stumbled upon a major base in the past",
				"Add anything you want below",
			},
			Active:    true,
			CreatedAt: now,
		},
		{
			ID:      "vip",
			Name:    "VIP",
			GuildID: guildID,
			RoleID:  "1374476630873084075",
			Questions: []string{
				"Have you been a Base member for more than 2 months already",
				"Did you ever get warned by Looooooty about something you did wrong at the base?",
				"Have you followed the rules of the group and never broke them?",
				"Add anything you will think that will increase your chances of becoming a VIP.",
			},
			Active:    true,
			CreatedAt: now,
		},
	}
}
