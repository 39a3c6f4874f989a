package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FormStore is the persistence surface required by FormService.
type FormStore interface {
	PutForm(f *Form) error
	GetForm(id string) (*Form, error) // nil when absent
	ListForms() ([]*Form, error)
	PutActive(p *ActivePointer) error
	GetActive() (*ActivePointer, error) // nil when absent
}

// FormService owns form authoring: validation, normalization, persistence and
// the active-form pointer.
type FormService struct {
	store FormStore
	now   func() time.Time
	newID func() string
}

func NewFormService(store FormStore) *FormService {
	return &FormService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: defaultRecordID,
	}
}

// defaultRecordID builds <timestamp-base36>-<random-suffix> identifiers, with
// the suffix drawn from a UUID.
func defaultRecordID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + suffix
}

// Validate reports the first violation found: title before questions,
// questions in ascending position. A nil return means the payload is
// well-formed. Question numbers in messages are 1-based.
func (s *FormService) Validate(p *FormPayload) error {
	if p == nil {
		return NewInvalidError("form payload required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return NewInvalidError("title is required")
	}
	if len(p.Questions) == 0 {
		return NewInvalidError("at least one question is required")
	}
	for i, q := range p.Questions {
		n := i + 1
		if strings.TrimSpace(q.Description) == "" {
			return NewInvalidError(fmt.Sprintf("question %d: description is required", n))
		}
		if len(q.Alternatives) < 2 {
			return NewInvalidError(fmt.Sprintf("question %d: at least two alternatives are required", n))
		}
		if q.Correct < 0 || q.Correct >= len(q.Alternatives) {
			return NewInvalidError(fmt.Sprintf("question %d: correct index out of range", n))
		}
		if q.Weight != nil && (math.IsNaN(*q.Weight) || math.IsInf(*q.Weight, 0)) {
			return NewInvalidError(fmt.Sprintf("question %d: weight must be a finite number", n))
		}
	}
	return nil
}

// Normalize trims all strings, assigns id and createdAt when absent
// (preserving supplied values so a re-save is idempotent) and applies the
// question defaults: tags [], weight 1, idk true.
func (s *FormService) Normalize(p *FormPayload) *Form {
	f := &Form{
		ID:        strings.TrimSpace(p.ID),
		Title:     strings.TrimSpace(p.Title),
		CreatedAt: strings.TrimSpace(p.CreatedAt),
		Questions: make([]Question, 0, len(p.Questions)),
	}
	if f.ID == "" {
		f.ID = s.newID()
	}
	if f.CreatedAt == "" {
		f.CreatedAt = s.now().Format(time.RFC3339)
	}
	for _, q := range p.Questions {
		nq := Question{
			Description:  strings.TrimSpace(q.Description),
			Alternatives: trimAll(q.Alternatives),
			Correct:      q.Correct,
			Tags:         trimTags(q.Tags),
			Weight:       1,
			IDK:          true,
		}
		if q.Weight != nil {
			nq.Weight = *q.Weight
		}
		if q.IDK != nil {
			nq.IDK = *q.IDK
		}
		f.Questions = append(f.Questions, nq)
	}
	return f
}

// Create validates and normalizes the payload, persists the form under its id
// and optionally makes it the active form.
func (s *FormService) Create(p *FormPayload, makeActive bool) (string, error) {
	if err := s.Validate(p); err != nil {
		return "", err
	}
	form := s.Normalize(p)
	if err := s.store.PutForm(form); err != nil {
		return "", err
	}
	if makeActive {
		if err := s.SetActive(form.ID); err != nil {
			return "", err
		}
	}
	return form.ID, nil
}

// List returns a summary per stored form, marking the one the active pointer
// currently targets.
func (s *FormService) List() ([]FormSummary, error) {
	forms, err := s.store.ListForms()
	if err != nil {
		return nil, err
	}
	activeID, err := s.ActiveID()
	if err != nil {
		return nil, err
	}
	out := make([]FormSummary, 0, len(forms))
	for _, f := range forms {
		out = append(out, FormSummary{
			ID:            f.ID,
			Title:         f.Title,
			QuestionCount: len(f.Questions),
			CreatedAt:     f.CreatedAt,
			Active:        activeID != "" && f.ID == activeID,
		})
	}
	return out, nil
}

func (s *FormService) Get(id string) (*Form, error) {
	f, err := s.store.GetForm(id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, NewNotFoundError("form not found")
	}
	return f, nil
}

// SetActive overwrites the singleton pointer with {id, now}. The form must
// already be persisted.
func (s *FormService) SetActive(id string) error {
	f, err := s.store.GetForm(id)
	if err != nil {
		return err
	}
	if f == nil {
		return NewNotFoundError("form not found")
	}
	return s.store.PutActive(&ActivePointer{ID: id, SetAt: s.now().Format(time.RFC3339)})
}

// ActiveID returns the id the pointer targets, or "" when no form is active.
func (s *FormService) ActiveID() (string, error) {
	p, err := s.store.GetActive()
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", nil
	}
	return p.ID, nil
}

// ActiveForm resolves the pointer and loads its target. A missing pointer and
// a dangling target are the same externally visible condition.
func (s *FormService) ActiveForm() (*Form, error) {
	id, err := s.ActiveID()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, NewNotFoundError("no active questionnaire")
	}
	f, err := s.store.GetForm(id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, NewNotFoundError("no active questionnaire")
	}
	return f, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func trimTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
