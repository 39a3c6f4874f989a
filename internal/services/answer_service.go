package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// AnswerStore is the persistence surface required by AnswerService.
type AnswerStore interface {
	GetForm(id string) (*Form, error)
	GetSubmissions(formID string) ([]*Submission, error) // empty when no log exists
	PutSubmissions(formID string, subs []*Submission) error
	ListAllSubmissions() ([]*Submission, error)
}

// SubmitRequest mirrors the inbound submission payload. Answer entries stay
// raw until they are validated against the referenced form.
type SubmitRequest struct {
	FormID  string            `json:"formId"`
	Name    string            `json:"name"`
	Answers []json.RawMessage `json:"answers"`
}

// AnswerService validates answer sets against their form and appends them to
// the per-form log.
type AnswerService struct {
	store AnswerStore
	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAnswerService(store AnswerStore) *AnswerService {
	return &AnswerService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: defaultRecordID,
		locks: map[string]*sync.Mutex{},
	}
}

// formLock serializes the log's read-modify-write per form key. Without it,
// two concurrent submissions to the same form could each load the log and
// overwrite the other's append.
func (s *AnswerService) formLock(formID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[formID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[formID] = l
	}
	return l
}

// Submit validates an answer set and appends it to the form's log. Every
// entry must be null or an in-range alternative index; null is always
// accepted as a skip, the question's idk flag is not enforced here.
func (s *AnswerService) Submit(req SubmitRequest) (*Submission, error) {
	formID := strings.TrimSpace(req.FormID)
	if formID == "" {
		return nil, NewInvalidError("formId is required")
	}
	if req.Answers == nil {
		return nil, NewInvalidError("answers must be an array")
	}
	form, err := s.store.GetForm(formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, NewNotFoundError("form not found")
	}
	if len(req.Answers) != len(form.Questions) {
		return nil, NewInvalidError(fmt.Sprintf("expected %d answers, got %d", len(form.Questions), len(req.Answers)))
	}

	answers := make([]*int, len(req.Answers))
	for i, raw := range req.Answers {
		idx, ok := parseAnswer(raw, len(form.Questions[i].Alternatives))
		if !ok {
			return nil, NewInvalidError(fmt.Sprintf("invalid answer for question %d", i+1))
		}
		answers[i] = idx
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Anonymous"
	}
	sub := &Submission{
		ID:          s.newID(),
		FormID:      formID,
		Name:        name,
		Answers:     answers,
		SubmittedAt: s.now().Format(time.RFC3339),
	}

	lock := s.formLock(formID)
	lock.Lock()
	defer lock.Unlock()
	log, err := s.store.GetSubmissions(formID)
	if err != nil {
		return nil, err
	}
	log = append(log, sub)
	if err := s.store.PutSubmissions(formID, log); err != nil {
		return nil, err
	}
	return sub, nil
}

// parseAnswer returns nil for a null skip, or the index when it is an
// integral number within [0, alternatives).
func parseAnswer(raw json.RawMessage, alternatives int) (*int, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, true
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return nil, false
	}
	if n != math.Trunc(n) {
		return nil, false
	}
	idx := int(n)
	if idx < 0 || idx >= alternatives {
		return nil, false
	}
	return &idx, true
}

// ListByForm returns the form's log, empty when nothing was submitted yet.
func (s *AnswerService) ListByForm(formID string) ([]*Submission, error) {
	return s.store.GetSubmissions(formID)
}

// ListAll concatenates every form's log in enumeration order.
func (s *AnswerService) ListAll() ([]*Submission, error) {
	return s.store.ListAllSubmissions()
}
