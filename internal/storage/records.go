package storage

import (
	"encoding/json"

	"github.com/petterhol/quizform/internal/services"
)

// Typed record accessors over the generic layer. *FileStore satisfies the
// per-service store interfaces in internal/services.
var (
	_ services.FormStore      = (*FileStore)(nil)
	_ services.AnswerStore    = (*FileStore)(nil)
	_ services.DashboardStore = (*FileStore)(nil)
)

func (s *FileStore) PutForm(f *services.Form) error {
	return s.Write(nsForms, f.ID, f)
}

func (s *FileStore) GetForm(id string) (*services.Form, error) {
	var f services.Form
	ok, err := s.Read(nsForms, id, &f)
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}

func (s *FileStore) ListForms() ([]*services.Form, error) {
	out := []*services.Form{}
	err := s.List(nsForms, func(key string, raw []byte) {
		var f services.Form
		if err := json.Unmarshal(raw, &f); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("skipping malformed form record")
			return
		}
		out = append(out, &f)
	})
	return out, err
}

func (s *FileStore) PutActive(p *services.ActivePointer) error {
	return s.Write("", activeKey, p)
}

func (s *FileStore) GetActive() (*services.ActivePointer, error) {
	var p services.ActivePointer
	ok, err := s.Read("", activeKey, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (s *FileStore) GetSubmissions(formID string) ([]*services.Submission, error) {
	subs := []*services.Submission{}
	if _, err := s.Read(nsAnswers, formID, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *FileStore) PutSubmissions(formID string, subs []*services.Submission) error {
	return s.Write(nsAnswers, formID, subs)
}

func (s *FileStore) ListAllSubmissions() ([]*services.Submission, error) {
	out := []*services.Submission{}
	err := s.List(nsAnswers, func(key string, raw []byte) {
		var subs []*services.Submission
		if err := json.Unmarshal(raw, &subs); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("skipping malformed answer log")
			return
		}
		out = append(out, subs...)
	})
	return out, err
}
