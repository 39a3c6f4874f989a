package services

import (
	"reflect"
	"testing"
)

type stubDashboardStore struct {
	forms  []*Form
	logs   map[string][]*Submission
	active *ActivePointer
}

func (s *stubDashboardStore) ListForms() ([]*Form, error) {
	return append([]*Form(nil), s.forms...), nil
}

func (s *stubDashboardStore) GetSubmissions(formID string) ([]*Submission, error) {
	return append([]*Submission(nil), s.logs[formID]...), nil
}

func (s *stubDashboardStore) GetActive() (*ActivePointer, error) {
	return s.active, nil
}

func TestDashboardJoinsFormsAndLogs(t *testing.T) {
	f1 := twoQuestionForm("f1")
	f2 := twoQuestionForm("f2")
	one := 1
	store := &stubDashboardStore{
		forms: []*Form{f1, f2},
		logs: map[string][]*Submission{
			"f1": {{ID: "s1", FormID: "f1", Name: "Ada", Answers: []*int{&one, nil}}},
		},
		active: &ActivePointer{ID: "f2", SetAt: "2025-03-02T09:30:00Z"},
	}

	d, err := NewDashboardService(store).Dashboard()
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(d.Forms) != 2 {
		t.Fatalf("forms = %d, want 2", len(d.Forms))
	}
	if d.ActiveFormID != "f2" {
		t.Fatalf("activeFormId = %q, want f2", d.ActiveFormID)
	}

	// The join must mirror the per-form log, including an empty entry for a
	// form without submissions.
	for _, f := range d.Forms {
		want, _ := store.GetSubmissions(f.ID)
		got, ok := d.AnswersByForm[f.ID]
		if !ok {
			t.Fatalf("no answersByForm entry for %q", f.ID)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("answersByForm[%q] = %+v, want %+v", f.ID, got, want)
		}
	}
	if len(d.AnswersByForm["f2"]) != 0 {
		t.Fatalf("answersByForm[f2] = %+v, want empty", d.AnswersByForm["f2"])
	}
}

func TestDashboardNoActiveForm(t *testing.T) {
	store := &stubDashboardStore{logs: map[string][]*Submission{}}
	d, err := NewDashboardService(store).Dashboard()
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.ActiveFormID != "" {
		t.Fatalf("activeFormId = %q, want empty", d.ActiveFormID)
	}
	if len(d.Forms) != 0 || len(d.AnswersByForm) != 0 {
		t.Fatalf("expected empty dashboard, got %+v", d)
	}
}
