package services

// DashboardStore is the read surface joined by DashboardService.
type DashboardStore interface {
	ListForms() ([]*Form, error)
	GetSubmissions(formID string) ([]*Submission, error)
	GetActive() (*ActivePointer, error)
}

// Dashboard joins every form with its answer log. Raw data only; scoring is a
// presentation concern.
type Dashboard struct {
	Forms         []*Form                  `json:"forms"`
	AnswersByForm map[string][]*Submission `json:"answersByForm"`
	ActiveFormID  string                   `json:"activeFormId"`
}

type DashboardService struct {
	store DashboardStore
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store}
}

// Dashboard lists all forms, loads each form's log and resolves the active
// id. Every listed form gets a map entry, empty when nothing was submitted.
func (s *DashboardService) Dashboard() (*Dashboard, error) {
	forms, err := s.store.ListForms()
	if err != nil {
		return nil, err
	}
	byForm := make(map[string][]*Submission, len(forms))
	for _, f := range forms {
		subs, err := s.store.GetSubmissions(f.ID)
		if err != nil {
			return nil, err
		}
		byForm[f.ID] = subs
	}
	activeID := ""
	if p, err := s.store.GetActive(); err != nil {
		return nil, err
	} else if p != nil {
		activeID = p.ID
	}
	return &Dashboard{Forms: forms, AnswersByForm: byForm, ActiveFormID: activeID}, nil
}
