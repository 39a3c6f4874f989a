package services

// Form is a stored questionnaire definition. Forms are only written through
// authoring calls; answer submission never mutates them.
type Form struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt string     `json:"createdAt"`
	Questions []Question `json:"questions"`
}

// Question is one multiple-choice entry of a form.
type Question struct {
	Description  string   `json:"description"`
	Alternatives []string `json:"alternatives"`
	Correct      int      `json:"correct"`
	Tags         []string `json:"tags"`
	Weight       float64  `json:"weight"`
	IDK          bool     `json:"idk"`
}

// FormSummary is the list view of a form.
type FormSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"questionCount"`
	CreatedAt     string `json:"createdAt"`
	Active        bool   `json:"active"`
}

// ActivePointer designates the single form currently open for submissions.
// It is a singleton record; setting it is a total overwrite.
type ActivePointer struct {
	ID    string `json:"id"`
	SetAt string `json:"setAt"`
}

// Submission is one respondent's answer set for a form. A nil answer entry
// records a skipped question.
type Submission struct {
	ID          string `json:"id"`
	FormID      string `json:"formId"`
	Name        string `json:"name"`
	Answers     []*int `json:"answers"`
	SubmittedAt string `json:"submittedAt"`
}

// FormPayload is the inbound shape of a form before normalization.
type FormPayload struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	CreatedAt string            `json:"createdAt"`
	Questions []QuestionPayload `json:"questions"`
}

// QuestionPayload is the inbound shape of a question. Pointer fields
// distinguish an omitted value from an explicit zero so normalization can
// apply defaults without clobbering what the author wrote.
type QuestionPayload struct {
	Description  string   `json:"description"`
	Alternatives []string `json:"alternatives"`
	Correct      int      `json:"correct"`
	Tags         []string `json:"tags"`
	Weight       *float64 `json:"weight"`
	IDK          *bool    `json:"idk"`
}
