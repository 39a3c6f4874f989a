package services_test

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/petterhol/quizform/internal/services"
	"github.com/petterhol/quizform/internal/storage"
)

// Concurrent submissions to the same form must all survive the log's
// read-modify-write. Runs against the real file store so the appends contend
// on the persisted record rather than an in-memory stub.
func TestSubmitConcurrentSameForm(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	forms := services.NewFormService(store)
	id, err := forms.Create(&services.FormPayload{
		Title: "Busy quiz",
		Questions: []services.QuestionPayload{
			{Description: "Pick one", Alternatives: []string{"a", "b", "c"}, Correct: 0},
		},
	}, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	svc := services.NewAnswerService(store)
	const workers = 50
	errc := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Submit(services.SubmitRequest{
				FormID:  id,
				Name:    fmt.Sprintf("student-%d", i),
				Answers: []json.RawMessage{json.RawMessage(fmt.Sprintf("%d", i%3))},
			})
			if err != nil {
				errc <- fmt.Errorf("submission %d: %w", i, err)
			}
		}(i)
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		t.Fatal(err)
	}

	log, err := svc.ListByForm(id)
	if err != nil {
		t.Fatalf("ListByForm: %v", err)
	}
	if len(log) != workers {
		t.Fatalf("log holds %d submissions, want %d", len(log), workers)
	}
	seen := make(map[string]bool, workers)
	for _, sub := range log {
		if seen[sub.Name] {
			t.Fatalf("submission %q recorded twice", sub.Name)
		}
		seen[sub.Name] = true
	}
}
