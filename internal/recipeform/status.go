package recipeform

import (
	"sync"

	"github.com/franckalain/recipebook/internal/models"
)

// Status is the observable state of one form's submissions. Success and
// error messages are mutually exclusive and cleared by Begin.
type Status struct {
	mu       sync.Mutex
	result   models.SubmissionResult
	onChange func(models.SubmissionResult)
}

// NewStatus returns an idle status. onChange, if non-nil, receives a snapshot
// after every transition; it is called without the lock held.
func NewStatus(onChange func(models.SubmissionResult)) *Status {
	return &Status{onChange: onChange}
}

func (s *Status) Snapshot() models.SubmissionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Status) Begin() {
	s.update(func(r *models.SubmissionResult) {
		*r = models.SubmissionResult{Loading: true}
	})
}

func (s *Status) Succeed(msg string) {
	s.update(func(r *models.SubmissionResult) {
		r.SuccessMessage = msg
		r.ErrorMessage = ""
	})
}

func (s *Status) Fail(msg string) {
	s.update(func(r *models.SubmissionResult) {
		r.SuccessMessage = ""
		r.ErrorMessage = msg
	})
}

// Done clears the loading flag.
func (s *Status) Done() {
	s.update(func(r *models.SubmissionResult) {
		r.Loading = false
	})
}

func (s *Status) update(fn func(*models.SubmissionResult)) {
	s.mu.Lock()
	fn(&s.result)
	snapshot := s.result
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(snapshot)
	}
}
