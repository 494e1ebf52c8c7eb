package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"citizen-portal-api/config"
	"citizen-portal-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newApplicationID() string {
	return uuid.NewString()
}

// Sentinel errors mapped to HTTP statuses by the controllers.
var (
	ErrNotFound          = errors.New("record not found")
	ErrTerminalState     = errors.New("application review already finalized")
	ErrInvalidStatus     = errors.New("invalid document status")
	ErrInvalidTransition = errors.New("no document pending review")
	ErrPendingReview     = errors.New("document review in progress")
)

// referenceGenerator issues citizen-facing tracking codes. Package-level so
// tests can pin it.
var referenceGenerator = func() string {
	return fmt.Sprintf("APP-%s-%04d", time.Now().Format("20060102"), rand.Intn(10000))
}

// StartResult reports how StartApplication satisfied the request.
type StartResult struct {
	Application *models.Application
	Existing    bool
	Restarted   bool
}

// ProgressService owns every transition of an application's step progress
// and document review state. Controllers never touch the arithmetic
// directly; each call site delegates here.
type ProgressService struct {
	db    *gorm.DB
	store ApplicationStore
}

// NewProgressService constructs the service. A nil db falls back to the
// process-wide connection.
func NewProgressService(db *gorm.DB) *ProgressService {
	if db == nil {
		db = config.DB
	}
	return &ProgressService{
		db:    db,
		store: NewApplicationStore(db),
	}
}

// StartApplication implements the start-or-resume contract:
//
//  1. forceRestart with an existing row: reset it to the initial state and
//     issue a new reference number, tagged restarted.
//  2. An existing row with progress: returned untouched, tagged existing.
//     Repeated starts from a retrying client never clobber work in flight.
//  3. An existing row still at the zero state: refresh it, tagged existing.
//  4. No row: create one.
//
// Concurrent creates for the same (user, service) are resolved by the
// unique index: the losing insert re-reads and returns the winner's row.
func (s *ProgressService) StartApplication(userID int, service *models.Service, referenceNumber string, forceRestart bool) (*StartResult, error) {
	app, err := s.store.FindActive(userID, service.ServiceKey)
	if err != nil {
		return nil, err
	}

	if app != nil && forceRestart {
		if referenceNumber == "" {
			referenceNumber = referenceGenerator()
		}
		fields := map[string]interface{}{
			"step_index":       0,
			"progress_percent": 0,
			"document_status":  models.DocumentStatusDraft,
			"document_url":     nil,
			"admin_notes":      nil,
			"completed_at":     nil,
			"reference_number": referenceNumber,
		}
		if err := s.store.Updates(app, fields); err != nil {
			return nil, err
		}
		return &StartResult{Application: app, Restarted: true}, nil
	}

	if app != nil && !app.IsZeroState() {
		return &StartResult{Application: app, Existing: true}, nil
	}

	if app != nil {
		fields := map[string]interface{}{}
		if referenceNumber != "" {
			fields["reference_number"] = referenceNumber
		}
		if err := s.store.Updates(app, fields); err != nil {
			return nil, err
		}
		return &StartResult{Application: app, Existing: true}, nil
	}

	if referenceNumber == "" {
		referenceNumber = referenceGenerator()
	}

	now := time.Now()
	fresh := &models.Application{
		ID:              newApplicationID(),
		UserID:          userID,
		ServiceKey:      service.ServiceKey,
		ReferenceNumber: referenceNumber,
		StepIndex:       0,
		ProgressPercent: 0,
		DocumentStatus:  models.DocumentStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Create(fresh); err != nil {
		// Another request created the row between our read and this insert.
		// The unique index rejected the duplicate; hand back the winner.
		winner, findErr := s.store.FindActive(userID, service.ServiceKey)
		if findErr == nil && winner != nil {
			return &StartResult{Application: winner, Existing: true}, nil
		}
		return nil, err
	}

	return &StartResult{Application: fresh}, nil
}

// Advance moves the application to the requested step. Out-of-range steps
// are clamped into [0, total_steps-1]; stepping backwards is allowed. The
// persisted percentage is floor((step+1)/total*100), which reaches 100 on
// the last step.
func (s *ProgressService) Advance(app *models.Application, service *models.Service, requestedStep int) (int, int, error) {
	if app.IsTerminal() {
		return 0, 0, ErrTerminalState
	}

	total := service.TotalSteps()
	step := requestedStep
	if step < 0 {
		step = 0
	}
	if step > total-1 {
		step = total - 1
	}

	percent := (step + 1) * 100 / total

	fields := map[string]interface{}{
		"step_index":       step,
		"progress_percent": percent,
	}
	if err := s.store.Updates(app, fields); err != nil {
		return 0, 0, err
	}

	return step, percent, nil
}

// MarkStepComplete closes out the step sequence. Completing the steps does
// not finalize the application: the citizen enters the document-upload
// phase, and the progress indicator restarts to signal the new phase.
// A pending row is locked: nothing may erase a document under review
// except an admin resolve or a forced restart.
func (s *ProgressService) MarkStepComplete(app *models.Application) error {
	if app.IsTerminal() {
		return ErrTerminalState
	}
	if app.DocumentStatus == models.DocumentStatusPending {
		return ErrPendingReview
	}

	return s.store.Updates(app, map[string]interface{}{
		"step_index":       0,
		"progress_percent": 0,
		"document_status":  models.DocumentStatusDraft,
		"document_url":     nil,
		"admin_notes":      nil,
		"completed_at":     nil,
	})
}

// SubmitDocument records a successfully stored proof document and moves the
// review into pending. This is the only writer of the pending state. Callers
// must complete the storage upload before invoking it so a storage failure
// leaves the row untouched.
func (s *ProgressService) SubmitDocument(app *models.Application, fileRef string) error {
	if app.IsTerminal() {
		return ErrTerminalState
	}
	if app.DocumentStatus == models.DocumentStatusPending {
		return ErrPendingReview
	}

	return s.store.Updates(app, map[string]interface{}{
		"document_url":     fileRef,
		"document_status":  models.DocumentStatusPending,
		"progress_percent": 100,
		"completed_at":     time.Now(),
	})
}

// ResolveDocument finalizes a pending review as verified or rejected.
// Both outcomes are terminal; only StartApplication with forceRestart can
// recycle the row afterwards.
func (s *ProgressService) ResolveDocument(app *models.Application, newStatus, notes string) error {
	if newStatus != models.DocumentStatusVerified && newStatus != models.DocumentStatusRejected {
		return ErrInvalidStatus
	}
	if app.IsTerminal() {
		return ErrTerminalState
	}
	if app.DocumentStatus != models.DocumentStatusPending {
		return ErrInvalidTransition
	}

	fields := map[string]interface{}{
		"document_status": newStatus,
		"admin_notes":     notes,
	}
	if newStatus == models.DocumentStatusVerified && app.CompletedAt == nil {
		fields["completed_at"] = time.Now()
	}

	return s.store.Updates(app, fields)
}

// Store exposes the underlying store for read paths in the controllers.
func (s *ProgressService) Store() ApplicationStore {
	return s.store
}
