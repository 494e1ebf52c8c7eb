package services

import (
	"testing"

	"citizen-portal-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func seedService(t *testing.T, db *gorm.DB, key string, steps ...string) *models.Service {
	t.Helper()

	service := &models.Service{
		ServiceKey: key,
		Title:      "Business Permit",
		Steps:      models.StringList(steps),
	}
	require.NoError(t, db.Create(service).Error)
	return service
}

func TestStartApplicationCreatesDraftRow(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "Prepare", "Submit", "Pay")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)

	assert.False(t, result.Existing)
	assert.False(t, result.Restarted)
	assert.Equal(t, 0, result.Application.StepIndex)
	assert.Equal(t, 0, result.Application.ProgressPercent)
	assert.Equal(t, models.DocumentStatusDraft, result.Application.DocumentStatus)
	assert.Regexp(t, `^APP-\d{8}-\d{4}$`, result.Application.ReferenceNumber)
}

func TestStartApplicationIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "Prepare", "Submit", "Pay")
	svc := NewProgressService(db)

	first, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)

	second, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)

	assert.True(t, second.Existing)
	assert.Equal(t, first.Application.ID, second.Application.ID)

	var count int64
	db.Model(&models.Application{}).
		Where("user_id = ? AND service_key = ?", 1, service.ServiceKey).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStartApplicationNeverClobbersProgress(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "Prepare", "Submit", "Pay")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)

	_, _, err = svc.Advance(result.Application, service, 2)
	require.NoError(t, err)

	again, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)

	assert.True(t, again.Existing)
	assert.Equal(t, 2, again.Application.StepIndex)
	assert.Equal(t, 100, again.Application.ProgressPercent)
}

func TestStartApplicationForceRestartResets(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "Prepare", "Submit", "Pay")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)
	app := result.Application
	oldReference := app.ReferenceNumber

	_, _, err = svc.Advance(app, service, 1)
	require.NoError(t, err)
	require.NoError(t, svc.SubmitDocument(app, "/uploads/applications/x/doc.pdf"))

	restarted, err := svc.StartApplication(1, service, "", true)
	require.NoError(t, err)

	assert.True(t, restarted.Restarted)
	assert.Equal(t, app.ID, restarted.Application.ID, "restart recycles the row, not the identity")
	assert.Equal(t, 0, restarted.Application.StepIndex)
	assert.Equal(t, 0, restarted.Application.ProgressPercent)
	assert.Equal(t, models.DocumentStatusDraft, restarted.Application.DocumentStatus)
	assert.Nil(t, restarted.Application.DocumentURL)
	assert.Nil(t, restarted.Application.CompletedAt)
	assert.NotEqual(t, oldReference, restarted.Application.ReferenceNumber)
}

func TestStartApplicationRestartEscapesTerminalState(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "Prepare", "Submit", "Pay")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)
	app := result.Application

	require.NoError(t, svc.SubmitDocument(app, "/uploads/doc.pdf"))
	require.NoError(t, svc.ResolveDocument(app, models.DocumentStatusRejected, "blurry scan"))

	// Plain start refuses to touch the finalized row.
	resumed, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)
	assert.True(t, resumed.Existing)
	assert.Equal(t, models.DocumentStatusRejected, resumed.Application.DocumentStatus)

	restarted, err := svc.StartApplication(1, service, "", true)
	require.NoError(t, err)
	assert.True(t, restarted.Restarted)
	assert.Equal(t, models.DocumentStatusDraft, restarted.Application.DocumentStatus)
	assert.Nil(t, restarted.Application.AdminNotes)
}

func TestAdvanceClampsAndComputesPercent(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "1", "2", "3", "4", "5")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)
	app := result.Application

	cases := []struct {
		requested   int
		wantStep    int
		wantPercent int
	}{
		{-3, 0, 20},
		{0, 0, 20},
		{2, 2, 60},
		{4, 4, 100},
		{9, 4, 100},
		{1, 1, 40}, // stepping backwards is allowed
	}

	for _, tc := range cases {
		step, percent, err := svc.Advance(app, service, tc.requested)
		require.NoError(t, err)
		assert.Equal(t, tc.wantStep, step, "requested %d", tc.requested)
		assert.Equal(t, tc.wantPercent, percent, "requested %d", tc.requested)
	}
}

func TestAdvanceWithNoDefinedSteps(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "cedula")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)

	step, percent, err := svc.Advance(result.Application, service, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, step)
	assert.Equal(t, 100, percent)
}

func TestMarkStepCompleteEntersUploadPhase(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "1", "2", "3")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)
	app := result.Application

	_, _, err = svc.Advance(app, service, 2)
	require.NoError(t, err)

	require.NoError(t, svc.MarkStepComplete(app))

	assert.Equal(t, 0, app.StepIndex)
	assert.Equal(t, 0, app.ProgressPercent)
	assert.Equal(t, models.DocumentStatusDraft, app.DocumentStatus)
	assert.Nil(t, app.CompletedAt)
}

func TestSubmitDocumentMovesToPending(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "1", "2")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)
	app := result.Application

	require.NoError(t, svc.SubmitDocument(app, "/uploads/applications/a/b.pdf"))

	assert.Equal(t, models.DocumentStatusPending, app.DocumentStatus)
	assert.Equal(t, 100, app.ProgressPercent)
	require.NotNil(t, app.DocumentURL)
	assert.Equal(t, "/uploads/applications/a/b.pdf", *app.DocumentURL)
	assert.NotNil(t, app.CompletedAt)
}

func TestResolveDocument(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "1", "2")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)
	app := result.Application

	// Nothing pending yet.
	err = svc.ResolveDocument(app, models.DocumentStatusVerified, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, svc.SubmitDocument(app, "/uploads/doc.pdf"))

	err = svc.ResolveDocument(app, "approved", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	require.NoError(t, svc.ResolveDocument(app, models.DocumentStatusVerified, "all good"))
	assert.Equal(t, models.DocumentStatusVerified, app.DocumentStatus)
	require.NotNil(t, app.AdminNotes)
	assert.Equal(t, "all good", *app.AdminNotes)
}

func TestTerminalStateIsImmutable(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "1", "2")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)
	app := result.Application

	require.NoError(t, svc.SubmitDocument(app, "/uploads/doc.pdf"))
	require.NoError(t, svc.ResolveDocument(app, models.DocumentStatusVerified, ""))

	_, _, err = svc.Advance(app, service, 1)
	assert.ErrorIs(t, err, ErrTerminalState)

	assert.ErrorIs(t, svc.MarkStepComplete(app), ErrTerminalState)
	assert.ErrorIs(t, svc.SubmitDocument(app, "/uploads/again.pdf"), ErrTerminalState)
	assert.ErrorIs(t, svc.ResolveDocument(app, models.DocumentStatusRejected, ""), ErrTerminalState)
}

func TestPendingReviewLocksApplication(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "1", "2")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)
	app := result.Application

	require.NoError(t, svc.SubmitDocument(app, "/uploads/doc.pdf"))

	// Neither a step reset nor a re-upload may touch a document under
	// review; only an admin resolve or a forced restart can.
	assert.ErrorIs(t, svc.MarkStepComplete(app), ErrPendingReview)
	assert.ErrorIs(t, svc.SubmitDocument(app, "/uploads/other.pdf"), ErrPendingReview)

	assert.Equal(t, models.DocumentStatusPending, app.DocumentStatus)
	require.NotNil(t, app.DocumentURL)
	assert.Equal(t, "/uploads/doc.pdf", *app.DocumentURL)

	require.NoError(t, svc.ResolveDocument(app, models.DocumentStatusVerified, ""))
	assert.Equal(t, models.DocumentStatusVerified, app.DocumentStatus)
}

func TestDuplicateApplicationIsRejectedByIndex(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "1", "2")
	store := NewApplicationStore(db)

	first := &models.Application{
		ID: newApplicationID(), UserID: 1, ServiceKey: service.ServiceKey,
		ReferenceNumber: "APP-20260101-0001", DocumentStatus: models.DocumentStatusDraft,
	}
	require.NoError(t, store.Create(first))

	dup := &models.Application{
		ID: newApplicationID(), UserID: 1, ServiceKey: service.ServiceKey,
		ReferenceNumber: "APP-20260101-0002", DocumentStatus: models.DocumentStatusDraft,
	}
	assert.Error(t, store.Create(dup))
}

func TestFindOwnedHidesForeignRows(t *testing.T) {
	db := newTestDB(t)
	service := seedService(t, db, "business-permit", "1", "2")
	svc := NewProgressService(db)

	result, err := svc.StartApplication(1, service, "", false)
	require.NoError(t, err)

	_, err = svc.Store().FindOwned(result.Application.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
