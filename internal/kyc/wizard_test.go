package kyc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubSubmitter records calls and returns a scripted result.
type stubSubmitter struct {
	ref   string
	err   error
	calls int
}

func (s *stubSubmitter) Submit(ctx context.Context, form *Form, docs *DocumentSet) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.ref, nil
}

func fillStep(w *Wizard, step int) {
	form := validForm()
	switch step {
	case 1:
		w.SetField(FieldFirstName, form.FirstName)
		w.SetField(FieldLastName, form.LastName)
		w.SetField(FieldDateOfBirth, form.DateOfBirth)
		w.SetField(FieldNationality, form.Nationality)
	case 2:
		w.SetField(FieldPassportNumber, form.PassportNumber)
		w.SetField(FieldPassportIssuePlace, form.PassportIssuePlace)
		w.SetField(FieldPassportIssueDate, form.PassportIssueDate)
		w.SetField(FieldPassportExpiryDate, form.PassportExpiryDate)
	case 3:
		w.SetField(FieldVisaType, form.VisaType)
		w.SetField(FieldVisaIssueDate, form.VisaIssueDate)
		w.SetField(FieldVisaExpiryDate, form.VisaExpiryDate)
		w.SetField(FieldExpectedExitDate, form.ExpectedExitDate)
	case 4:
		w.SetField(FieldSourceOfFunds, form.SourceOfFunds)
		w.SetField(FieldEstimatedAmount, form.EstimatedAmountToConvert)
		w.SetField(FieldMonthlyIncomeRange, form.MonthlyIncomeRange)
	}
}

func advanceToStep(t *testing.T, w *Wizard, target int) {
	t.Helper()
	for w.Step() < target {
		fillStep(w, w.Step())
		require.NoError(t, w.Next(context.Background()))
		require.Empty(t, w.Errors())
	}
}

func bindAllDocuments(t *testing.T, w *Wizard) {
	t.Helper()
	for _, slot := range DocumentFields() {
		require.NoError(t, w.BindDocument(slot, Document{
			Name:        string(slot) + ".jpg",
			Size:        1024,
			ContentType: "image/jpeg",
		}))
	}
}

func TestWizard_StartsAtStepOne(t *testing.T) {
	w := NewWizard(&stubSubmitter{})
	require.Equal(t, FirstStep, w.Step())
	require.Equal(t, PhaseEditing, w.Phase())
	require.Empty(t, w.Errors())
}

func TestWizard_NextBlockedByValidation(t *testing.T) {
	w := NewWizard(&stubSubmitter{})

	require.NoError(t, w.Next(context.Background()))

	require.Equal(t, FirstStep, w.Step(), "step must not move on validation failure")
	require.Contains(t, w.Errors(), FieldFirstName)
	require.Contains(t, w.Errors(), FieldDateOfBirth)
}

func TestWizard_SetFieldClearsOwnError(t *testing.T) {
	w := NewWizard(&stubSubmitter{})

	require.NoError(t, w.Next(context.Background()))
	require.Contains(t, w.Errors(), FieldFirstName)
	require.Contains(t, w.Errors(), FieldLastName)

	w.SetField(FieldFirstName, "Anita")

	// only the edited field's error clears, the rest wait for the next
	// forward attempt
	require.NotContains(t, w.Errors(), FieldFirstName)
	require.Contains(t, w.Errors(), FieldLastName)
}

func TestWizard_PrevIsUnvalidatedAndStopsAtOne(t *testing.T) {
	w := NewWizard(&stubSubmitter{})
	advanceToStep(t, w, 3)

	// make the current step invalid, Prev must still work
	w.SetField(FieldVisaType, "NotARealVisa")

	w.Prev()
	require.Equal(t, 2, w.Step())

	w.Prev()
	require.Equal(t, 1, w.Step())

	w.Prev()
	require.Equal(t, 1, w.Step(), "Prev at step 1 is a no-op")
}

func TestWizard_FullRunSubmits(t *testing.T) {
	submitter := &stubSubmitter{ref: "kyc-123"}
	w := NewWizard(submitter)

	advanceToStep(t, w, LastStep)
	bindAllDocuments(t, w)

	require.NoError(t, w.Next(context.Background()))

	require.Equal(t, PhaseCompleted, w.Phase())
	require.Equal(t, "kyc-123", w.RecordRef())
	require.Equal(t, 1, submitter.calls)
	require.NoError(t, w.SubmitError())
}

func TestWizard_SubmitWithMissingDocumentsFails(t *testing.T) {
	submitter := &stubSubmitter{ref: "kyc-123"}
	w := NewWizard(submitter)

	advanceToStep(t, w, LastStep)

	require.NoError(t, w.Next(context.Background()))

	require.Equal(t, 0, submitter.calls, "storage must not be called without documents")
	require.Contains(t, w.Errors(), FieldPassportPhotoPage)
	require.Contains(t, w.Errors(), FieldProofOfAddress)
	require.Equal(t, LastStep, w.Step())
	require.Equal(t, PhaseEditing, w.Phase())
}

func TestWizard_SubmitFailureKeepsStateForRetry(t *testing.T) {
	submitter := &stubSubmitter{err: ErrStorageFailure}
	w := NewWizard(submitter)

	advanceToStep(t, w, LastStep)
	bindAllDocuments(t, w)

	err := w.Next(context.Background())
	require.ErrorIs(t, err, ErrStorageFailure)
	require.Equal(t, PhaseFailed, w.Phase())
	require.ErrorIs(t, w.SubmitError(), ErrStorageFailure)

	// nothing was lost: flipping the collaborator back to healthy and
	// retrying succeeds without re-entering anything
	submitter.err = nil
	submitter.ref = "kyc-456"

	require.NoError(t, w.Next(context.Background()))
	require.Equal(t, PhaseCompleted, w.Phase())
	require.Equal(t, "kyc-456", w.RecordRef())
	require.Equal(t, 2, submitter.calls)
}

func TestWizard_CompletedIsTerminal(t *testing.T) {
	submitter := &stubSubmitter{ref: "kyc-123"}
	w := NewWizard(submitter)

	advanceToStep(t, w, LastStep)
	bindAllDocuments(t, w)
	require.NoError(t, w.Next(context.Background()))
	require.Equal(t, PhaseCompleted, w.Phase())

	// further edits and submissions are ignored
	w.SetField(FieldFirstName, "Changed")
	require.NotEqual(t, "Changed", w.Form().FirstName)

	require.NoError(t, w.Next(context.Background()))
	require.Equal(t, 1, submitter.calls)
}

// blockingSubmitter parks until released so the in-flight phase is
// observable.
type blockingSubmitter struct {
	entered  chan struct{}
	release  chan struct{}
	observed func()
}

func (s *blockingSubmitter) Submit(ctx context.Context, form *Form, docs *DocumentSet) (string, error) {
	close(s.entered)
	if s.observed != nil {
		s.observed()
	}
	<-s.release
	return "kyc-789", nil
}

func TestWizard_SubmittingPhaseBlocksEdits(t *testing.T) {
	submitter := &blockingSubmitter{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	w := NewWizard(submitter)
	advanceToStep(t, w, LastStep)
	bindAllDocuments(t, w)

	var phaseDuringSubmit Phase
	var editIgnored bool
	submitter.observed = func() {
		phaseDuringSubmit = w.Phase()
		w.SetField(FieldFirstName, "Changed")
		editIgnored = w.Form().FirstName != "Changed"
		close(submitter.release)
	}

	require.NoError(t, w.Next(context.Background()))

	require.Equal(t, PhaseSubmitting, phaseDuringSubmit)
	require.True(t, editIgnored, "edits during submission must be ignored")
	require.Equal(t, PhaseCompleted, w.Phase())
}

func TestWizard_BindDocumentRecordsSlotError(t *testing.T) {
	w := NewWizard(&stubSubmitter{})

	err := w.BindDocument(FieldSelfie, Document{
		Name:        "selfie.gif",
		Size:        10,
		ContentType: "image/gif",
	})
	require.Error(t, err)
	require.Contains(t, w.Errors(), FieldSelfie)

	require.NoError(t, w.BindDocument(FieldSelfie, Document{
		Name:        "selfie.jpg",
		Size:        10,
		ContentType: "image/jpeg",
	}))
	require.NotContains(t, w.Errors(), FieldSelfie)
}

func TestWizard_SubmitterReceivesContextWithDeadline(t *testing.T) {
	var hadDeadline bool
	submitter := &funcSubmitter{fn: func(ctx context.Context, form *Form, docs *DocumentSet) (string, error) {
		_, hadDeadline = ctx.Deadline()
		return "kyc-1", nil
	}}

	w := NewWizard(submitter)
	advanceToStep(t, w, LastStep)
	bindAllDocuments(t, w)

	require.NoError(t, w.Next(context.Background()))
	require.True(t, hadDeadline)
}

type funcSubmitter struct {
	fn func(ctx context.Context, form *Form, docs *DocumentSet) (string, error)
}

func (s *funcSubmitter) Submit(ctx context.Context, form *Form, docs *DocumentSet) (string, error) {
	return s.fn(ctx, form, docs)
}

func TestWizard_ContextCancellationSurfacesAsFailure(t *testing.T) {
	submitter := &funcSubmitter{fn: func(ctx context.Context, form *Form, docs *DocumentSet) (string, error) {
		return "", ctx.Err()
	}}

	w := NewWizard(submitter)
	advanceToStep(t, w, LastStep)
	bindAllDocuments(t, w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, PhaseFailed, w.Phase())
	require.True(t, errors.Is(w.SubmitError(), context.Canceled))
}
