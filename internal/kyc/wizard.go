package kyc

import (
	"context"
	"errors"
	"time"
)

// Phase is the lifecycle of the wizard around the five editing steps.
type Phase string

const (
	// PhaseEditing covers steps 1-5 while the user is filling the form.
	PhaseEditing Phase = "editing"

	// PhaseSubmitting is entered from step 5 while the submission call is
	// in flight. Navigation and resubmission are blocked.
	PhaseSubmitting Phase = "submitting"

	// PhaseCompleted means the record was stored; the reference is
	// available through RecordRef.
	PhaseCompleted Phase = "completed"

	// PhaseFailed means the submission call failed. The form and the
	// staged documents are kept so the user can retry from step 5.
	PhaseFailed Phase = "failed"
)

var (
	ErrMissingDocuments = errors.New("all required documents must be uploaded")
	ErrStorageFailure   = errors.New("submission could not be stored")
	ErrSubmitInFlight   = errors.New("a submission is already in progress")
)

// Submitter is the storage collaborator the wizard hands the finished form
// to. Implementations are expected to be safe to call again after a
// failure; the wizard never discards state on ErrStorageFailure.
type Submitter interface {
	Submit(ctx context.Context, form *Form, docs *DocumentSet) (recordRef string, err error)
}

// defaultSubmitTimeout bounds the submission call so a dead network
// surfaces as a storage failure instead of hanging the wizard.
const defaultSubmitTimeout = 30 * time.Second

// Wizard drives the five-step verification form. It is not safe for
// concurrent use; a wizard belongs to a single user session.
type Wizard struct {
	form      *Form
	docs      *DocumentSet
	step      int
	phase     Phase
	errs      map[Field]string
	submitErr error
	recordRef string

	submitter     Submitter
	submitTimeout time.Duration
}

func NewWizard(submitter Submitter) *Wizard {
	return &Wizard{
		form:          &Form{},
		docs:          NewDocumentSet(),
		step:          FirstStep,
		phase:         PhaseEditing,
		errs:          make(map[Field]string),
		submitter:     submitter,
		submitTimeout: defaultSubmitTimeout,
	}
}

func (w *Wizard) Step() int    { return w.step }
func (w *Wizard) Phase() Phase { return w.phase }
func (w *Wizard) Form() *Form  { return w.form }

// Errors is the error map surfaced by the last failed Next attempt. Edits
// clear their own field's entry immediately.
func (w *Wizard) Errors() map[Field]string { return w.errs }

// SubmitError reports why the last submission attempt failed, if it did.
func (w *Wizard) SubmitError() error { return w.submitErr }

// RecordRef is the stored record's reference once the wizard completed.
func (w *Wizard) RecordRef() string { return w.recordRef }

// SetField updates a form value in place and optimistically clears that
// field's error. Full re-validation happens on the next forward attempt.
func (w *Wizard) SetField(field Field, value string) {
	if w.phase == PhaseSubmitting || w.phase == PhaseCompleted {
		return
	}
	w.form.Set(field, value)
	delete(w.errs, field)
}

// BindDocument stages a file for one of the step-5 slots. A rejection is
// recorded as that slot's error; a successful bind clears it.
func (w *Wizard) BindDocument(slot Field, doc Document) error {
	if w.phase == PhaseSubmitting || w.phase == PhaseCompleted {
		return ErrSubmitInFlight
	}

	if err := w.docs.Bind(slot, doc); err != nil {
		w.errs[slot] = err.Error()
		return err
	}

	delete(w.errs, slot)
	return nil
}

// Documents exposes the staged files for display and submission.
func (w *Wizard) Documents() *DocumentSet { return w.docs }

// Prev moves one step back without validating. A no-op at step 1.
func (w *Wizard) Prev() {
	if w.phase != PhaseEditing && w.phase != PhaseFailed {
		return
	}
	if w.step > FirstStep {
		w.step--
		w.phase = PhaseEditing
	}
}

// Next validates the current step and advances on success. From step 5 it
// runs the submission pipeline instead of advancing: the wizard enters
// PhaseSubmitting for the duration of the call and lands on PhaseCompleted
// or PhaseFailed. On a validation failure the step pointer does not move
// and the violated fields are surfaced through Errors.
func (w *Wizard) Next(ctx context.Context) error {
	switch w.phase {
	case PhaseSubmitting:
		return ErrSubmitInFlight
	case PhaseCompleted:
		return nil
	}

	w.errs = ValidateStep(w.form, w.docs, w.step)
	if len(w.errs) > 0 {
		return nil
	}

	if w.step < LastStep {
		w.step++
		w.phase = PhaseEditing
		return nil
	}

	return w.submit(ctx)
}

func (w *Wizard) submit(ctx context.Context) error {
	if !w.docs.Complete() {
		w.submitErr = ErrMissingDocuments
		w.phase = PhaseFailed
		return ErrMissingDocuments
	}

	w.phase = PhaseSubmitting
	w.submitErr = nil

	ctx, cancel := context.WithTimeout(ctx, w.submitTimeout)
	defer cancel()

	ref, err := w.submitter.Submit(ctx, w.form, w.docs)
	if err != nil {
		// form and documents stay intact so a retry needs no re-entry
		w.submitErr = err
		w.phase = PhaseFailed
		return err
	}

	w.recordRef = ref
	w.phase = PhaseCompleted
	return nil
}
