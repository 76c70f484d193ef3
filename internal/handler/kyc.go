package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yatrapay/yatrapay/internal/context"
	"github.com/yatrapay/yatrapay/internal/errHandler"
	"github.com/yatrapay/yatrapay/internal/file"
	"github.com/yatrapay/yatrapay/internal/helper"
	"github.com/yatrapay/yatrapay/internal/kyc"
	"github.com/yatrapay/yatrapay/internal/models"
	"github.com/yatrapay/yatrapay/internal/repository"
	"github.com/yatrapay/yatrapay/internal/request"
	"github.com/yatrapay/yatrapay/internal/response"
	"github.com/yatrapay/yatrapay/internal/stream"
	"github.com/yatrapay/yatrapay/internal/validator"
)

// maxSubmissionSize caps the whole multipart body: four documents at 5 MB
// each plus the form values.
const maxSubmissionSize = 4*kyc.MaxDocumentSize + 1<<20

type KycHandler struct {
	KycRepo      repository.KycRepository
	ActivityRepo repository.ActivityRepository
	Uploader     file.Uploader
	Stream       stream.Producer

	ErrHandler *errHandler.ErrorRepository
	Helper     *helper.HelperRepository
}

func NewKycHandler(handler *KycHandler) *KycHandler {
	return &KycHandler{
		KycRepo:      handler.KycRepo,
		ActivityRepo: handler.ActivityRepo,
		Uploader:     handler.Uploader,
		Stream:       handler.Stream,
		ErrHandler:   handler.ErrHandler,
		Helper:       handler.Helper,
	}
}

// KycSubmittedEvent is produced after every stored submission.
type KycSubmittedEvent struct {
	KycID  string `json:"kyc_id"`
	UserID string `json:"user_id"`
}

// KycDecidedEvent is produced after every review decision.
type KycDecidedEvent struct {
	KycID    string `json:"kyc_id"`
	UserID   string `json:"user_id"`
	Decision string `json:"decision"`
}

type KYCResponseData struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	FirstName   string  `json:"first_name"`
	MiddleName  string  `json:"middle_name,omitempty"`
	LastName    string  `json:"last_name"`
	DateOfBirth string  `json:"date_of_birth"`
	Nationality string  `json:"nationality"`

	PassportNumber     string `json:"passport_number"`
	PassportIssuePlace string `json:"passport_issue_place"`
	PassportIssueDate  string `json:"passport_issue_date"`
	PassportExpiryDate string `json:"passport_expiry_date"`

	VisaType         string `json:"visa_type"`
	VisaIssueDate    string `json:"visa_issue_date"`
	VisaExpiryDate   string `json:"visa_expiry_date"`
	ExpectedExitDate string `json:"expected_exit_date"`

	SourceOfFunds            string `json:"source_of_funds"`
	EstimatedAmountToConvert string `json:"estimated_amount_to_convert"`
	MonthlyIncomeRange       string `json:"monthly_income_range"`

	PassportPhotoPage string `json:"passport_photo_page"`
	VisaPage          string `json:"visa_page"`
	Selfie            string `json:"selfie"`
	ProofOfAddress    string `json:"proof_of_address"`

	SubmittedAt string  `json:"submitted_at"`
	ReviewedAt  *string `json:"reviewed_at"`
	ReviewerID  *string `json:"reviewer_id"`
}

func newKYCResponseData(record *models.KYCRecord) *KYCResponseData {
	data := &KYCResponseData{
		ID:                       record.ID,
		Status:                   record.Status,
		FirstName:                record.FirstName,
		MiddleName:               record.MiddleName.String,
		LastName:                 record.LastName,
		DateOfBirth:              record.DateOfBirth.Format(kyc.DateLayout),
		Nationality:              record.Nationality,
		PassportNumber:           record.PassportNumber,
		PassportIssuePlace:       record.PassportIssuePlace,
		PassportIssueDate:        record.PassportIssueDate.Format(kyc.DateLayout),
		PassportExpiryDate:       record.PassportExpiryDate.Format(kyc.DateLayout),
		VisaType:                 record.VisaType,
		VisaIssueDate:            record.VisaIssueDate.Format(kyc.DateLayout),
		VisaExpiryDate:           record.VisaExpiryDate.Format(kyc.DateLayout),
		ExpectedExitDate:         record.ExpectedExitDate.Format(kyc.DateLayout),
		SourceOfFunds:            record.SourceOfFunds,
		EstimatedAmountToConvert: record.EstimatedAmountToConvert.String(),
		MonthlyIncomeRange:       record.MonthlyIncomeRange,
		PassportPhotoPage:        record.PassportPhotoPage,
		VisaPage:                 record.VisaPage,
		Selfie:                   record.Selfie,
		ProofOfAddress:           record.ProofOfAddress,
		SubmittedAt:              record.SubmittedAt.Format(time.RFC3339),
	}

	if record.ReviewedAt.Valid {
		reviewedAt := record.ReviewedAt.Time.Format(time.RFC3339)
		data.ReviewedAt = &reviewedAt
	}
	if record.ReviewerID.Valid {
		reviewerID := record.ReviewerID.String
		data.ReviewerID = &reviewerID
	}

	return data
}

// HandleSubmitKYC stores a verification submission: every form field is
// re-validated with the same step rules the wizard uses, the four document
// parts are staged and pushed to file storage, then the record is upserted.
// A resubmission overwrites the previous record and resets its lifecycle;
// either way the owner's kyc_verified flag drops to false.
func (h *KycHandler) HandleSubmitKYC(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	err := r.ParseMultipartForm(maxSubmissionSize)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, errors.New("invalid request data"))
		return
	}

	form := &kyc.Form{
		FirstName:                r.FormValue(string(kyc.FieldFirstName)),
		MiddleName:               r.FormValue(string(kyc.FieldMiddleName)),
		LastName:                 r.FormValue(string(kyc.FieldLastName)),
		DateOfBirth:              r.FormValue(string(kyc.FieldDateOfBirth)),
		Nationality:              r.FormValue(string(kyc.FieldNationality)),
		PassportNumber:           r.FormValue(string(kyc.FieldPassportNumber)),
		PassportIssuePlace:       r.FormValue(string(kyc.FieldPassportIssuePlace)),
		PassportIssueDate:        r.FormValue(string(kyc.FieldPassportIssueDate)),
		PassportExpiryDate:       r.FormValue(string(kyc.FieldPassportExpiryDate)),
		VisaType:                 r.FormValue(string(kyc.FieldVisaType)),
		VisaIssueDate:            r.FormValue(string(kyc.FieldVisaIssueDate)),
		VisaExpiryDate:           r.FormValue(string(kyc.FieldVisaExpiryDate)),
		ExpectedExitDate:         r.FormValue(string(kyc.FieldExpectedExitDate)),
		SourceOfFunds:            r.FormValue(string(kyc.FieldSourceOfFunds)),
		EstimatedAmountToConvert: r.FormValue(string(kyc.FieldEstimatedAmount)),
		MonthlyIncomeRange:       r.FormValue(string(kyc.FieldMonthlyIncomeRange)),
	}

	docs := kyc.NewDocumentSet()
	fieldErrors := make(map[kyc.Field]string)

	for step := 1; step <= 4; step++ {
		for field, msg := range kyc.ValidateStep(form, docs, step) {
			fieldErrors[field] = msg
		}
	}

	// stage the four document parts; open files are closed after the
	// uploads below
	for _, slot := range kyc.DocumentFields() {
		part, header, err := r.FormFile(string(slot))
		if err != nil {
			fieldErrors[slot] = "This document is required"
			continue
		}
		defer part.Close()

		bindErr := docs.Bind(slot, kyc.Document{
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Content:     part,
		})
		if bindErr != nil {
			fieldErrors[slot] = bindErr.Error()
		}
	}

	if len(fieldErrors) > 0 {
		message := "All required fields and documents must be provided"
		err = response.JSONErrorResponse(w, fieldErrors, message, http.StatusBadRequest, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	// hand the staged documents to file storage; a failed upload surfaces
	// as a server error and nothing is persisted, so the client can retry
	// the same submission
	uploaded := make(map[kyc.Field]string, 4)
	for _, slot := range kyc.DocumentFields() {
		doc, _ := docs.Get(slot)

		name := fmt.Sprintf("kyc-%s-%s", user.ID, slot)
		url, err := h.Uploader.UploadStream(r.Context(), name, doc.Content)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
		uploaded[slot] = url
	}

	record, err := recordFromForm(user.ID, form, uploaded)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	kycID, err := h.KycRepo.Upsert(record)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.ActivityRepo.Insert(&models.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogKycEntity,
			EntityId:    kycID,
			Description: KycActivityLogSubmittedDescription,
		})
		if err != nil {
			log.Printf("Error logging KYC submission: %v", err)
			return err
		}

		return nil
	})

	h.Helper.BackgroundTask(r, func() error {
		event, err := json.Marshal(KycSubmittedEvent{KycID: kycID, UserID: user.ID})
		if err != nil {
			return err
		}
		return h.Stream.ProduceMessage(stream.KycSubmittedTopic, string(event))
	})

	data := map[string]any{
		"id":           kycID,
		"status":       repository.KycStatusPending,
		"submitted_at": time.Now().Format(time.RFC3339),
		"warnings":     form.Warnings(),
	}

	message := "KYC submitted successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleMyKYC returns the caller's own verification record.
func (h *KycHandler) HandleMyKYC(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	record, found, err := h.KycRepo.GetByUserID(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	message := "Data retrieved successfully"
	err = response.JSONOkResponse(w, newKYCResponseData(record), message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleReviewKYC records an admin approve/reject decision. The owner's
// kyc_verified flag mirrors the decision; nothing mutates on a bad
// decision value or an unknown record.
func (h *KycHandler) HandleReviewKYC(w http.ResponseWriter, r *http.Request) {
	reviewer := context.ContextGetAuthenticatedUser(r)
	kycID := r.PathValue("id")

	var input struct {
		Decision  string              `json:"decision"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(
		validator.In(input.Decision, repository.KycStatusApproved, repository.KycStatusRejected),
		`Decision must be "approved" or "rejected"`,
	)

	if input.Validator.HasErrors() {
		message := `Decision must be "approved" or "rejected"`
		err = response.JSONErrorResponse(w, input.Validator.Errors, message, http.StatusBadRequest, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	record, found, err := h.KycRepo.Decide(kycID, input.Decision, reviewer.ID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidDecision) {
			h.ErrHandler.BadRequest(w, r, err)
			return
		}
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	description := KycActivityLogApprovedDescription
	if input.Decision == repository.KycStatusRejected {
		description = KycActivityLogRejectedDescription
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.ActivityRepo.Insert(&models.ActivityLog{
			UserID:      reviewer.ID,
			Entity:      repository.ActivityLogKycEntity,
			EntityId:    kycID,
			Description: description,
		})
		if err != nil {
			log.Printf("Error logging KYC decision: %v", err)
			return err
		}

		return nil
	})

	h.Helper.BackgroundTask(r, func() error {
		event, err := json.Marshal(KycDecidedEvent{
			KycID:    kycID,
			UserID:   record.UserID,
			Decision: input.Decision,
		})
		if err != nil {
			return err
		}
		return h.Stream.ProduceMessage(stream.KycDecidedTopic, string(event))
	})

	message := fmt.Sprintf("KYC %s", input.Decision)
	err = response.JSONOkResponse(w, newKYCResponseData(record), message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// recordFromForm converts validated raw form values into a storable
// record. Parsing cannot reasonably fail here because the step rules ran
// first, but errors are still propagated rather than swallowed.
func recordFromForm(userID string, form *kyc.Form, uploaded map[kyc.Field]string) (*models.KYCRecord, error) {
	parse := func(value string) (time.Time, error) {
		t, ok := kyc.ParseDate(value)
		if !ok {
			return time.Time{}, fmt.Errorf("invalid date %q", value)
		}
		return t, nil
	}

	dob, err := parse(form.DateOfBirth)
	if err != nil {
		return nil, err
	}
	passportIssue, err := parse(form.PassportIssueDate)
	if err != nil {
		return nil, err
	}
	passportExpiry, err := parse(form.PassportExpiryDate)
	if err != nil {
		return nil, err
	}
	visaIssue, err := parse(form.VisaIssueDate)
	if err != nil {
		return nil, err
	}
	visaExpiry, err := parse(form.VisaExpiryDate)
	if err != nil {
		return nil, err
	}
	exitDate, err := parse(form.ExpectedExitDate)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(form.EstimatedAmountToConvert)
	if err != nil {
		return nil, err
	}

	return &models.KYCRecord{
		UserID:                   userID,
		FirstName:                form.FirstName,
		MiddleName:               sql.NullString{String: form.MiddleName, Valid: form.MiddleName != ""},
		LastName:                 form.LastName,
		DateOfBirth:              dob,
		Nationality:              form.Nationality,
		PassportNumber:           kyc.NormalizePassportNumber(form.PassportNumber),
		PassportIssuePlace:       form.PassportIssuePlace,
		PassportIssueDate:        passportIssue,
		PassportExpiryDate:       passportExpiry,
		VisaType:                 form.VisaType,
		VisaIssueDate:            visaIssue,
		VisaExpiryDate:           visaExpiry,
		ExpectedExitDate:         exitDate,
		SourceOfFunds:            form.SourceOfFunds,
		EstimatedAmountToConvert: amount,
		MonthlyIncomeRange:       form.MonthlyIncomeRange,
		PassportPhotoPage:        uploaded[kyc.FieldPassportPhotoPage],
		VisaPage:                 uploaded[kyc.FieldVisaPage],
		Selfie:                   uploaded[kyc.FieldSelfie],
		ProofOfAddress:           uploaded[kyc.FieldProofOfAddress],
		Status:                   repository.KycStatusPending,
	}, nil
}
