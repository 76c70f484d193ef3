package handler

import (
	"net/http"
	"strconv"
	"time"
)

// Activity log descriptions, kept in one place so the audit trail stays
// greppable.
const (
	UserActivityLogRegistrationDescription  = "User registered"
	UserActivityLogLoginDescription         = "User logged in"
	UserActivityLogFailedLoginDescription   = "Failed login attempt"
	UserActivityLogLockedAccountDescription = "Account locked"

	KycActivityLogSubmittedDescription = "KYC submitted"
	KycActivityLogApprovedDescription  = "KYC approved"
	KycActivityLogRejectedDescription  = "KYC rejected"

	WalletActivityLogLoadDescription    = "Wallet loaded"
	WalletActivityLogExpenseDescription = "Expense created"
)

type queryStringValues struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

func retrieveUrlQueryValues(r *http.Request) *queryStringValues {
	var queryValues = &queryStringValues{}

	startDateStr := r.URL.Query().Get("start_date")
	if startDateStr != "" {
		parsedStart, err := time.Parse("2006-01-02", startDateStr)
		if err == nil {
			queryValues.StartDate = &parsedStart
		}
	}

	endDateStr := r.URL.Query().Get("end_date")
	if endDateStr != "" {
		parsedEnd, err := time.Parse("2006-01-02", endDateStr)
		if err == nil {
			queryValues.EndDate = &parsedEnd
		}
	}

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("page")

	// default pagination
	offset := 0
	limit := 10

	if limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	queryValues.Limit = limit

	if offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset >= 1 {
			offset = (parsedOffset - 1) * limit
		}
	}
	queryValues.Offset = offset

	return queryValues
}
