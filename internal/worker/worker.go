package worker

import (
	"context"

	"github.com/yatrapay/yatrapay/internal/helper"
	"github.com/yatrapay/yatrapay/internal/repository"
	"github.com/yatrapay/yatrapay/internal/smtp"
	"github.com/yatrapay/yatrapay/internal/stream"
)

const (
	// kycSubmittedGroupID groups the consumers that react to a stored KYC
	// submission, fresh or resubmitted.
	kycSubmittedGroupID = "kyc-submitted-group"

	// kycDecidedGroupID groups the consumers that react to a review
	// decision.
	kycDecidedGroupID = "kyc-decided-group"
)

// Workers need the event stream, the repositories and the mailer; anything
// consumer-specific is passed as an argument to the individual worker.
type Worker struct {
	KafkaStream *stream.KafkaStream
	UserRepo    repository.UserRepository
	Mailer      smtp.MailerInterface
	Ctx         context.Context
	Helper      *helper.HelperRepository
}

func New(wk *Worker) *Worker {
	return &Worker{
		KafkaStream: wk.KafkaStream,
		UserRepo:    wk.UserRepo,
		Mailer:      wk.Mailer,
		Ctx:         wk.Ctx,
		Helper:      wk.Helper,
	}
}
