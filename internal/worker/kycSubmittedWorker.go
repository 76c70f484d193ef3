// A KYC submission has already been persisted synchronously by the
// handler. This worker owns the slower follow-up: acknowledging the
// submission to the user by email so the review can happen out of band.
package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/yatrapay/yatrapay/internal/handler"
	"github.com/yatrapay/yatrapay/internal/stream"
)

func (wk *Worker) KycSubmittedWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: kycSubmittedGroupID,
		Topic:   stream.KycSubmittedTopic,
	})
	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("KycSubmittedWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				var submission handler.KycSubmittedEvent
				if err := json.Unmarshal(e.Value, &submission); err != nil {
					log.Printf("Error decoding KYC submission event: %v", err)
					continue
				}

				wk.sendSubmissionReceipt(&submission)
			case kafka.Error:
				log.Printf("Error: %v\n", e)
			case *kafka.AssignedPartitions:
				consumer.Assign(e.Partitions)
			case *kafka.RevokedPartitions:
				consumer.Unassign()
			}
		}
	}
}

func (wk *Worker) sendSubmissionReceipt(submission *handler.KycSubmittedEvent) bool {
	user, found, err := wk.UserRepo.GetOne(submission.UserID)
	if err != nil || !found {
		log.Printf("Error finding user for KYC submission receipt: %v", err)
		return false
	}

	wk.Helper.BackgroundTask(nil, func() error {
		emailData := wk.Helper.NewEmailData()
		emailData["Name"] = user.FirstName + " " + user.LastName

		err := wk.Mailer.Send(user.Email, emailData, "kyc-received.tmpl")
		if err != nil {
			log.Printf("Error sending KYC submission receipt: %v", err)
			return err
		}

		return nil
	})

	return true
}
