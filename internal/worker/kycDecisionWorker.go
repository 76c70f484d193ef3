// Review decisions are persisted synchronously, including the owner's
// kyc_verified flag. This worker notifies the user of the outcome.
package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/yatrapay/yatrapay/internal/handler"
	"github.com/yatrapay/yatrapay/internal/stream"
)

func (wk *Worker) KycDecisionWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: kycDecidedGroupID,
		Topic:   stream.KycDecidedTopic,
	})
	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("KycDecisionWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				var decision handler.KycDecidedEvent
				if err := json.Unmarshal(e.Value, &decision); err != nil {
					log.Printf("Error decoding KYC decision event: %v", err)
					continue
				}

				wk.sendDecisionAlert(&decision)
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

func (wk *Worker) sendDecisionAlert(decision *handler.KycDecidedEvent) bool {
	user, found, err := wk.UserRepo.GetOne(decision.UserID)
	if err != nil || !found {
		log.Printf("Error finding user for KYC decision alert: %v", err)
		return false
	}

	wk.Helper.BackgroundTask(nil, func() error {
		emailData := wk.Helper.NewEmailData()
		emailData["Name"] = user.FirstName + " " + user.LastName
		emailData["Decision"] = decision.Decision

		err := wk.Mailer.Send(user.Email, emailData, "kyc-decision.tmpl")
		if err != nil {
			log.Printf("Error sending KYC decision alert: %v", err)
			return err
		}

		return nil
	})

	return true
}
