package notification

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"slotline/utils"
)

// TypeDispatch is the asynq task type for notification delivery.
const TypeDispatch = "notification:dispatch"

// AsynqNotifier queues intents on the asynq dispatch queue. Enqueue never
// returns an error: delivery problems are logged and the calling flow moves on.
type AsynqNotifier struct {
	Client *asynq.Client
}

func NewAsynqNotifier(client *asynq.Client) *AsynqNotifier {
	return &AsynqNotifier{Client: client}
}

func (n *AsynqNotifier) Enqueue(ctx context.Context, intent Intent) {
	logger := utils.GetLogger()
	payload, err := json.Marshal(intent)
	if err != nil {
		logger.Warn("Failed to marshal notification intent",
			zap.String("type", intent.Type), zap.Error(err))
		return
	}
	task := asynq.NewTask(TypeDispatch, payload)
	if _, err := n.Client.EnqueueContext(ctx, task); err != nil {
		logger.Warn("Failed to enqueue notification",
			zap.String("type", intent.Type),
			zap.String("recipient_id", intent.RecipientID),
			zap.Error(err))
	}
}
