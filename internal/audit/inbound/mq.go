package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/authkeep/otpvault/internal/pkg/config"
	"github.com/authkeep/otpvault/internal/pkg/goroutine"
	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/pkg/messaging"
	"github.com/authkeep/otpvault/internal/pkg/uid"
	"github.com/authkeep/otpvault/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.audit.consumer_names")

	var consumers = []struct {
		name             string
		topic            string // destination where publisher sent message
		natsConsumerName string // for nats
		kafkaGroupName   string // for kafka
		handler          messaging.Handler
	}{
		{
			name:             event.TokenCreatedConsumerAudit,
			topic:            event.TokenCreatedDestination,
			natsConsumerName: event.TokenCreatedConsumerAudit,
			kafkaGroupName:   event.TokenCreatedConsumerAudit,
			handler:          mqHandler.TokenCreatedAudit,
		},
		{
			name:             event.TokenUpdatedConsumerAudit,
			topic:            event.TokenUpdatedDestination,
			natsConsumerName: event.TokenUpdatedConsumerAudit,
			kafkaGroupName:   event.TokenUpdatedConsumerAudit,
			handler:          mqHandler.TokenUpdatedAudit,
		},
		{
			name:             event.TokenDeletedConsumerAudit,
			topic:            event.TokenDeletedDestination,
			natsConsumerName: event.TokenDeletedConsumerAudit,
			kafkaGroupName:   event.TokenDeletedConsumerAudit,
			handler:          mqHandler.TokenDeletedAudit,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaGroupName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
