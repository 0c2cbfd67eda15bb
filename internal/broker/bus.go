package broker

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Marshaler maps event structs to their subjects: the struct name is the
// topic, the payload is its JSON form.
var Marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

// NewEventBus builds the typed publisher for a connection. Publish returns
// once the broker has durably accepted the message.
func NewEventBus(conn *Connection, logger watermill.LoggerAdapter) (*cqrs.EventBus, error) {
	client, err := conn.Client()
	if err != nil {
		return nil, err
	}

	var publisher message.Publisher
	publisher, err = redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, logger)
	if err != nil {
		return nil, err
	}

	publisher = CorrelationPublisherDecorator{
		Publisher: publisher,
	}

	return cqrs.NewEventBusWithConfig(
		publisher,
		cqrs.EventBusConfig{
			GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
				return params.EventName, nil
			},
			Marshaler: Marshaler,
			Logger:    logger,
		},
	)
}

// NewEventProcessorConfig builds the typed listener configuration for one
// service. Each handler subscribes under "<group>.<handler>": fixed per
// service, shared by its replicas, distinct between services, so within a
// group every message is delivered to exactly one replica. Handlers ack by
// returning nil; any error leaves the message pending for redelivery.
func NewEventProcessorConfig(
	conn *Connection,
	group string,
	logger watermill.LoggerAdapter,
) (cqrs.EventProcessorConfig, error) {
	client, err := conn.Client()
	if err != nil {
		return cqrs.EventProcessorConfig{}, err
	}

	return cqrs.EventProcessorConfig{
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return params.EventName, nil
		},
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        client,
				ConsumerGroup: group + "." + params.HandlerName,
			}, logger)
		},
		Marshaler: Marshaler,
		Logger:    logger,
	}, nil
}
