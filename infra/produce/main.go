package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	MediaCleanup *MediaCleanupService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	mediaCleanup := InitMediaCleanupService(channel)
	if mediaCleanup == nil {
		panic("Failed to initialize Media Cleanup service")
	}

	produceInstance = &Produce{
		MediaCleanup: mediaCleanup,
	}

	return produceInstance
}
