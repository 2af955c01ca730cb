package messaging

// NewPublisherOnChannel wires a publisher to a test channel.
func NewPublisherOnChannel(ch channel, exchange string) *RabbitMQPublisher {
	return &RabbitMQPublisher{channel: ch, exchange: exchange}
}
