package events

// Subscriber receives board events from the bus. The desk watch command
// subscribes to "board.>" and re-fetches the board on any delivery.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel. The
	// topic may use NATS wildcards ("board.*", "board.>"). Call the returned
	// cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
