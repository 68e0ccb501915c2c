package interfaces

// -----------------------------------------------------------------------------
// IDataExchanger defining the interface for sharing data with external systems (Server/Push).
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// -----------------------------------------------------------------------------
	// Broadcast queues a message for delivery to every connected client.
	// Non-blocking: when the queue is full the message is dropped with a
	// logged warning.
	Broadcast(message interface{})

	// -----------------------------------------------------------------------------
	// Start the server
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}

// -----------------------------------------------------------------------------
// ICommandRouter handles one raw client frame and returns zero or more
// direct replies for that same client.
// -----------------------------------------------------------------------------

type ICommandRouter interface {
	Handle(raw []byte) []interface{}
}

// -----------------------------------------------------------------------------
// IBridgeStatus exposes bridge counters to the HTTP status endpoint.
// -----------------------------------------------------------------------------

type IBridgeStatus interface {
	ActiveSubscriptions() int
	PendingResolutions() int
	NextOrderID() int64
}
