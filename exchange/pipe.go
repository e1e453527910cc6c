package exchange

// Pipe creates a connected pair of in-process endpoints. Messages sent on
// one endpoint are received on the other, in order. Each direction buffers
// the two messages of a protocol run, so a full honest run never blocks on
// Send.
func Pipe() (*PipeEndpoint, *PipeEndpoint) {
	ab := make(chan Message, 2)
	ba := make(chan Message, 2)

	a := &PipeEndpoint{send: ab, receive: ba, done: make(chan struct{})}
	b := &PipeEndpoint{send: ba, receive: ab, done: make(chan struct{})}

	return a, b
}

// PipeEndpoint is an in-process implementation of Endpoint, connecting two
// sessions running in the same program.
type PipeEndpoint struct {
	send    chan Message
	receive chan Message
	done    chan struct{}
}

// Send delivers a message to the peer endpoint.
func (p *PipeEndpoint) Send(message Message) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	select {
	case <-p.done:
		return ErrClosed
	case p.send <- message:
		return nil
	}
}

// Receive blocks until the peer endpoint's next message is available.
func (p *PipeEndpoint) Receive() (Message, error) {
	select {
	case <-p.done:
		return Message{}, ErrClosed
	default:
	}

	select {
	case <-p.done:
		return Message{}, ErrClosed
	case message := <-p.receive:
		return message, nil
	}
}

// Close releases the endpoint. Pending and future Send and Receive calls
// on this endpoint return ErrClosed.
func (p *PipeEndpoint) Close() {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
}
