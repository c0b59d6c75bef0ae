package notify

import (
	"log"
	"sync"
)

// Dispatcher is a small in-process outbox: Enqueue hands the message to a
// single worker goroutine and returns immediately, keeping slow SMTP
// round-trips out of request handlers. If the queue is full the message is
// dropped and logged rather than blocking the request.
type Dispatcher struct {
	mailer Mailer
	queue  chan Message
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(mailer Mailer, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Message, buffer),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for msg := range d.queue {
		if err := d.mailer.Send(msg); err != nil {
			log.Printf("notify: send to %s failed: %v", msg.To, err)
		}
	}
}

// Enqueue never blocks and never returns an error to the caller.
func (d *Dispatcher) Enqueue(msg Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		log.Printf("notify: dispatcher closed, dropping mail to %s", msg.To)
		return
	}
	select {
	case d.queue <- msg:
	default:
		log.Printf("notify: queue full, dropping mail to %s", msg.To)
	}
}

// Close drains the queue and waits for in-flight sends.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.queue)
	d.wg.Wait()
}
