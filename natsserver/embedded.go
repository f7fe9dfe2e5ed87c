// Package natsserver provides the embedded NATS server backing the ticket
// event stream.
package natsserver

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// EmbeddedNATS wraps an embedded NATS server with a client connection.
type EmbeddedNATS struct {
	server *server.Server
	conn   *nats.Conn
	port   int
}

// Config holds configuration for the embedded NATS server.
type Config struct {
	Port       int   // Port <= 0 picks a random free port (used by tests)
	MaxPayload int32 // Max message size in bytes
}

// New creates and starts an embedded NATS server.
func New(cfg Config) (*EmbeddedNATS, error) {
	port := cfg.Port
	if port <= 0 {
		port = server.RANDOM_PORT
	}
	maxPayload := cfg.MaxPayload
	if maxPayload <= 0 {
		maxPayload = 1024 * 1024
	}

	opts := &server.Options{
		Host:          "0.0.0.0",
		Port:          port,
		NoLog:         true,
		NoSigs:        true,
		MaxPayload:    maxPayload,
		WriteDeadline: 10 * time.Second,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		return nil, fmt.Errorf("NATS server not ready after 5 seconds")
	}

	// The server resolved the port itself when a random one was requested.
	actualPort := ns.Addr().(*net.TCPAddr).Port

	nc, err := nats.Connect(
		fmt.Sprintf("nats://localhost:%d", actualPort),
		nats.Name("devdesk-internal"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to embedded NATS: %w", err)
	}

	log.Printf("📡 Embedded NATS server started on port %d", actualPort)

	return &EmbeddedNATS{
		server: ns,
		conn:   nc,
		port:   actualPort,
	}, nil
}

// Conn returns the internal NATS connection.
func (e *EmbeddedNATS) Conn() *nats.Conn {
	return e.conn
}

// Address returns the NATS server address.
func (e *EmbeddedNATS) Address() string {
	return fmt.Sprintf("nats://localhost:%d", e.port)
}

// Port returns the NATS server port.
func (e *EmbeddedNATS) Port() int {
	return e.port
}

// NumClients returns the number of connected clients.
func (e *EmbeddedNATS) NumClients() int {
	return e.server.NumClients()
}

// Shutdown gracefully shuts down the NATS server.
func (e *EmbeddedNATS) Shutdown() {
	if e.conn != nil {
		e.conn.Close()
	}
	if e.server != nil {
		e.server.Shutdown()
	}
	log.Println("📡 NATS server shut down")
}
