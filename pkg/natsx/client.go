// Package natsx bridges NATS subjects and rex publishers.
package natsx

import (
	"os"

	"github.com/nats-io/nats.go"
)

// ClientName is the connection name used when NewClient gets no options.
const ClientName = "rex"

// NewClient connects to the server named by the NATS_URL environment
// variable, or nats.DefaultURL when it is unset. Without options the
// connection is named ClientName and uses compression.
func NewClient(opts ...nats.Option) (*nats.Conn, error) {
	if len(opts) == 0 {
		opts = append(opts, nats.Name(ClientName), nats.Compression(true))
	}
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}
	return nats.Connect(url, opts...)
}
