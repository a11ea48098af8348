// Package nats fans table events out to interested subscribers. Each
// table publishes to its own subject; when no NATS URL is configured a
// no-op publisher stands in.
package nats

import (
	"fmt"

	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var natsLogger = log.With().Str("logger_name", "nats::publisher").Logger()

// Publisher delivers one table event. Implementations must not block
// the caller on delivery.
type Publisher interface {
	PublishTableEvent(tableID string, eventType string, data []byte) error
}

type natsPublisher struct {
	nc *natsgo.Conn
}

func NewPublisher(natsURL string) (Publisher, error) {
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Error connecting to NATS server [%s]", natsURL))
	}
	natsLogger.Info().Msgf("Connected to NATS server %s", natsURL)
	return &natsPublisher{nc: nc}, nil
}

func (p *natsPublisher) PublishTableEvent(tableID string, eventType string, data []byte) error {
	subject := fmt.Sprintf("poker.table.%s.%s", tableID, eventType)
	return p.nc.Publish(subject, data)
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event. Used
// when no NATS URL is configured.
func NewNoopPublisher() Publisher {
	return &noopPublisher{}
}

func (p *noopPublisher) PublishTableEvent(tableID string, eventType string, data []byte) error {
	return nil
}
