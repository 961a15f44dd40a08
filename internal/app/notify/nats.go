// internal/app/notify/nats.go
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

// Subject prefix for published notification events. The event type is
// appended, e.g. "grouphub.notifications.member_joined", so downstream
// consumers can subscribe per type or to the wildcard.
const natsSubjectPrefix = "grouphub.notifications."

// NATSSender publishes events to a NATS subject per event type. Wired in
// only when nats_url is configured; delivery to actual email/push channels
// is someone else's job on the far side of the subject.
type NATSSender struct {
	conn *nats.Conn
}

// ConnectNATS dials the NATS server with reconnect behavior suitable for a
// fire-and-forget event feed.
func ConnectNATS(url string) (*NATSSender, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NATSSender{conn: conn}, nil
}

func (s *NATSSender) Send(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.conn.Publish(natsSubjectPrefix+e.Type, data)
}

// Close drains and closes the underlying connection.
func (s *NATSSender) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
