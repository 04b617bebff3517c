// Package events publishes a change event on NATS after every successful
// record insert, update or delete. Publishing is fire-and-forget: failures
// are logged and never reach the operator.
//
// Subject: <prefix>.records.<table>.<op>
// Payload: {"table":"geofences","op":"insert","id":"…","at":"…"}
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Event is the JSON payload.
type Event struct {
	Table string    `json:"table"`
	Op    string    `json:"op"`
	ID    string    `json:"id"`
	At    time.Time `json:"at"`
}

// Subject builds the subject for one table and operation.
func Subject(prefix, table string, op records.Op) string {
	return prefix + ".records." + table + "." + string(op)
}

// Publisher implements records.Observer. A nil *Publisher is a no-op.
type Publisher struct {
	conn   Conn
	prefix string
	log    *zap.Logger
	now    func() time.Time
}

// NewPublisher returns nil when conn is nil, so callers can pass the result
// straight into records.Observers.
func NewPublisher(conn Conn, prefix string, logger *zap.Logger) *Publisher {
	if conn == nil {
		return nil
	}
	if prefix == "" {
		prefix = "opsconsole"
	}
	return &Publisher{conn: conn, prefix: prefix, log: logger, now: time.Now}
}

// RecordChanged publishes one event. Failed operations are not published.
func (p *Publisher) RecordChanged(_ context.Context, table string, op records.Op, id primitive.ObjectID, err error) {
	if p == nil || err != nil {
		return
	}
	data, mErr := json.Marshal(Event{Table: table, Op: string(op), ID: id.Hex(), At: p.now().UTC()})
	if mErr != nil {
		p.log.Warn("encode change event failed", zap.Error(mErr))
		return
	}
	subject := Subject(p.prefix, table, op)
	if pErr := p.conn.Publish(subject, data); pErr != nil {
		p.log.Warn("publish change event failed",
			zap.String("subject", subject), zap.Error(pErr))
	}
}

// Connect dials NATS with reconnects enabled. An empty url returns (nil, nil):
// change events are disabled.
func Connect(url string, logger *zap.Logger) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}
	return nats.Connect(url,
		nats.Name("opsconsole"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
}
