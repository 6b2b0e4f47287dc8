package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp/node"
)

const (
	defaultJournalBuffer = 1024
	journalWriteTimeout  = 5 * time.Second
)

// ErrJournalFull is returned when the write queue has no room left.
var ErrJournalFull = errors.New("journal: queue full")

// Journal stores raw OCPP frames in ocpp_messages. Record only queues the
// entry; a single worker writes it.
type Journal struct {
	db     Execer
	nodeID string
	logger *zap.Logger

	entries chan node.JournalEntry
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewJournal starts the journal worker. buffer <= 0 selects the default.
func NewJournal(db Execer, nodeID string, buffer int, logger *zap.Logger) *Journal {
	if buffer <= 0 {
		buffer = defaultJournalBuffer
	}
	j := &Journal{
		db:      db,
		nodeID:  nodeID,
		logger:  logger,
		entries: make(chan node.JournalEntry, buffer),
		done:    make(chan struct{}),
	}
	j.wg.Add(1)
	go j.run()
	return j
}

// Record queues entry without blocking.
func (j *Journal) Record(_ context.Context, entry node.JournalEntry) error {
	select {
	case <-j.done:
		return errors.New("journal: closed")
	default:
	}
	select {
	case j.entries <- entry:
		return nil
	default:
		j.logger.Warn("journal queue full, dropping frame",
			zap.String("peer", string(entry.Peer)),
			zap.String("message_id", entry.MessageID),
		)
		return ErrJournalFull
	}
}

// Close writes what is queued and stops the worker.
func (j *Journal) Close() {
	j.once.Do(func() { close(j.done) })
	j.wg.Wait()
}

func (j *Journal) run() {
	defer j.wg.Done()
	for {
		select {
		case entry := <-j.entries:
			j.write(entry)
		case <-j.done:
			for {
				select {
				case entry := <-j.entries:
					j.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (j *Journal) write(entry node.JournalEntry) {
	const query = `
		INSERT INTO ocpp_messages (node_id, peer_id, destination, direction, message_type, message_id, action, payload, raw, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()

	var payload any
	if len(entry.Payload) > 0 {
		payload = string(entry.Payload)
	}
	_, err := j.db.ExecContext(ctx, query,
		j.nodeID,
		string(entry.Peer),
		nullIfEmpty(string(entry.Destination)),
		string(entry.Direction),
		int(entry.MessageType),
		entry.MessageID,
		nullIfEmpty(entry.Action),
		payload,
		string(entry.Raw),
		entry.Time,
	)
	if err != nil {
		j.logger.Error("failed to journal frame",
			zap.String("peer", string(entry.Peer)),
			zap.String("message_id", entry.MessageID),
			zap.Error(err),
		)
	}
}
