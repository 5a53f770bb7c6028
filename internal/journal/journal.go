package journal

import (
	"context"
	"sync"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/obs"
	"main/pkg/conn"
)

// Record is one row of the trade journal. The journal is a write-only audit
// sink; nothing in the trading loop reads it back.
type Record struct {
	ID         uint   `gorm:"primaryKey"`
	OrderID    string `gorm:"index"`
	VenueID    string `gorm:"index"`
	Symbol     string `gorm:"index"`
	Side       string
	Quantity   float64
	Price      float64
	Confidence float64
	Strategy   string
	Accepted   bool
	Reason     string
	CreatedAt  time.Time
}

func (Record) TableName() string {
	return "trade_journal"
}

// Journal persists trade records asynchronously through a bounded queue so a
// slow database never stalls the decision loop. A nil *Journal discards
// every record, which is how the process runs without a database configured.
type Journal struct {
	persist func(Record) error
	queue   *bus.Queue[Record]
	metrics *obs.Metrics
	wg      sync.WaitGroup
}

// New opens the journal table and returns a journal backed by the given
// connection.
func New(client *conn.Client, metrics *obs.Metrics, queueSize int) (*Journal, error) {
	db := client.DB()
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}

	return newJournal(func(r Record) error {
		return db.Create(&r).Error
	}, metrics, queueSize), nil
}

func newJournal(persist func(Record) error, metrics *obs.Metrics, queueSize int) *Journal {
	return &Journal{
		persist: persist,
		queue:   bus.NewQueue[Record](queueSize),
		metrics: metrics,
	}
}

// Start runs the writer loop until the context is done or Close drains the
// queue.
func (j *Journal) Start(ctx context.Context) {
	if j == nil {
		return
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.queue.Run(ctx, j.write)
	}()
}

// Append enqueues a record without blocking. Records lost to a full queue
// are counted, not retried.
func (j *Journal) Append(r Record) {
	if j == nil {
		return
	}

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	if err := j.queue.TryPublish(r); err != nil {
		j.metrics.IncJournalDrop()
		logs.Errorf("journal append dropped, order: %s, err: %v", r.OrderID, err)
	}
}

// Close stops accepting records and waits for queued ones to flush.
func (j *Journal) Close() {
	if j == nil {
		return
	}
	j.queue.Close()
	j.wg.Wait()
}

func (j *Journal) write(r Record) {
	if err := j.persist(r); err != nil {
		logs.Errorf("journal write, order: %s, err: %v", r.OrderID, err)
	}
}
