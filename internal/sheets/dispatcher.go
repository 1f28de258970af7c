package sheets

import (
	"context"
	"sync"
	"time"

	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/prohmpiriya/lensdesk/pkg/telemetry"
	"go.uber.org/zap"
)

// Mirror receives rows to copy into a firm's spreadsheet.
// Enqueue never blocks and never fails the caller.
type Mirror interface {
	Enqueue(row Row)
	Close() error
}

// Noop discards every row
type Noop struct{}

func (Noop) Enqueue(Row)  {}
func (Noop) Close() error { return nil }

// FirmSpreadsheets loads and records the spreadsheet id of a firm
type FirmSpreadsheets interface {
	GetByID(ctx context.Context, id string) (*domain.Firm, error)
	SetSpreadsheetID(ctx context.Context, id, spreadsheetID string) error
}

// DispatcherConfig holds settings for the async dispatcher
type DispatcherConfig struct {
	// BufferSize is the queue length; rows are dropped when it is full (default: 500)
	BufferSize int
	// FlushInterval is how often a partial batch is sent (default: 5 seconds)
	FlushInterval time.Duration
	// BatchSize is the maximum number of rows sent per flush (default: 50)
	BatchSize int
	// CallTimeout bounds one flush including API calls (default: 30 seconds)
	CallTimeout time.Duration
}

// Dispatcher batches rows in memory and appends them to Google Sheets from one background worker
type Dispatcher struct {
	config    DispatcherConfig
	api       API
	firms     FirmSpreadsheets
	log       *logger.Logger
	buffer    chan Row
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// firm id -> spreadsheet id; only touched by the worker
	spreadsheets map[string]string

	appended *telemetry.Counter
	failed   *telemetry.Counter
	dropped  *telemetry.Counter
}

// NewDispatcher starts the background worker
func NewDispatcher(config DispatcherConfig, api API, firms FirmSpreadsheets, log *logger.Logger) *Dispatcher {
	if config.BufferSize <= 0 {
		config.BufferSize = 500
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.CallTimeout <= 0 {
		config.CallTimeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Get()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		config:       config,
		api:          api,
		firms:        firms,
		log:          log,
		buffer:       make(chan Row, config.BufferSize),
		ctx:          ctx,
		cancel:       cancel,
		spreadsheets: make(map[string]string),
		appended: telemetry.MustCounter(telemetry.MetricOpts{
			Name: "sheets_rows_appended_total", Description: "Rows appended to firm spreadsheets",
		}),
		failed: telemetry.MustCounter(telemetry.MetricOpts{
			Name: "sheets_rows_failed_total", Description: "Rows that could not be appended",
		}),
		dropped: telemetry.MustCounter(telemetry.MetricOpts{
			Name: "sheets_rows_dropped_total", Description: "Rows dropped because the queue was full",
		}),
	}

	d.wg.Add(1)
	go d.worker()

	return d
}

// Enqueue adds a row to the buffer (non-blocking)
func (d *Dispatcher) Enqueue(row Row) {
	select {
	case <-d.ctx.Done():
		return
	default:
	}

	select {
	case d.buffer <- row:
	default:
		d.dropped.Inc(context.Background(), telemetry.SheetAttr(string(row.Tab)))
		d.log.Warn("sheets queue full, dropping row",
			zap.String("firm_id", row.FirmID),
			zap.String("tab", string(row.Tab)),
		)
	}
}

// Close flushes queued rows and stops the worker
func (d *Dispatcher) Close() error {
	d.closeOnce.Do(func() {
		d.cancel()
		d.wg.Wait()
	})
	return nil
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.FlushInterval)
	defer ticker.Stop()

	batch := make([]Row, 0, d.config.BatchSize)

	for {
		select {
		case row := <-d.buffer:
			batch = append(batch, row)
			if len(batch) >= d.config.BatchSize {
				d.flush(batch)
				batch = make([]Row, 0, d.config.BatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				d.flush(batch)
				batch = make([]Row, 0, d.config.BatchSize)
			}
		case <-d.ctx.Done():
			// drain what is already queued before exiting
			for {
				select {
				case row := <-d.buffer:
					batch = append(batch, row)
				default:
					if len(batch) > 0 {
						d.flush(batch)
					}
					return
				}
			}
		}
	}
}

type batchKey struct {
	firmID string
	tab    Tab
}

// flush groups rows per firm and tab so each group is one append call
func (d *Dispatcher) flush(rows []Row) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.CallTimeout)
	defer cancel()

	groups := make(map[batchKey][][]any)
	order := make([]batchKey, 0)
	for _, row := range rows {
		key := batchKey{firmID: row.FirmID, tab: row.Tab}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row.Values)
	}

	for _, key := range order {
		values := groups[key]
		attrs := telemetry.SheetAttr(string(key.tab))

		spreadsheetID, err := d.spreadsheetFor(ctx, key.firmID)
		if err == nil {
			err = d.api.AppendRows(ctx, spreadsheetID, key.tab, values)
		}
		if err != nil {
			d.failed.Add(ctx, int64(len(values)), attrs)
			d.log.Warn("sheets append failed",
				zap.String("firm_id", key.firmID),
				zap.String("tab", string(key.tab)),
				zap.Int("rows", len(values)),
				zap.Error(err),
			)
			continue
		}
		d.appended.Add(ctx, int64(len(values)), attrs)
	}
}

// spreadsheetFor returns the firm's spreadsheet, creating it on first use
func (d *Dispatcher) spreadsheetFor(ctx context.Context, firmID string) (string, error) {
	if id, ok := d.spreadsheets[firmID]; ok {
		return id, nil
	}

	firm, err := d.firms.GetByID(ctx, firmID)
	if err != nil {
		return "", err
	}
	if firm == nil {
		return "", domain.NotFound("firm")
	}
	if firm.SpreadsheetID != "" {
		d.spreadsheets[firmID] = firm.SpreadsheetID
		return firm.SpreadsheetID, nil
	}

	id, err := d.api.CreateSpreadsheet(ctx, firm.Name+" - Studio Records", Tabs)
	if err != nil {
		return "", err
	}
	if err := d.firms.SetSpreadsheetID(ctx, firmID, id); err != nil {
		d.log.Warn("failed to record spreadsheet id", zap.String("firm_id", firmID), zap.Error(err))
	}
	d.spreadsheets[firmID] = id
	d.log.Info("created firm spreadsheet", zap.String("firm_id", firmID), zap.String("spreadsheet_id", id))
	return id, nil
}
