package projections

import (
	"context"
	"time"

	"github.com/influxdata/influxdb/client/v2"
	"github.com/pkg/errors"

	"github.com/retro-framework/glob-playground/framework"
	"github.com/retro-framework/glob-playground/framework/controller"
	"github.com/retro-framework/glob-playground/framework/types"
)

// InfluxConfig configures the evaluation metrics projection.
type InfluxConfig struct {
	Addr          string
	Database      string
	Engine        string
	Buffer        int
	BatchSize     int
	FlushInterval time.Duration
}

func (ic InfluxConfig) withDefaults() InfluxConfig {
	if ic.Database == "" {
		ic.Database = "playground"
	}
	if ic.Buffer <= 0 {
		ic.Buffer = 1024
	}
	if ic.BatchSize <= 0 {
		ic.BatchSize = 100
	}
	if ic.FlushInterval <= 0 {
		ic.FlushInterval = 5 * time.Second
	}
	return ic
}

type pointWriter interface {
	Write(client.BatchPoints) error
}

// InfluxReporter publishes one "evaluations" point per evaluation pass.
// Observe only queues, Run does the writing. Passes arriving while the
// queue is full are dropped.
type InfluxReporter struct {
	cfg    InfluxConfig
	w      pointWriter
	setup  func() error
	passes chan controller.Pass
	logger types.Logger
}

func NewInfluxReporter(cfg InfluxConfig, l types.Logger) (*InfluxReporter, error) {
	cfg = cfg.withDefaults()
	c, err := client.NewHTTPClient(client.HTTPConfig{Addr: cfg.Addr})
	if err != nil {
		return nil, errors.Wrap(err, "can't create influxdb client")
	}
	r := newInfluxReporter(cfg, c, l)
	r.setup = func() error {
		res, err := c.Query(client.NewQuery("CREATE DATABASE "+cfg.Database, "", ""))
		if err != nil {
			return err
		}
		return res.Error()
	}
	return r, nil
}

func newInfluxReporter(cfg InfluxConfig, w pointWriter, l types.Logger) *InfluxReporter {
	cfg = cfg.withDefaults()
	if l == nil {
		l = framework.Noop{}
	}
	return &InfluxReporter{
		cfg:    cfg,
		w:      w,
		passes: make(chan controller.Pass, cfg.Buffer),
		logger: l,
	}
}

func (r *InfluxReporter) Observe(_ context.Context, p controller.Pass) {
	select {
	case r.passes <- p:
	default:
		r.logger.Warnf("projection(influx): queue full, dropped pass %d of %s", p.Revision, p.Session)
	}
}

// Run writes queued passes in batches until ctx is done, then flushes
// what is left and returns ctx.Err().
func (r *InfluxReporter) Run(ctx context.Context) error {
	if r.setup != nil {
		if err := r.setup(); err != nil {
			r.logger.Errorf("projection(influx): err creating database %q: %s", r.cfg.Database, err)
		}
	}

	var (
		batch  = make([]controller.Pass, 0, r.cfg.BatchSize)
		ticker = time.NewTicker(r.cfg.FlushInterval)
	)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.write(batch); err != nil {
			r.logger.Errorf("projection(influx): err writing %d points: %s", len(batch), err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case p := <-r.passes:
					batch = append(batch, p)
				default:
					flush()
					return ctx.Err()
				}
			}
		case p := <-r.passes:
			batch = append(batch, p)
			if len(batch) >= r.cfg.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (r *InfluxReporter) write(passes []controller.Pass) error {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  r.cfg.Database,
		Precision: "us",
	})
	if err != nil {
		return errors.Wrap(err, "can't create batch")
	}
	for _, p := range passes {
		var (
			tags = map[string]string{
				"trigger": string(p.Trigger),
				"engine":  r.cfg.Engine,
			}
			fields = map[string]interface{}{
				"candidates":  p.Candidates,
				"matches":     p.Matches,
				"duration_us": p.Duration.Nanoseconds() / int64(time.Microsecond),
			}
		)
		pt, err := client.NewPoint("evaluations", tags, fields, p.At)
		if err != nil {
			return errors.Wrap(err, "can't create point")
		}
		bp.AddPoint(pt)
	}
	return r.w.Write(bp)
}
