package taxonomy

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher rebuilds the index on a cron schedule. A failed rebuild keeps
// the previous snapshot and logs; the storefront keeps serving stale
// taxonomy rather than none.
type Refresher struct {
	index   *Index
	cron    *cron.Cron
	timeout time.Duration
}

func NewRefresher(index *Index, spec string, timeout time.Duration) (*Refresher, error) {
	r := &Refresher{
		index:   index,
		cron:    cron.New(),
		timeout: timeout,
	}
	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Refresher) Start() {
	r.cron.Start()
}

func (r *Refresher) Stop() {
	r.cron.Stop()
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.index.Build(ctx); err != nil {
		log.Printf("taxonomy refresh failed, keeping previous snapshot: %v", err)
		return
	}
	log.Printf("taxonomy refreshed")
}
