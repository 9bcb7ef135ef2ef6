// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/adcompass/internal/metrics"
)

type countingPurger struct {
	purges atomic.Int32
}

func (p *countingPurger) PurgeCache() { p.purges.Add(1) }

func waitCycle(t *testing.T, svc *RefreshService) {
	t.Helper()
	select {
	case <-svc.Cycles():
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh cycle")
	}
}

func TestRefreshService_PurgesOnTick(t *testing.T) {
	t.Parallel()

	purger := &countingPurger{}
	var imports atomic.Int32
	reload := func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("import context has no deadline")
		}
		imports.Add(1)
		return nil
	}

	svc := NewRefreshService(purger, reload, RefreshConfig{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitCycle(t, svc)
	waitCycle(t, svc)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
	if purger.purges.Load() < 2 {
		t.Errorf("purges = %d, want >= 2", purger.purges.Load())
	}
	if imports.Load() < 2 {
		t.Errorf("imports = %d, want >= 2", imports.Load())
	}
}

// Not parallel: reads the shared refresh counter.
func TestRefreshService_ImportFailureStillPurges(t *testing.T) {
	purger := &countingPurger{}
	reload := func(context.Context) error { return errors.New("missing file") }
	svc := NewRefreshService(purger, reload, RefreshConfig{Interval: time.Hour}, zerolog.Nop())

	before := testutil.ToFloat64(metrics.ModelRefreshes.WithLabelValues(RefreshError))
	svc.refresh(context.Background())

	if purger.purges.Load() != 1 {
		t.Errorf("purges = %d, want 1", purger.purges.Load())
	}
	if got := testutil.ToFloat64(metrics.ModelRefreshes.WithLabelValues(RefreshError)); got != before+1 {
		t.Errorf("error refreshes = %v, want %v", got, before+1)
	}
}

func TestRefreshService_NoReload(t *testing.T) {
	t.Parallel()

	purger := &countingPurger{}
	svc := NewRefreshService(purger, nil, RefreshConfig{}, zerolog.Nop())
	if svc.config.Interval != time.Hour || svc.config.ImportTimeout != 10*time.Minute {
		t.Errorf("defaults = %+v", svc.config)
	}

	svc.refresh(context.Background())
	if purger.purges.Load() != 1 {
		t.Errorf("purges = %d", purger.purges.Load())
	}
	if svc.String() != "refresh-service" {
		t.Errorf("String() = %q", svc.String())
	}
}
