package feed_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsegym/sales-engine/engine"
	"github.com/pulsegym/sales-engine/feed"
)

func snapshotWithSales(n int) engine.Snapshot {
	sales := make([]engine.Sale, n)
	for i := range sales {
		sales[i] = engine.Sale{
			RegistrationID: "1",
			ConsultantID:   "ana",
			UnitID:         "centro",
			Product:        "Outros",
			Amount:         decimal.NewFromInt(100),
		}
	}
	return engine.Snapshot{
		Period: engine.NewPeriod(2025, time.March),
		Sales:  sales,
	}
}

func TestRecomputer_SynchronousWithoutDebounce(t *testing.T) {
	// GIVEN: no debounce configured
	// WHEN: pushing a snapshot
	// THEN: the result is available immediately after Push returns

	r := feed.NewRecomputer(engine.DefaultConfig())
	r.Push(snapshotWithSales(3))

	res := r.Result()
	require.NotNil(t, res)
	assert.Len(t, res.Sales, 3)
}

func TestRecomputer_LastSnapshotWins(t *testing.T) {
	// GIVEN: a burst of pushes inside one debounce window
	// THEN: only the final snapshot is computed

	var published atomic.Int32
	r := feed.NewRecomputer(engine.DefaultConfig(),
		feed.WithDebounce(20*time.Millisecond),
		feed.WithPublishHook(func(engine.Result) { published.Add(1) }),
	)

	for i := 1; i <= 5; i++ {
		r.Push(snapshotWithSales(i))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := r.WaitForResult(ctx)
	require.NoError(t, err)

	assert.Len(t, res.Sales, 5, "only the last pushed snapshot should be computed")
	assert.Equal(t, int32(1), published.Load(), "intermediate snapshots must be dropped")
}

func TestRecomputer_SetConfigRecomputes(t *testing.T) {
	r := feed.NewRecomputer(engine.DefaultConfig())
	r.Push(snapshotWithSales(1))

	require.NotNil(t, r.Result())
	before := r.Result().Sales[0].Commission

	cfg := engine.DefaultConfig()
	cfg.Blacklist = append(cfg.Blacklist, "Outros")
	r.SetConfig(cfg)

	after := r.Result().Sales[0]
	assert.False(t, before.IsZero())
	assert.Equal(t, engine.CategoryNonCommissonable, after.Category)
	assert.True(t, after.Commission.IsZero())
}

func TestRecomputer_ResultNilBeforeFirstPush(t *testing.T) {
	r := feed.NewRecomputer(engine.DefaultConfig())
	assert.Nil(t, r.Result())
}
