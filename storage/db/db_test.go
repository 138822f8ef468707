// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/cpusim/simstat/simfmt"
	"github.com/cpusim/simstat/storage/db/dbtest"
	"github.com/stretchr/testify/require"
)

func mkres(label, name string, counts [6]int64, cpi float64) *simfmt.Result {
	r := &simfmt.Result{Label: label, Name: name, CPI: cpi}
	r.RunClock.SetInt64(counts[0])
	r.DataHazardCount.SetInt64(counts[1])
	r.DataHazardDelayedCycles.SetInt64(counts[2])
	r.ControlHazardCount.SetInt64(counts[3])
	r.ControlHazardDelayedCycles.SetInt64(counts[4])
	r.ValidInsts.SetInt64(counts[5])
	return r
}

func TestInsertAndList(t *testing.T) {
	ctx := context.Background()
	d, cleanup := dbtest.NewDB(t)
	defer cleanup()

	u, err := d.NewRun(ctx)
	require.NoError(t, err)

	recs := []*simfmt.Result{
		mkres("forward", "add", [6]int64{425, 151, 0, 17, 34, 390}, 1.0897435897435896),
		mkres("forward", "div", [6]int64{1021, 80, 160, 9, 18, 512}, 1.994140625),
		mkres("stall", "add", [6]int64{612, 151, 302, 17, 34, 390}, 1.5692307692307692),
	}
	for _, r := range recs {
		require.NoError(t, u.InsertRecord(ctx, r))
	}

	got, err := d.ListRecords(ctx, "add")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "forward", got[0].Label)
	require.Equal(t, "stall", got[1].Label)
	require.Equal(t, "425", got[0].RunClock.String())
	require.Equal(t, "302", got[1].DataHazardDelayedCycles.String())
	require.InEpsilon(t, 1.0897435897435896, got[0].CPI, 1e-12)

	got, err = d.ListRecords(ctx, "matrix-mul")
	require.NoError(t, err)
	require.Empty(t, got)

	n, err := d.CountRuns(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestHugeCountRoundTrip(t *testing.T) {
	ctx := context.Background()
	d, cleanup := dbtest.NewDB(t)
	defer cleanup()

	u, err := d.NewRun(ctx)
	require.NoError(t, err)

	huge := "123456789012345678901234567890"
	r := mkres("forward", "ackermann", [6]int64{0, 0, 0, 0, 0, 1}, 2.5)
	r.RunClock.SetString(huge, 10)
	require.NoError(t, u.InsertRecord(ctx, r))

	got, err := d.ListRecords(ctx, "ackermann")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, huge, got[0].RunClock.String())
	require.Equal(t, 0, got[0].ValidInsts.Cmp(big.NewInt(1)))
}

func TestRunIDsDistinct(t *testing.T) {
	ctx := context.Background()
	d, cleanup := dbtest.NewDB(t)
	defer cleanup()

	u1, err := d.NewRun(ctx)
	require.NoError(t, err)
	u2, err := d.NewRun(ctx)
	require.NoError(t, err)
	require.NotEqual(t, u1.ID, u2.ID)

	// Records from later runs list after earlier ones.
	require.NoError(t, u2.InsertRecord(ctx, mkres("b", "shift", [6]int64{2, 0, 0, 0, 0, 1}, 2)))
	require.NoError(t, u1.InsertRecord(ctx, mkres("a", "shift", [6]int64{1, 0, 0, 0, 0, 1}, 1)))

	got, err := d.ListRecords(ctx, "shift")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Label)
	require.Equal(t, "b", got[1].Label)
}
