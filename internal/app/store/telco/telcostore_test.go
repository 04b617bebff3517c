package telcostore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	telcostore "github.com/dalemusser/opsconsole/internal/app/store/telco"
	"github.com/dalemusser/opsconsole/internal/app/system/derive"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"github.com/dalemusser/opsconsole/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageSince_ReturnsEveryRow(t *testing.T) {
	usage := testutil.NewMemRepo[models.TelcoAPIUsage, *models.TelcoAPIUsage]()
	st := &telcostore.Store{Usage: usage}

	n := records.MaxLimit + 100
	for i := 0; i < n; i++ {
		usage.Seed(models.TelcoAPIUsage{APIName: "sim_swap", Success: i%2 == 0, ResponseTimeMS: 100})
	}

	rows, err := st.UsageSince(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, n)

	report := derive.Usage(rows)
	require.Len(t, report, 1)
	assert.Equal(t, n, report[0].Calls)
	assert.Equal(t, n/2, report[0].Successful)
	assert.InDelta(t, 100.0, report[0].AvgLatencyMS, 0.001)

	total, passed, err := st.UsageCounts(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, report[0].Calls, total)
	assert.EqualValues(t, report[0].Successful, passed)
}

func TestUsageSince_WindowAndErrors(t *testing.T) {
	usage := testutil.NewMemRepo[models.TelcoAPIUsage, *models.TelcoAPIUsage]()
	usage.Seed(models.TelcoAPIUsage{APIName: "sim_swap", Success: true})
	st := &telcostore.Store{Usage: usage}

	rows, err := st.UsageSince(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	usage.SelectErr = errors.New("backend down")
	_, err = st.UsageSince(context.Background(), time.Now().Add(-time.Hour))
	assert.Error(t, err)
}

func TestFigures(t *testing.T) {
	st := &telcostore.Store{
		SimSwaps:       testutil.NewMemRepo[models.SimSwapRequest, *models.SimSwapRequest](),
		QodSessions:    testutil.NewMemRepo[models.QodSession, *models.QodSession](),
		Geofences:      testutil.NewMemRepo[models.Geofence, *models.Geofence](),
		TrackedDevices: testutil.NewMemRepo[models.TrackedDevice, *models.TrackedDevice](),
	}

	empty, err := st.Figures(context.Background())
	require.NoError(t, err)
	assert.Zero(t, empty.FraudScores.Mean())
	assert.Zero(t, empty.QodLatency.Mean())

	swaps := st.SimSwaps.(*testutil.MemRepo[models.SimSwapRequest, *models.SimSwapRequest])
	qod := st.QodSessions.(*testutil.MemRepo[models.QodSession, *models.QodSession])
	fences := st.Geofences.(*testutil.MemRepo[models.Geofence, *models.Geofence])

	for i := 0; i < records.MaxLimit+1; i++ {
		swaps.Seed(models.SimSwapRequest{PhoneNumber: "+1", FraudScore: 40})
	}
	lat := 20.0
	qod.Seed(
		models.QodSession{PhoneNumber: "+1", Status: models.QodActive, ActualLatencyMS: &lat},
		models.QodSession{PhoneNumber: "+1", Status: models.QodActive},
		models.QodSession{PhoneNumber: "+1", Status: models.QodTerminated},
	)
	fences.Seed(models.Geofence{GeofenceName: "Depot", IsActive: true}, models.Geofence{GeofenceName: "Old"})

	f, err := st.Figures(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, records.MaxLimit+1, f.FraudScores.N)
	assert.Equal(t, 40.0, f.FraudScores.Mean())
	assert.EqualValues(t, 1, f.QodLatency.N)
	assert.Equal(t, 20.0, f.QodLatency.Mean())
	assert.EqualValues(t, 2, f.ActiveQodSessions)
	assert.EqualValues(t, 1, f.ActiveGeofences)
	assert.Zero(t, f.TrackedDevices)
}
