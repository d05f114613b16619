package datasource

import (
	"context"
	"errors"
	"testing"

	"market-reporter/src/helpers"
	"market-reporter/src/interfaces"
	"market-reporter/src/logger"
	"market-reporter/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name string
	bars []models.MDailyBar
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchDailyHistory(ctx context.Context, symbol string, days int) ([]models.MDailyBar, error) {
	return s.bars, s.err
}

func newTestManager(sources ...interfaces.IDataSource) *SourceManager {
	return NewSourceManager(sources, logger.NewLogger("ERROR", "test"))
}

// -----------------------------------------------------------------------------

func TestFetchDailyHistory_FirstSourceWins(t *testing.T) {
	primary := &stubSource{name: "primary", bars: []models.MDailyBar{{Symbol: "TSLA", Close: 240}}}
	backup := &stubSource{name: "backup", bars: []models.MDailyBar{{Symbol: "TSLA", Close: 999}}}
	m := newTestManager(primary, backup)

	bars, err := m.FetchDailyHistory(context.Background(), "TSLA", 30)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 240.0, bars[0].Close)
}

func TestFetchDailyHistory_FallsBackOnError(t *testing.T) {
	primary := &stubSource{name: "primary", err: errors.New("rate limited")}
	backup := &stubSource{name: "backup", bars: []models.MDailyBar{{Symbol: "TSLA", Close: 245}}}
	m := newTestManager(primary, backup)

	bars, err := m.FetchDailyHistory(context.Background(), "TSLA", 30)
	require.NoError(t, err)
	assert.Equal(t, 245.0, bars[0].Close)
}

func TestFetchDailyHistory_FallsBackOnEmptySeries(t *testing.T) {
	primary := &stubSource{name: "primary", bars: nil}
	backup := &stubSource{name: "backup", bars: []models.MDailyBar{{Symbol: "TSLA", Close: 245}}}
	m := newTestManager(primary, backup)

	bars, err := m.FetchDailyHistory(context.Background(), "TSLA", 30)
	require.NoError(t, err)
	assert.Equal(t, 245.0, bars[0].Close)
}

func TestFetchDailyHistory_AllFail(t *testing.T) {
	cause := errors.New("connection refused")
	m := newTestManager(
		&stubSource{name: "primary", err: errors.New("rate limited")},
		&stubSource{name: "backup", err: cause},
	)

	_, err := m.FetchDailyHistory(context.Background(), "TSLA", 30)
	require.Error(t, err)

	var srcErr *helpers.DataSourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Contains(t, srcErr.Error(), "all sources failed for TSLA")
	assert.ErrorIs(t, err, cause)
}

func TestFetchDailyHistory_NoSources(t *testing.T) {
	m := newTestManager()
	_, err := m.FetchDailyHistory(context.Background(), "TSLA", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data sources")
}

func TestFetchDailyHistory_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newTestManager(&stubSource{name: "primary", bars: []models.MDailyBar{{Close: 1}}})
	_, err := m.FetchDailyHistory(ctx, "TSLA", 30)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAddRemoveSource(t *testing.T) {
	m := newTestManager(&stubSource{name: "primary"})

	require.NoError(t, m.AddSource(&stubSource{name: "backup"}))
	assert.Error(t, m.AddSource(&stubSource{name: "backup"}))

	all := m.GetAllSources()
	require.Len(t, all, 2)
	assert.Equal(t, "primary", all[0].Name())
	assert.Equal(t, "backup", all[1].Name())

	require.NoError(t, m.RemoveSource("primary"))
	assert.Error(t, m.RemoveSource("primary"))

	_, err := m.GetSource("primary")
	assert.Error(t, err)

	src, err := m.GetSource("backup")
	require.NoError(t, err)
	assert.Equal(t, "backup", src.Name())
}
