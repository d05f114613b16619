package datasource

import (
	"context"
	"fmt"
	"sync"

	"market-reporter/src/helpers"
	"market-reporter/src/interfaces"
	"market-reporter/src/logger"
	"market-reporter/src/models"
)

// SourceManager aggregates multiple IDataSource instances and fetches daily
// history with ordered fallback: the first source that returns a usable
// series wins.
type SourceManager struct {
	Sources map[string]interfaces.IDataSource
	order   []string
	Logger  *logger.Logger
	mu      sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewSourceManager(sources []interfaces.IDataSource, log *logger.Logger) *SourceManager {
	m := &SourceManager{
		Sources: make(map[string]interfaces.IDataSource),
		Logger:  log,
	}
	for _, s := range sources {
		m.Sources[s.Name()] = s
		m.order = append(m.order, s.Name())
	}
	return m
}

// -----------------------------------------------------------------------------

// AddSource registers a new source at the end of the fallback order.
func (m *SourceManager) AddSource(source interfaces.IDataSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := source.Name()
	if _, exists := m.Sources[name]; exists {
		return fmt.Errorf("source %s already exists", name)
	}

	m.Sources[name] = source
	m.order = append(m.order, name)
	m.Logger.Info("Added source: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

// RemoveSource removes a source from the registry and the fallback order.
func (m *SourceManager) RemoveSource(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Sources[name]; !exists {
		return fmt.Errorf("source %s not found", name)
	}

	delete(m.Sources, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.Logger.Info("Removed source: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

// GetSource retrieves a source by name.
func (m *SourceManager) GetSource(name string) (interfaces.IDataSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	source, exists := m.Sources[name]
	if !exists {
		return nil, fmt.Errorf("source %s not found", name)
	}
	return source, nil
}

// -----------------------------------------------------------------------------

// GetAllSources returns all registered sources in fallback order.
func (m *SourceManager) GetAllSources() []interfaces.IDataSource {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]interfaces.IDataSource, 0, len(m.order))
	for _, name := range m.order {
		list = append(list, m.Sources[name])
	}
	return list
}

// -----------------------------------------------------------------------------

// FetchDailyHistory walks the sources in order and returns the first
// successful series. All sources failing is an error carrying the last cause.
func (m *SourceManager) FetchDailyHistory(ctx context.Context, symbol string, days int) ([]models.MDailyBar, error) {
	sources := m.GetAllSources()
	if len(sources) == 0 {
		return nil, fmt.Errorf("no data sources registered")
	}

	var lastErr error
	for _, s := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bars, err := s.FetchDailyHistory(ctx, symbol, days)
		if err != nil {
			m.Logger.Warning("Source %s failed for %s: %v", s.Name(), symbol, err)
			lastErr = err
			continue
		}
		if len(bars) == 0 {
			m.Logger.Warning("Source %s returned empty series for %s", s.Name(), symbol)
			lastErr = fmt.Errorf("empty series from %s", s.Name())
			continue
		}
		return bars, nil
	}

	return nil, &helpers.DataSourceError{MarketReporterError: helpers.MarketReporterError{
		Message: fmt.Sprintf("all sources failed for %s", symbol),
		Cause:   lastErr,
	}}
}
