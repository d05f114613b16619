package interfaces

import "market-reporter/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger defines the interface for sharing report state with external
// listeners (websocket dashboards).
// -----------------------------------------------------------------------------

type IDataExchanger interface {

	// -----------------------------------------------------------------------------
	// Broadcast pushes a finished (or failed) run to all connected clients.
	Broadcast(run models.MReportRun)

	// -----------------------------------------------------------------------------
	// UpdateLatest updates the internal state without broadcasting.
	UpdateLatest(run models.MReportRun)

	// -----------------------------------------------------------------------------
	// Start the server
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}
