package log

// Standard field names used across the application.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"

	// HTTP fields
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldRemoteAddr = "remote_addr"

	// Domain fields
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldKind          = "kind"
	FieldAmount        = "amount"
	FieldMonth         = "month"
	FieldYear          = "year"
	FieldSeverity      = "severity"
	FieldBackend       = "backend"
	FieldQueue         = "queue"
)

// Component names for each subsystem.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentLedger  = "ledger"
	ComponentAlert   = "alert"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
)
