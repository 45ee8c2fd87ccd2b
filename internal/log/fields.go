package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldExpenseID  = "expense_id"
	FieldAmount     = "amount"
	FieldPayer      = "payer"
	FieldCategory   = "category"
	FieldCount      = "count"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentStorage    = "storage"
	ComponentJournal    = "journal"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentGateway    = "gateway"
	ComponentController = "controller"
	ComponentCache      = "cache"
)

// Operations defines standard operation names
const (
	OpCreate = "create"
	OpRead   = "read"
	OpUpdate = "update"
	OpDelete = "delete"
	OpList   = "list"
	OpReset  = "reset"
	OpLoad   = "load"
)
