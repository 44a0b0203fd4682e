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
	FieldOwnerID    = "owner_id"
	FieldResource   = "resource"
	FieldCount      = "count"
	FieldVersion    = "version"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentBackup    = "backup"
	ComponentImport    = "import"
	ComponentExport    = "export"
	ComponentWorker    = "worker"
	ComponentRateLimit = "rate_limit"
)

// Operations defines standard operation names
const (
	OpQuery    = "query"
	OpInsert   = "insert"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpRestore  = "restore"
	OpBackup   = "backup"
	OpImport   = "import"
	OpExport   = "export"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
