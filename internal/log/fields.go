package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldEntity     = "entity"
	FieldEntityID   = "entity_id"
	FieldUsername   = "username"
	FieldRange      = "range"
	FieldBackend    = "backend"
)

const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentSheets    = "sheets"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentBackend   = "backend"
)

const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpLogin    = "login"
	OpInit     = "init"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// Entities are the record kinds a mutation can touch.
const (
	EntityTransaction = "transaction"
	EntityCategory    = "category"
	EntityBudget      = "budget"
)

// Fields is an ordered builder for slog key/value pairs.
type Fields []any

func NewFields() Fields {
	return nil
}

func (f Fields) WithComponent(component string) Fields {
	return append(f, FieldComponent, component)
}

func (f Fields) WithRequestID(requestID string) Fields {
	if requestID == "" {
		return f
	}
	return append(f, FieldRequestID, requestID)
}

func (f Fields) WithClientIP(ip string) Fields {
	return append(f, FieldClientIP, ip)
}

func (f Fields) WithError(err error) Fields {
	if err == nil {
		return f
	}
	return append(f, FieldError, err.Error())
}

func (f Fields) WithOperation(op string) Fields {
	return append(f, FieldOperation, op)
}

func (f Fields) WithEntity(entity, id string) Fields {
	return append(f, FieldEntity, entity, FieldEntityID, id)
}

func (f Fields) WithHTTPRequest(method, path, query, userAgent string) Fields {
	f = append(f, FieldMethod, method, FieldPath, path)
	if query != "" {
		f = append(f, FieldQuery, query)
	}
	if userAgent != "" {
		f = append(f, FieldUserAgent, userAgent)
	}
	return f
}

func (f Fields) WithHTTPResponse(statusCode int, durationMs int64) Fields {
	return append(f, FieldStatusCode, statusCode, FieldDuration, durationMs, FieldSuccess, statusCode < 400)
}
