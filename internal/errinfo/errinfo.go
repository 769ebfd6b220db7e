package errinfo

// ErrorInfo is the structured error payload returned to the frontend.
type ErrorInfo struct {
	ErrorCode  string   `json:"error_code"`
	Phase      string   `json:"phase,omitempty"`
	Retryable  bool     `json:"retryable"`
	Actions    []string `json:"actions,omitempty"`
	Path       string   `json:"path,omitempty"`
	ModelID    string   `json:"model_id,omitempty"`
	StatusCode int      `json:"status_code,omitempty"`
	Detail     string   `json:"detail,omitempty"`
}

const (
	CodeFileNotFound       = "FILE_NOT_FOUND"
	CodeFileReadFailed     = "FILE_READ_FAILED"
	CodeFileWriteFailed    = "FILE_WRITE_FAILED"
	CodeConfiguration      = "CONFIGURATION_ERROR"
	CodeToolUnavailable    = "TOOL_UNAVAILABLE"
	CodeCompileFailed      = "COMPILE_FAILED"
	CodeBackendUnreachable = "BACKEND_UNREACHABLE"
	CodeBackendError       = "BACKEND_ERROR"
	CodeProtocolError      = "PROTOCOL_ERROR"
	CodeEgressBlocked      = "EGRESS_BLOCKED_BY_POLICY"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeUserCanceled       = "USER_CANCELED"
)

const (
	ActionRetry        = "retry"
	ActionOpenSettings = "open_settings"
	ActionFixSource    = "fix_source"
	ActionInstallTool  = "install_tool"
)

const (
	PhaseDocument  = "document"
	PhaseWorkspace = "workspace"
	PhaseTree      = "tree"
	PhaseCompile   = "compile"
	PhaseAssistant = "assistant"
	PhaseModels    = "models"
	PhaseSettings  = "settings"
)

func FileNotFound(phase, path, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeFileNotFound,
		Phase:     phase,
		Retryable: false,
		Path:      path,
		Detail:    detail,
	}
}

func FileReadFailed(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeFileReadFailed,
		Phase:     phase,
		Retryable: false,
		Detail:    detail,
	}
}

func FileWriteFailed(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeFileWriteFailed,
		Phase:     phase,
		Retryable: false,
		Detail:    detail,
	}
}

func ConfigurationError(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeConfiguration,
		Phase:     phase,
		Retryable: false,
		Actions:   []string{ActionOpenSettings},
		Detail:    detail,
	}
}

func ToolUnavailable(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeToolUnavailable,
		Phase:     phase,
		Retryable: true,
		Actions:   []string{ActionInstallTool, ActionRetry},
		Detail:    detail,
	}
}

// CompileFailed carries the compiler's stderr unmodified in Detail.
func CompileFailed(path, diagnostic string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeCompileFailed,
		Phase:     PhaseCompile,
		Retryable: false,
		Actions:   []string{ActionFixSource},
		Path:      path,
		Detail:    diagnostic,
	}
}

func BackendUnreachable(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeBackendUnreachable,
		Phase:     phase,
		Retryable: true,
		Actions:   []string{ActionRetry, ActionOpenSettings},
		Detail:    detail,
	}
}

func BackendError(phase string, status int, detail string) *ErrorInfo {
	info := &ErrorInfo{
		ErrorCode:  CodeBackendError,
		Phase:      phase,
		Retryable:  status >= 500,
		StatusCode: status,
		Detail:     detail,
	}
	if info.Retryable {
		info.Actions = []string{ActionRetry}
	}
	return info
}

func ProtocolError(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeProtocolError,
		Phase:     phase,
		Retryable: false,
		Detail:    detail,
	}
}

func EgressBlocked(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeEgressBlocked,
		Phase:     phase,
		Retryable: false,
		Actions:   []string{ActionOpenSettings},
		Detail:    detail,
	}
}

func ValidationFailed(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeValidationFailed,
		Phase:     phase,
		Retryable: false,
		Detail:    detail,
	}
}

func UserCanceled(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeUserCanceled,
		Phase:     phase,
		Retryable: false,
		Detail:    detail,
	}
}

// Message is the human readable text shown by the frontend.
func (e *ErrorInfo) Message() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return e.Detail
	}
	return e.ErrorCode
}
