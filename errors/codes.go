package errors

// ErrorCode is the stable machine-readable code carried by AppError
type ErrorCode int

const (
	ErrorCode_HTTP_OK          ErrorCode = 200
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1003

	ErrorCode_JOB_NOT_FOUND        ErrorCode = 2000
	ErrorCode_JOB_RESULT_NOT_READY ErrorCode = 2001
	ErrorCode_JOB_SUBMIT_FAILED    ErrorCode = 2002

	ErrorCode_VIDEO_UNSUPPORTED_FORMAT ErrorCode = 3000
	ErrorCode_VIDEO_TOO_LARGE          ErrorCode = 3001
	ErrorCode_VIDEO_MISSING_FILE       ErrorCode = 3002
	ErrorCode_VIDEO_NOT_FOUND          ErrorCode = 3003
	ErrorCode_VIDEO_PROBE_FAILED       ErrorCode = 3004

	ErrorCode_PIPELINE_TRANSCRIPTION_FAILED ErrorCode = 4000
	ErrorCode_PIPELINE_SELECTION_FAILED     ErrorCode = 4001
	ErrorCode_PIPELINE_ASSEMBLY_FAILED      ErrorCode = 4002
	ErrorCode_AI_SERVICE_UNAVAILABLE        ErrorCode = 4003

	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 5001
	ErrorCode_DB_QUERY_FAILED            ErrorCode = 5002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                       "HTTP_OK",
	ErrorCode_INTERNAL:                      "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:              "INVALID_ARGUMENT",
	ErrorCode_INVALID_PAYLOAD:               "INVALID_PAYLOAD",
	ErrorCode_JOB_NOT_FOUND:                 "JOB_NOT_FOUND",
	ErrorCode_JOB_RESULT_NOT_READY:          "JOB_RESULT_NOT_READY",
	ErrorCode_JOB_SUBMIT_FAILED:             "JOB_SUBMIT_FAILED",
	ErrorCode_VIDEO_UNSUPPORTED_FORMAT:      "VIDEO_UNSUPPORTED_FORMAT",
	ErrorCode_VIDEO_TOO_LARGE:               "VIDEO_TOO_LARGE",
	ErrorCode_VIDEO_MISSING_FILE:            "VIDEO_MISSING_FILE",
	ErrorCode_VIDEO_NOT_FOUND:               "VIDEO_NOT_FOUND",
	ErrorCode_VIDEO_PROBE_FAILED:            "VIDEO_PROBE_FAILED",
	ErrorCode_PIPELINE_TRANSCRIPTION_FAILED: "PIPELINE_TRANSCRIPTION_FAILED",
	ErrorCode_PIPELINE_SELECTION_FAILED:     "PIPELINE_SELECTION_FAILED",
	ErrorCode_PIPELINE_ASSEMBLY_FAILED:      "PIPELINE_ASSEMBLY_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:        "AI_SERVICE_UNAVAILABLE",
	ErrorCode_INTEGRATION_STORAGE_FAILED:    "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:      "INTEGRATION_CACHE_FAILED",
	ErrorCode_DB_QUERY_FAILED:               "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
