package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// RequestIDKey gin 上下文和响应头里的请求 ID
const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)
