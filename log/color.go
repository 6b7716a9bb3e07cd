package log

const colorReset = "\033[0m"

// Color returns the ANSI escape sequence used for terminal output of l.
func Color(l LogLevel) string {
	switch l {
	case Debug:
		return "\033[36m"
	case Info:
		return "\033[32m"
	case Warn:
		return "\033[33m"
	case Error, Fatal:
		return "\033[31m"
	default:
		return colorReset
	}
}
