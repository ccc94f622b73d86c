package engine

import "go.uber.org/zap"

// ReportFlags classify an ErrorReport.
type ReportFlags uint32

const (
	ReportError   ReportFlags = 0
	ReportWarning ReportFlags = 1 << 0
	ReportStrict  ReportFlags = 1 << 2
)

func (f ReportFlags) IsWarning() bool { return f&ReportWarning != 0 }

// ErrorReport describes an error or warning raised in a context. Filename
// names the native that raised it when one was running.
type ErrorReport struct {
	Message  string
	Filename string
	Lineno   uint32
	Flags    ReportFlags
}

// ErrorReporter receives reports for a context. It runs on the goroutine
// that triggered the report.
type ErrorReporter func(cx *Context, report *ErrorReport)

func (cx *Context) report(msg string, flags ReportFlags) {
	r := &ErrorReport{
		Message:  msg,
		Filename: cx.current,
		Flags:    flags,
	}
	if cx.reporter == nil {
		Logger().Debug("unreported error",
			zap.String("message", msg),
			zap.String("filename", r.Filename),
			zap.Bool("warning", flags.IsWarning()))
		return
	}
	cx.reporter(cx, r)
}

// ReportError records msg as the pending error of the running call. It is
// delivered to the reporter when the outermost call fails.
func (cx *Context) ReportError(msg string) {
	if cx.depth == 0 {
		cx.report(msg, ReportError)
		return
	}
	if !cx.hasPending {
		cx.pending = msg
		cx.pendingFrom = cx.current
		cx.hasPending = true
	}
}

// ReportWarning reports msg as a warning. Under OptionWerror the warning is
// reported as an error and ReportWarning returns false.
func (cx *Context) ReportWarning(msg string) bool {
	return cx.warn(msg, ReportWarning)
}

func (cx *Context) warn(msg string, flags ReportFlags) bool {
	if cx.options.Has(OptionWerror) {
		cx.ReportError(msg)
		return false
	}
	cx.report(msg, flags)
	return true
}

// IsPendingError reports whether a nested call failed and its error has
// not been delivered yet.
func (cx *Context) IsPendingError() bool { return cx.hasPending }

// ClearPendingError discards the pending error. A native that handles the
// failure of a nested call clears it so a later failure is reported under
// its own message.
func (cx *Context) ClearPendingError() {
	cx.pending, cx.pendingFrom, cx.hasPending = "", "", false
}

// flushPending hands the pending error to the reporter once no call is
// running.
func (cx *Context) flushPending() {
	if cx.depth > 0 || !cx.hasPending {
		return
	}
	msg, from := cx.pending, cx.pendingFrom
	cx.ClearPendingError()

	prev := cx.current
	cx.current = from
	cx.report(msg, ReportError)
	cx.current = prev
}
