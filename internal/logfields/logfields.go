package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPageID     = "page_id"
	KeyPhase      = "phase"
	KeyDurationMS = "duration_ms"
	KeyURL        = "url"
	KeyPath       = "path"
	KeySection    = "section"
	KeyBlock      = "block"
	KeyIcon       = "icon"
	KeyModule     = "module"
	KeyCategory   = "category"
	KeyStatus     = "status"
	KeyMethod     = "method"
	KeyFile       = "file"
	KeyError      = "error"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeyRequestID  = "request_id"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func PageID(id string) slog.Attr      { return slog.String(KeyPageID, id) }
func Phase(name string) slog.Attr     { return slog.String(KeyPhase, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Block(name string) slog.Attr     { return slog.String(KeyBlock, name) }
func Icon(src string) slog.Attr       { return slog.String(KeyIcon, src) }
func Module(src string) slog.Attr     { return slog.String(KeyModule, src) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
