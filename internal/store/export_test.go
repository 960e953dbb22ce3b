package store

var (
	ParseScriptReply         = parseScriptReply
	ErrUnexpectedScriptReply = errUnexpectedScriptReply
)
