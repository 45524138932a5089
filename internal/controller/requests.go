package controller

// Request registry context types: each is the value stored under an
// outbound request's seq via transport.SendRequest, and recovered by the
// matching response handler via transport.TakeRequest. These replace the
// callback plumbing a generic RPC client would need — the response
// handler already knows what triggered it without inspecting the
// response body.

type stackTraceCtx struct {
	ThreadID int
}

type scopesCtx struct {
	FrameID int
}

type variablesCtx struct {
	Ref int
}

type setBreakpointsCtx struct {
	SourcePath string
}
