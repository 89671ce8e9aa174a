package testutil

import (
	"net/http"

	id "refcert/pkg/domain"
	"refcert/pkg/requestcontext"
)

// WithReferee stamps a referee ID on the request context, simulating what
// the auth middleware does for an authenticated request.
func WithReferee(req *http.Request, refereeID id.RefereeID) *http.Request {
	return req.WithContext(requestcontext.WithRefereeID(req.Context(), refereeID))
}

// WithRequestID stamps a request ID on the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
