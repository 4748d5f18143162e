package api

import (
	"context"
)

type keyType string

const subjectKey keyType = "subject"

// ctxWithSubject records the authenticated token subject on the context
func ctxWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// ctxGetSubject retrieves the authenticated token subject, empty when the
// request was not authenticated
func ctxGetSubject(ctx context.Context) string {
	if value, ok := ctx.Value(subjectKey).(string); ok {
		return value
	}
	return ""
}
