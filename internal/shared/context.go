package shared

import "context"

type viewerContextKey struct{}

// Viewer identifies the signed-in user behind a request.
type Viewer struct {
	UserID string
}

// ContextWithViewer stores the viewer in context.
func ContextWithViewer(ctx context.Context, v *Viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey{}, v)
}

// ViewerFromContext extracts the viewer from context.
func ViewerFromContext(ctx context.Context) *Viewer {
	v, _ := ctx.Value(viewerContextKey{}).(*Viewer)
	return v
}

// ViewerID returns the signed-in user id or an empty string.
func ViewerID(ctx context.Context) string {
	if v := ViewerFromContext(ctx); v != nil {
		return v.UserID
	}
	return ""
}
