package utils

import "context"

// IsCanceled reports whether the context has been canceled or timed out.
func IsCanceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
