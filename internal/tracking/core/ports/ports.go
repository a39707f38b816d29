package ports

import (
	"context"

	"usage-telemetry-service/internal/tracking/core/domain"
)

// EmissionSink delivers a feedback payload tagged with an event type.
// Fire-and-forget: no result, no acknowledgment, failures stay inside the
// implementation.
type EmissionSink interface {
	Emit(payload any, eventType string)
}

// Source delivers occurrences of T to every subscribed handler.
// Subscriptions are permanent.
type Source[T any] interface {
	Subscribe(handler func(T))
}

// ClientLog receives formatted client errors. Fire-and-forget, like
// EmissionSink.
type ClientLog interface {
	Log(entry domain.LogEntry)
}

// DeveloperConsole keeps the last error shown to a page in developer mode.
type DeveloperConsole interface {
	StoreLastError(notice domain.DeveloperNotice)
	EmitChange()
}

// BucketStore is a persistent string key-value store partitioned by scope
// (one scope per client).
//
//	found = true,  err = nil  -> value is set
//	found = false, err = nil  -> key is absent
//	err != nil                -> storage error
type BucketStore interface {
	GetItem(ctx context.Context, scope, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, scope, key, value string) error
}
