package persistence

import (
	"time"

	"github.com/minhloc/listquery/core/query"
)

func createEvent(
	eventType PersistenceEventType,
	operation string,
	collectionName string,
	input any,
	output any,
	q *query.QueryDSL,
	err error,
	startTime time.Time,
) PersistenceEvent {
	var duration *int64
	if !startTime.IsZero() {
		d := time.Since(startTime).Milliseconds()
		duration = &d
	}

	var errStr *string
	if err != nil {
		s := err.Error()
		errStr = &s
	}

	return PersistenceEvent{
		Type:       eventType,
		Timestamp:  time.Now().UnixMilli(),
		Operation:  operation,
		Collection: collectionName,
		Input:      input,
		Output:     output,
		Error:      errStr,
		Query:      q,
		Duration:   duration,
	}
}
