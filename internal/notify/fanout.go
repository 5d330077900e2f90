package notify

import (
	"context"
	"errors"
)

// Fanout publishes each event to every sink and joins their errors.
type Fanout []Sink

// Publish implements Sink.
func (f Fanout) Publish(ctx context.Context, topic string, ev Event) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Publish(ctx, topic, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
