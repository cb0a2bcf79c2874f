package batch

import (
	"errors"
	"fmt"
)

var (
	ErrUnsafeRead    = errors.New("batch: observable read inside a store subscription before pending notifications were published")
	ErrUnknownTarget = errors.New("batch: change reported for an observable this store does not own")
)

// SubscriberPanic is returned in place of a panic raised by a subscriber.
type SubscriberPanic struct {
	Channel string
	Value   any
	Stack   []byte
}

func (p *SubscriberPanic) Error() string {
	return fmt.Sprintf("batch: %s subscriber panicked: %v", p.Channel, p.Value)
}

func (p *SubscriberPanic) Unwrap() error {
	err, _ := p.Value.(error)
	return err
}

func joinErrs(errs ...error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return errors.Join(kept...)
	}
}
