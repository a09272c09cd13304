package settings

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/google/uuid"

	"killick/pkg/logging"
	"killick/pkg/metrics"
)

// Listener is notified with the new value whenever its setting changes.
// Implementations used with AddListener should be comparable (pointer
// receivers) so that registering the same listener twice is detected.
type Listener interface {
	SettingChanged(value string) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(value string) error

// SettingChanged implements Listener.
func (f ListenerFunc) SettingChanged(value string) error { return f(value) }

// Subscription is the handle returned by AddListener and OnChange.
type Subscription struct {
	id       string
	name     string
	listener Listener
	onAny    func(name, value string) // set for OnAnyChange subscriptions
	store    *Store
}

// ID returns the unique id of the subscription.
func (s *Subscription) ID() string { return s.id }

// Name returns the setting the subscription listens to, "" for OnAnyChange.
func (s *Subscription) Name() string { return s.name }

// Unsubscribe removes the subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.store != nil {
		s.store.RemoveListener(s.name, s)
	}
}

// AddListener registers l for changes of name. If the same listener is
// already registered for name, its existing subscription is returned.
func (s *Store) AddListener(name string, l Listener) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.listeners[name] {
		if sameListener(sub.listener, l) {
			return sub
		}
	}

	sub := &Subscription{
		id:       uuid.NewString(),
		name:     name,
		listener: l,
		store:    s,
	}
	s.listeners[name] = append(s.listeners[name], sub)
	logging.TraceDefault("Settings: listener added", "name", name, "subscription", sub.id)
	return sub
}

// OnChange registers fn for changes of name. Every call creates a new
// subscription; keep the handle to remove it.
func (s *Store) OnChange(name string, fn func(value string)) *Subscription {
	return s.AddListener(name, ListenerFunc(func(value string) error {
		fn(value)
		return nil
	}))
}

// OnAnyChange registers fn for every setting, including names first set
// after registration. It runs after the listeners of the changed name.
func (s *Store) OnAnyChange(fn func(name, value string)) *Subscription {
	sub := &Subscription{
		id:    uuid.NewString(),
		onAny: fn,
		store: s,
	}

	s.mu.Lock()
	s.wildcard = append(s.wildcard, sub)
	s.mu.Unlock()

	logging.TraceDefault("Settings: wildcard listener added", "subscription", sub.id)
	return sub
}

// RemoveListener removes sub from name. Unknown handles are ignored.
func (s *Store) RemoveListener(name string, sub *Subscription) {
	if sub == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.onAny != nil {
		if idx := slices.Index(s.wildcard, sub); idx >= 0 {
			s.wildcard = slices.Delete(slices.Clone(s.wildcard), idx, idx+1)
		}
		return
	}

	subs := s.listeners[name]
	idx := slices.Index(subs, sub)
	if idx < 0 {
		return
	}
	subs = slices.Delete(slices.Clone(subs), idx, idx+1)
	if len(subs) == 0 {
		delete(s.listeners, name)
	} else {
		s.listeners[name] = subs
	}
	logging.TraceDefault("Settings: listener removed", "name", name, "subscription", sub.id)
}

// ListenerCount returns the number of listeners registered for name.
func (s *Store) ListenerCount(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners[name])
}

// notify runs every listener for name in registration order. The lock is not
// held so listeners may call back into the store.
func (s *Store) notify(name, value string) {
	s.mu.RLock()
	subs := slices.Concat(s.listeners[name], s.wildcard)
	s.mu.RUnlock()

	for _, sub := range subs {
		if err := s.deliver(sub, name, value); err != nil {
			metrics.SettingsListenerFailures.Inc()
			s.logger.Error("Error in settings listener", "name", name, "subscription", sub.id, "error", err)
		}
	}
}

func (s *Store) deliver(sub *Subscription, name, value string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	if sub.onAny != nil {
		sub.onAny(name, value)
		return nil
	}
	return sub.listener.SettingChanged(value)
}

func sameListener(a, b Listener) bool {
	ta := reflect.TypeOf(a)
	if ta == nil || ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
