package util

import "sync"

// SyncMap is a type-safe sync.Map.
type SyncMap[K comparable, V any] struct {
	mapping sync.Map
}

func cast[V any](v any, ok bool) (V, bool) {
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

func (m *SyncMap[K, V]) Load(key K) (value V, ok bool) {
	return cast[V](m.mapping.Load(key))
}

func (m *SyncMap[K, V]) Store(key K, value V) {
	m.mapping.Store(key, value)
}

func (m *SyncMap[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	v, loaded := m.mapping.LoadOrStore(key, value)
	return v.(V), loaded
}

func (m *SyncMap[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	return cast[V](m.mapping.LoadAndDelete(key))
}

func (m *SyncMap[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	return cast[V](m.mapping.Swap(key, value))
}

func (m *SyncMap[K, V]) Delete(key K) {
	m.mapping.Delete(key)
}

func (m *SyncMap[K, V]) Range(f func(key K, value V) bool) {
	m.mapping.Range(func(k, v any) bool {
		return f(k.(K), v.(V))
	})
}

// Keys returns the keys present at the time of the call, in no order.
func (m *SyncMap[K, V]) Keys() (keys []K) {
	m.Range(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return
}
