// Package animate はプロフィール項目の変更検知とフェード遷移を扱います。
//
// Subject が現在値と購読者を保持し、値が変わるたびに購読者へ同期的に通知します。
// Fader は待機中（フェードイン表示）と遷移中（フェードアウト表示）の2状態を
// タイマーで切り替える状態機械です。
package animate

import "sync"

// Listener は値の変更通知を受け取る関数です
type Listener[T comparable] func(old, new T)

// Subject は現在値と購読者の一覧を保持します
type Subject[T comparable] struct {
	mu        sync.Mutex
	value     T
	nextID    int
	listeners map[int]Listener[T]
	order     []int
}

// NewSubject は初期値を持つSubjectを作成します
func NewSubject[T comparable](initial T) *Subject[T] {
	return &Subject[T]{
		value:     initial,
		listeners: make(map[int]Listener[T]),
	}
}

// Value は現在値を返します
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Subscribe は購読者を登録し、登録解除用の関数を返します
func (s *Subject[T]) Subscribe(l Listener[T]) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Set は値を更新します。値が変わった場合のみ、登録順に各購読者へ1回ずつ通知し、trueを返します
// 通知はロックの外で行うため、購読者の中からSetを呼んでもデッドロックしません
func (s *Subject[T]) Set(v T) bool {
	s.mu.Lock()
	if s.value == v {
		s.mu.Unlock()
		return false
	}
	old := s.value
	s.value = v
	targets := make([]Listener[T], 0, len(s.order))
	for _, id := range s.order {
		targets = append(targets, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range targets {
		l(old, v)
	}
	return true
}
