package animate

import (
	"sync"
	"time"
)

// DefaultTransition はフェードアウトにかける時間です
const DefaultTransition = 400 * time.Millisecond

// Phase はアニメーションの状態です
type Phase int

const (
	// PhaseIdle は新しい値を表示している状態です（描画側ではフェードイン）
	PhaseIdle Phase = iota
	// PhaseTransitioning は古い値をフェードアウトしている状態です
	PhaseTransitioning
)

// String は描画側が使う名前を返します
func (p Phase) String() string {
	if p == PhaseTransitioning {
		return "fadeOut"
	}
	return "fadeIn"
}

// Timer は停止可能なタイマーです
type Timer interface {
	Stop() bool
}

// Scheduler は遅延実行を抽象化します（テスト用）
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Fader はフェード遷移の状態機械です
type Fader struct {
	mu        sync.Mutex
	phase     Phase
	duration  time.Duration
	scheduler Scheduler
	timer     Timer
	pending   func()
	seq       uint64
	onPhase   func(Phase)
}

// FaderOption はFaderの任意設定です
type FaderOption func(*Fader)

// WithDuration は遷移時間を設定します
func WithDuration(d time.Duration) FaderOption {
	return func(f *Fader) { f.duration = d }
}

// WithScheduler はタイマーの実装を差し替えます
func WithScheduler(s Scheduler) FaderOption {
	return func(f *Fader) { f.scheduler = s }
}

// OnPhase は状態が変わるたびに呼ばれる関数を設定します
func OnPhase(fn func(Phase)) FaderOption {
	return func(f *Fader) { f.onPhase = fn }
}

// NewFader はPhaseIdleから始まるFaderを作成します
func NewFader(opts ...FaderOption) *Fader {
	f := &Fader{
		phase:     PhaseIdle,
		duration:  DefaultTransition,
		scheduler: realScheduler{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Phase は現在の状態を返します
func (f *Fader) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Trigger はフェードアウトを開始し、遷移時間の経過後に apply を実行してPhaseIdleに戻ります
// 遷移中に呼ばれた場合は、保留中の apply を即座に実行してからタイマーをやり直します
func (f *Fader) Trigger(apply func()) {
	f.mu.Lock()
	flushed := f.takePendingLocked()
	wasIdle := f.phase == PhaseIdle
	f.phase = PhaseTransitioning
	f.pending = apply
	f.seq++
	seq := f.seq
	f.timer = f.scheduler.AfterFunc(f.duration, func() { f.finish(seq) })
	f.mu.Unlock()

	if flushed != nil {
		flushed()
	}
	if wasIdle {
		f.notify(PhaseTransitioning)
	}
}

// Stop は遷移を打ち切ります。保留中の apply があれば実行し、PhaseIdleに戻ります
func (f *Fader) Stop() {
	f.mu.Lock()
	flushed := f.takePendingLocked()
	wasTransitioning := f.phase == PhaseTransitioning
	f.phase = PhaseIdle
	f.seq++
	f.mu.Unlock()

	if flushed != nil {
		flushed()
	}
	if wasTransitioning {
		f.notify(PhaseIdle)
	}
}

// takePendingLocked はタイマーを止め、保留中の apply を取り出します
func (f *Fader) takePendingLocked() func() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	p := f.pending
	f.pending = nil
	return p
}

func (f *Fader) finish(seq uint64) {
	f.mu.Lock()
	// 古いタイマーからの呼び出しは無視する
	if seq != f.seq || f.phase != PhaseTransitioning {
		f.mu.Unlock()
		return
	}
	apply := f.pending
	f.pending = nil
	f.timer = nil
	f.phase = PhaseIdle
	f.mu.Unlock()

	if apply != nil {
		apply()
	}
	f.notify(PhaseIdle)
}

func (f *Fader) notify(p Phase) {
	if f.onPhase != nil {
		f.onPhase(p)
	}
}

// Bind はSubjectの変更ごとにFaderを起動し、遷移後に apply を新しい値で呼びます
// 戻り値で購読を解除できます
func Bind[T comparable](s *Subject[T], f *Fader, apply func(T)) (unbind func()) {
	return s.Subscribe(func(_, v T) {
		f.Trigger(func() { apply(v) })
	})
}
