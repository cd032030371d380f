package video

import "testing"

var benchStateResult State

func BenchmarkMachineCycle(b *testing.B) {
	var m machine
	for i := 0; i < b.N; i++ {
		m.transition(StateIdle, StateStarting)
		m.transition(StateStarting, StateRunning)
		m.transition(StateRunning, StateStopping)
		m.transition(StateStopping, StateIdle)
	}
	benchStateResult = m.state()
}

func BenchmarkStartStop(b *testing.B) {
	ws := newFakeWindowSystem()
	v := New(ws, ContextOn(RenderThread))
	app := windowedApp()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := v.Start(app); err != nil {
			b.Fatal(err)
		}
		if err := v.Stop(); err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()
	if err := v.Shutdown(); err != nil {
		b.Fatal(err)
	}
}
