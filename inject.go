package geonet

// syntheticPointerEvent represents a single injected pointer event in screen
// coordinates, processed exactly like real mouse input.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
	button           MouseButton
	wheel            float64
}

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed on the next frame's input pass.
func (m *Map) InjectPress(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectMove queues a hover move to the given screen coordinates with no
// button held.
func (m *Map) InjectMove(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		button: MouseButtonLeft,
	})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (m *Map) InjectRelease(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: false,
		button:  MouseButtonLeft,
	})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (m *Map) InjectClick(x, y float64) {
	m.InjectPress(x, y)
	m.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated held moves over frames-2 intermediate frames, and release at
// (toX, toY). Minimum frames is 2.
func (m *Map) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	m.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		m.injectQueue = append(m.injectQueue, syntheticPointerEvent{
			screenX: fromX + (toX-fromX)*t,
			screenY: fromY + (toY-fromY)*t,
			pressed: true,
			button:  MouseButtonLeft,
		})
	}
	m.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel notch of dy at the given screen coordinates.
func (m *Map) InjectWheel(x, y, dy float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		button: MouseButtonLeft,
		wheel:  dy,
	})
}

// processInjectedInput pops one event from the inject queue and feeds it
// through the pointer state machine. Returns true if an event was consumed
// (real mouse input is skipped for the frame).
func (m *Map) processInjectedInput() bool {
	if len(m.injectQueue) == 0 {
		return false
	}
	evt := m.injectQueue[0]
	copy(m.injectQueue, m.injectQueue[1:])
	m.injectQueue = m.injectQueue[:len(m.injectQueue)-1]

	m.processPointer(evt.screenX, evt.screenY, evt.pressed, evt.button)
	m.processWheel(evt.screenX, evt.screenY, evt.wheel)
	return true
}
