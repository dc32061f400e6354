// Package params holds the synth parameter table and the live value of each
// parameter.
//
// An Adjustment is the only place a parameter value is stored. Sliders in the
// window and messages from the host both write through SetValue, and every
// interested party (the slider, the outbound host link) listens for changes.
// Listeners run synchronously on the caller's goroutine, which in the running
// program is always the GUI goroutine. Adjustments are not safe for
// concurrent use.
package params

// ChangeFunc is called after an adjustment's value changed.
type ChangeFunc func(a *Adjustment, value float64)

// Adjustment is a bounded value with change listeners.
type Adjustment struct {
	Parameter

	value     float64
	listeners []ChangeFunc
}

// NewAdjustment creates an adjustment holding the parameter's default value.
func NewAdjustment(p Parameter) *Adjustment {
	return &Adjustment{Parameter: p, value: p.Default}
}

// NewAdjustments creates one adjustment per catalog entry, in index order.
func NewAdjustments(c *Catalog) []*Adjustment {
	adjs := make([]*Adjustment, c.Len())
	for i, p := range c.Parameters {
		adjs[i] = NewAdjustment(p)
	}
	return adjs
}

// Value returns the current value.
func (a *Adjustment) Value() float64 {
	return a.value
}

// SetValue clamps v to the parameter bounds and stores it. Listeners are only
// notified when the stored value actually changes.
func (a *Adjustment) SetValue(v float64) {
	v = a.clamp(v)
	if a.value == v {
		return
	}
	a.value = v

	for _, fn := range a.listeners {
		fn(a, v)
	}
}

// OnChanged registers a listener.
func (a *Adjustment) OnChanged(fn ChangeFunc) {
	a.listeners = append(a.listeners, fn)
}

func (a *Adjustment) clamp(v float64) float64 {
	if v < a.Lower {
		return a.Lower
	}
	if v > a.Upper {
		return a.Upper
	}
	return v
}
