package logger

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
)

func TestDispatcherFansOutInRegistrationOrder(t *testing.T) {
	var order []string
	record := func(name string) Backend {
		return BackendFunc(func(Severity, string, Attributes, *Options) {
			order = append(order, name)
		})
	}
	d := NewDispatcher(record("b1"), record("b2"))
	d.Register(record("b3"))

	d.Log(SeverityInfo, "hello", nil, nil)

	want := []string{"b1", "b2", "b3"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestDispatcherPassesSameArguments(t *testing.T) {
	attrs := Attributes{"k": "v"}
	opts := &Options{EventName: "evt"}
	var got []struct {
		sev   Severity
		msg   string
		attrs Attributes
		opts  *Options
	}
	b := BackendFunc(func(sev Severity, msg string, a Attributes, o *Options) {
		got = append(got, struct {
			sev   Severity
			msg   string
			attrs Attributes
			opts  *Options
		}{sev, msg, a, o})
	})
	d := NewDispatcher(b, b)

	d.Log(Severity(11), "msg", attrs, opts)

	if len(got) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(got))
	}
	for _, call := range got {
		if call.sev != 11 || call.msg != "msg" || call.opts != opts || !reflect.DeepEqual(call.attrs, attrs) {
			t.Fatalf("unexpected call %+v", call)
		}
	}
}

func TestDispatcherIsolatesPanickingBackend(t *testing.T) {
	var calledB3 bool
	d := NewDispatcher(
		BackendFunc(func(Severity, string, Attributes, *Options) {}),
		BackendFunc(func(Severity, string, Attributes, *Options) { panic("b2 failed") }),
		BackendFunc(func(Severity, string, Attributes, *Options) { calledB3 = true }),
	)

	d.Error("boom", nil, nil)

	if !calledB3 {
		t.Fatal("expected backend after the panicking one to be invoked")
	}
}

func TestDispatcherLeveledHelpers(t *testing.T) {
	var got []Severity
	d := NewDispatcher(BackendFunc(func(sev Severity, _ string, _ Attributes, _ *Options) {
		got = append(got, sev)
	}))

	d.Debug("d", nil, nil)
	d.Info("i", nil, nil)
	d.Warn("w", nil, nil)
	d.Error("e", nil, nil)

	want := []Severity{5, 9, 13, 17}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("severities = %v, want %v", got, want)
	}
}

func TestDispatcherEmptyAndNilAreNoops(t *testing.T) {
	NewDispatcher().Info("nothing", Attributes{"a": 1}, nil)

	var d *Dispatcher
	d.Register(BackendFunc(func(Severity, string, Attributes, *Options) {}))
	d.Error("nothing", nil, nil)
	if got := d.Backends(); len(got) != 0 {
		t.Fatalf("expected no backends on nil dispatcher, got %d", len(got))
	}
}

func TestDispatcherRegisterIgnoresNil(t *testing.T) {
	d := NewDispatcher(nil)
	d.Register(nil)
	if got := len(d.Backends()); got != 0 {
		t.Fatalf("expected empty registry, got %d", got)
	}
}

func TestDispatcherBackendsReturnsCopy(t *testing.T) {
	b := BackendFunc(func(Severity, string, Attributes, *Options) {})
	d := NewDispatcher(b)
	list := d.Backends()
	list[0] = nil
	if d.Backends()[0] == nil {
		t.Fatal("mutating the returned slice changed the registry")
	}
}

func TestDispatcherConcurrentRegisterAndLog(t *testing.T) {
	d := NewDispatcher()
	var calls atomic.Int32
	b := BackendFunc(func(Severity, string, Attributes, *Options) {
		calls.Add(1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.Register(b)
		}()
		go func() {
			defer wg.Done()
			d.Info("concurrent", nil, nil)
		}()
	}
	wg.Wait()

	if got := len(d.Backends()); got != 8 {
		t.Fatalf("expected 8 backends, got %d", got)
	}
	before := calls.Load()
	d.Info("after", nil, nil)
	if got := calls.Load() - before; got != 8 {
		t.Fatalf("expected 8 invocations after registration, got %d", got)
	}
}
