package runtime

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/wippyai/starbind/classdb"
	"github.com/wippyai/starbind/errors"
)

// Host is a Go service published to scripts as a singleton. Its exported
// methods, except Namespace, become methods of the singleton.
type Host interface {
	// Namespace returns the global name scripts use, e.g. "Files".
	Namespace() string
}

var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// RegisterHost registers h's type as the abstract class "_" + namespace
// and publishes h under its namespace. h must be a pointer to a struct.
//
//	type Greeter struct{}
//	func (*Greeter) Namespace() string { return "Greeter" }
//	func (*Greeter) Hello(name string) string { return "hello " + name }
//
//	rt.RegisterHost(&Greeter{})   // Greeter.hello("you") in scripts
func (r *Runtime) RegisterHost(h Host) error {
	if r.closed {
		return errors.NotInitialized(errors.PhaseRegistry, "runtime")
	}
	if h == nil {
		return errors.InvalidInput(errors.PhaseRegistry, "host cannot be nil")
	}
	ns := h.Namespace()
	if !identPattern.MatchString(ns) {
		return errors.New(errors.PhaseRegistry, errors.KindInvalidInput).
			Value(ns).
			Detail("host namespace %q is not an identifier", ns).
			Build()
	}

	class := "_" + ns
	err := r.classes.Register(classdb.ClassDef{
		Name:      class,
		Prototype: h,
		Hidden:    []string{"Namespace"},
		Abstract:  true,
	})
	if err != nil {
		return err
	}
	if _, err := r.classes.PublishSingleton(ns, h); err != nil {
		return err
	}

	r.log.Debug("host registered",
		zap.String("namespace", ns),
		zap.String("class", class),
		zap.Int("methods", len(r.classes.MethodList(class, false))))
	return nil
}
