package dispatch

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/gdbind/classdb"
	"github.com/wippyai/gdbind/errors"
)

// RegisterClass adds desc to the registry and announces the class and its
// members to the engine with this dispatcher as instance callbacks. If the
// engine rejects any part the class is withdrawn from both sides.
func (d *Dispatcher) RegisterClass(desc *classdb.ClassDescriptor) (*classdb.ClassDescriptor, error) {
	reg, err := d.registry.Register(desc)
	if err != nil {
		return nil, err
	}
	if err := d.host.RegisterClass(reg.Info(d)); err != nil {
		_ = d.registry.Unregister(reg.Name)
		return nil, errors.Registration(reg.Name, err)
	}

	var errs error
	for _, m := range reg.MethodInfos() {
		errs = multierr.Append(errs, d.host.RegisterMethod(reg.Name, m))
	}
	for _, p := range reg.PropertyBindings() {
		errs = multierr.Append(errs, d.host.RegisterProperty(reg.Name, p))
	}
	for _, s := range reg.SignalInfos() {
		errs = multierr.Append(errs, d.host.RegisterSignal(reg.Name, s))
	}
	if errs != nil {
		_ = d.host.UnregisterClass(reg.Name)
		_ = d.registry.Unregister(reg.Name)
		return nil, errors.Registration(reg.Name, errs)
	}

	Logger().Debug("class registered",
		zap.String("class", reg.Name),
		zap.String("parent", reg.Parent),
		zap.Int("methods", len(reg.Methods)),
		zap.Int("properties", len(reg.Properties)),
		zap.Int("signals", len(reg.Signals)))
	return reg, nil
}

// UnregisterClass withdraws a class from the engine and the registry. Binds
// issued for it become stale.
func (d *Dispatcher) UnregisterClass(name string) error {
	if !d.registry.Has(name) {
		return errors.NotFound(errors.PhaseRegister, "class", name)
	}
	if err := d.host.UnregisterClass(name); err != nil {
		return errors.Registration(name, err)
	}
	if err := d.registry.Unregister(name); err != nil {
		return err
	}
	Logger().Debug("class unregistered", zap.String("class", name))
	return nil
}
