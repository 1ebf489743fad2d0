package module

import "reflect"

// PortsOf pulls an interface T out of a module's Ports() bundle
// the bundle may implement T itself or carry it in an exported field, pointers to structs included
func PortsOf[T any](m Module) (t T, ok bool) {
	p := m.Ports()
	if p == nil {
		return t, false
	}
	if v, hit := p.(T); hit {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return t, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return t, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, hit := f.Interface().(T); hit {
			return v, true
		}
	}
	return t, false
}

// MustPortsOf panics when the module does not offer T
func MustPortsOf[T any](m Module) T {
	if v, ok := PortsOf[T](m); ok {
		return v
	}
	panic("module: requested port not found on module " + m.Name())
}
