//go:build !windows

package desktop

func platformPersonalizer() Personalizer {
	return nil
}
