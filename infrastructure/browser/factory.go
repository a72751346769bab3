package browser

import (
	"fmt"

	"ui_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Backends lists the names NewSession accepts
var Backends = []string{BackendPlaywright, BackendChromedp, BackendRod, BackendSelenium, BackendSimulated}

// NewSession - opens a session on the named backend
func NewSession(backend string, opts Options, logger *logrus.Logger) (interfaces.Session, error) {
	switch backend {
	case BackendPlaywright:
		return NewPlaywrightController(opts, logger)
	case BackendChromedp:
		c, err := NewChromedpController(opts, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRod:
		c, err := NewRodController(opts, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendSelenium:
		c, err := NewSeleniumController(opts, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendSimulated:
		return NewSimulatedDriver(), nil
	default:
		return nil, fmt.Errorf("unknown browser backend %q (want one of %v)", backend, Backends)
	}
}
