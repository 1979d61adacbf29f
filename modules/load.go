package modules

import (
	"slices"

	"github.com/cams7/cadferias/modules/hrm"
	"github.com/cams7/cadferias/pkg/application"
)

var NavLinks = slices.Concat(
	hrm.NavItems,
)

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
