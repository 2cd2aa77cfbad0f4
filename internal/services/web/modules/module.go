// Package modules defines web module registry helpers.
package modules

import (
	module "github.com/sazzer/newlanding/internal/services/web/module"
	"github.com/sazzer/newlanding/internal/services/web/modules/api"
	"github.com/sazzer/newlanding/internal/services/web/modules/publicauth"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries what the default module set needs. Request-scoped
// resolvers live in Shared and are passed to every page-rendering module.
type Dependencies struct {
	Shared module.Dependencies
	Auth   publicauth.Config
	API    api.Config
}
