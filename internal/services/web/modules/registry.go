package modules

import (
	"github.com/sazzer/newlanding/internal/services/web/modules/api"
	"github.com/sazzer/newlanding/internal/services/web/modules/public"
	"github.com/sazzer/newlanding/internal/services/web/modules/publicauth"
)

// DefaultModules returns the modules mounted by the web server. The public
// module owns the root prefix and therefore every unmatched path.
func DefaultModules(deps Dependencies) []Module {
	return []Module{
		public.New(deps.Shared),
		publicauth.New(deps.Shared, deps.Auth),
		api.New(deps.API),
	}
}
