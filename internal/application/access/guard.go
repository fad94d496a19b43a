// Package access decide, a partir de la ruta y la sesión, si una petición
// navegada por el navegador pasa o se redirige. No escribe nada.
package access

import (
	"context"
	"net/url"
	"strings"

	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
	"github.com/jhoicas/studio-portal/pkg/logger"
)

// Destinos de redirección observables por el usuario.
const (
	LoginPath        = "/login"
	AdminHome        = "/admin"
	PortalHome       = "/portal"
	AccessDeniedPath = "/portal-access-denied"
	CallbackParam    = "callbackUrl"
)

// Area zona protegida a la que pertenece una ruta.
type Area int

const (
	AreaPublic Area = iota
	AreaAdmin
	AreaPortal
)

// Decision resultado del guard. Redirect vacío = dejar pasar.
type Decision struct {
	Redirect string
}

// Allowed informa si la petición continúa sin redirección.
func (d Decision) Allowed() bool { return d.Redirect == "" }

// Guard aplica las reglas de acceso de /admin y /portal.
type Guard struct {
	leads repository.LeadExistenceChecker
	log   *logger.Logger
}

// NewGuard construye el guard. leads responde si el email de un cliente tiene Lead.
func NewGuard(leads repository.LeadExistenceChecker, log *logger.Logger) *Guard {
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{leads: leads, log: log.Component("route_guard")}
}

// AreaOf clasifica la ruta por segmentos: "/portal-access-denied" no es portal.
// Sin distinguir mayúsculas: "/PORTAL/x" es portal aunque el router no enrute así.
func AreaOf(path string) Area {
	path = strings.ToLower(path)
	switch {
	case hasSegmentPrefix(path, AdminHome):
		return AreaAdmin
	case hasSegmentPrefix(path, PortalHome):
		return AreaPortal
	default:
		return AreaPublic
	}
}

// Decide evalúa la petición. requestURI es la ruta original (con query), que se
// conserva como callback al mandar al login. session nil = no autenticado.
func (g *Guard) Decide(ctx context.Context, requestURI string, session *auth.Session) Decision {
	path := requestURI
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	area := AreaOf(path)
	if area == AreaPublic {
		return Decision{}
	}
	if session == nil {
		return Decision{Redirect: LoginURL(requestURI)}
	}

	switch area {
	case AreaAdmin:
		if session.Role != entity.RoleAdmin {
			return Decision{Redirect: PortalHome}
		}
	case AreaPortal:
		if session.Role == entity.RoleAdmin {
			return Decision{Redirect: AdminHome}
		}
		exists, err := g.leads.ExistsByEmail(ctx, auth.NormalizeEmail(session.Email))
		if err != nil {
			// La página falla cerrada por sí misma si sus datos no están disponibles.
			g.log.Warn().Err(err).Str("path", path).Str("user_id", session.UserID).
				Msg("no se pudo verificar el lead; se deja pasar")
			return Decision{}
		}
		if !exists {
			return Decision{Redirect: AccessDeniedPath}
		}
	}
	return Decision{}
}

// LoginURL arma /login?callbackUrl=<original> sin escapar las barras de la ruta.
func LoginURL(original string) string {
	segments := strings.Split(original, "/")
	for i, s := range segments {
		segments[i] = url.QueryEscape(s)
	}
	return LoginPath + "?" + CallbackParam + "=" + strings.Join(segments, "/")
}

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
