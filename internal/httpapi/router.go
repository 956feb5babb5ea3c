// internal/httpapi/router.go
//
// Route table and request identity.
//
// Context
// -------
// Two surfaces share one listener.  The admin API under /api is reached
// through the platform gateway, which authenticates the session and
// forwards the tenant and user as headers; handlers trust those headers
// and re-scope every query by tenant ID.  Everything else is the public
// surface: any Host that resolves to a site serves that site's live
// deployment.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/stanza/internal/cache"
	"github.com/yanizio/stanza/internal/content"
	"github.com/yanizio/stanza/internal/middleware"
	"github.com/yanizio/stanza/internal/publish"
	"github.com/yanizio/stanza/internal/requestinfo"
	"github.com/yanizio/stanza/internal/version"
)

// Gateway identity headers.
const (
	headerTenant = "X-Tenant-ID"
	headerUser   = "X-User-ID"
)

var errMissingIdentity = errors.New("httpapi: missing gateway identity")

// API aggregates the engine's services behind HTTP handlers.
type API struct {
	db       *sqlx.DB
	store    *content.Store
	versions *version.Manager
	pipeline *publish.Pipeline
	live     *publish.LiveCache
	pages    *cache.LRU // rendered HTML keyed deploymentID:path

	baseDomain    string
	retainDefault int
}

// Options configures the API.
type Options struct {
	DB            *sqlx.DB
	Store         *content.Store
	Versions      *version.Manager
	Pipeline      *publish.Pipeline
	Live          *publish.LiveCache
	BaseDomain    string // e.g. "sites.example.com"
	RetainDefault int    // version history depth when the plan lookup is absent
	PageCacheSize int
}

// New wires the API.
func New(opts Options) *API {
	size := opts.PageCacheSize
	if size <= 0 {
		size = 4096
	}
	return &API{
		db:            opts.DB,
		store:         opts.Store,
		versions:      opts.Versions,
		pipeline:      opts.Pipeline,
		live:          opts.Live,
		pages:         cache.NewLRU(size),
		baseDomain:    opts.BaseDomain,
		retainDefault: opts.RetainDefault,
	}
}

// Routes builds the chi router for both surfaces.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Security)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", a.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Use(requireIdentity)

		r.Route("/sites", func(r chi.Router) {
			r.Get("/", a.listSites)
			r.Post("/", a.createSite)
			r.Route("/{siteID}", func(r chi.Router) {
				r.Get("/", a.getSite)
				r.Patch("/", a.updateSite)
				r.Delete("/", a.archiveSite)
				r.Post("/publish", a.publishSite)
				r.Get("/deployments", a.listDeployments)
				r.Get("/preview", a.previewSite)
				r.Get("/pages", a.listPages)
				r.Post("/pages", a.createPage)
			})
		})

		r.Route("/pages/{pageID}", func(r chi.Router) {
			r.Get("/", a.getPage)
			r.Patch("/", a.updatePage)
			r.Delete("/", a.deletePage)
			r.Get("/blocks", a.listBlocks)
			r.Post("/blocks", a.createBlock)
			r.Get("/versions", a.listVersions)
			r.Post("/versions", a.createVersion)
			r.Post("/versions/{versionID}/restore", a.restoreVersion)
		})

		r.Route("/blocks/{blockID}", func(r chi.Router) {
			r.Get("/", a.getBlock)
			r.Patch("/", a.updateBlock)
			r.Delete("/", a.deleteBlock)
			r.Post("/move", a.moveBlock)
		})

		r.Get("/versions/{versionID}", a.getVersion)
	})

	// Public surface: everything else serves by Host, with visitor
	// enrichment and the access log.
	public := requestinfo.Enrich(http.HandlerFunc(a.servePublic))
	r.NotFound(public.ServeHTTP)
	return r
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	if err := a.db.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errBody{Error: "db unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireIdentity rejects admin requests missing the gateway headers.
func requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := identity(r); err != nil {
			writeJSON(w, http.StatusUnauthorized, errBody{Error: "missing gateway identity"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// callerID is the authenticated identity the gateway forwarded.
type callerID struct {
	TenantID uint64
	UserID   uint64
}

func (c callerID) actor() string {
	return strconv.FormatUint(c.UserID, 10)
}

func identity(r *http.Request) (callerID, error) {
	tenant, err := strconv.ParseUint(r.Header.Get(headerTenant), 10, 64)
	if err != nil || tenant == 0 {
		return callerID{}, errMissingIdentity
	}
	user, err := strconv.ParseUint(r.Header.Get(headerUser), 10, 64)
	if err != nil || user == 0 {
		return callerID{}, errMissingIdentity
	}
	return callerID{TenantID: tenant, UserID: user}, nil
}

// urlID parses a numeric chi path parameter.
func urlID(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, name), 10, 64)
}
