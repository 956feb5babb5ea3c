// internal/config/model.go
//
// Typed configuration model for Stanza.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `STANZA_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client after unmarshalling, so downstream code never
// sees Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host, port,
// or flags without touching Vault; it must contain exactly one %s verb
// where the password goes.  The *secret* (`Password`) is stored in Vault
// and injected at runtime, keeping credentials out of flat files and git
// history.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required,contains=%s"`
	Password string `koanf:"password" validate:"required"`
}

//
// Serve section
//

// Serve holds the public serving surface tunables.
type Serve struct {
	BaseDomain    string `koanf:"base_domain" validate:"required,fqdn"`
	PageCacheSize int    `koanf:"page_cache_size"`
	LiveTTLSec    int    `koanf:"live_ttl_sec"`
	LiveMaxSites  int    `koanf:"live_max_sites"`
}

//
// Versions section
//

// Versions holds history-retention tunables.  RetainDefault bounds how many
// snapshots a page keeps when no per-plan limit is supplied.
type Versions struct {
	RetainDefault int `koanf:"retain_default" validate:"required,min=1"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or STANZA_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // STANZA_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Serve    Serve    `koanf:"serve"`
	Versions Versions `koanf:"versions"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
