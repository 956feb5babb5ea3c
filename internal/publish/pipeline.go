// internal/publish/pipeline.go
//
// The publish pipeline: assemble → persist → promote.
//
// Context
// -------
// Publish is atomic from the visitor's point of view.  The document is
// assembled in memory, inserted with is_live = 0, and committed; only then
// does a second transaction clear every other live flag for the site and
// set the new one.  A failure before the flip leaves the previous live
// deployment serving untouched; a failure during assembly writes nothing at
// all.  Visitors can never be routed to a half-written document because a
// deployment only becomes visible to reads after its row is fully
// committed.
//
// Assembly fans out one block query per page through an errgroup; pages of
// a site are independent reads, and large sites are page-heavy.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package publish

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/stanza/internal/content"
	"github.com/yanizio/stanza/internal/metrics"
)

// assembleConcurrency caps the per-page block-query fan-out.
const assembleConcurrency = 8

// ErrNoLiveDeployment marks a site that has never been published (or whose
// deployments were all demoted).  The serving layer renders a placeholder
// for it; it is not a failure.
var ErrNoLiveDeployment = errors.New("publish: no live deployment")

// Pipeline builds and promotes deployments.
type Pipeline struct {
	db    *sqlx.DB
	store *content.Store
}

// NewPipeline wires the pipeline to the shared pool and content store.
func NewPipeline(db *sqlx.DB, store *content.Store) *Pipeline {
	return &Pipeline{db: db, store: store}
}

// Publish assembles the site's current tree into a new Deployment and
// promotes it to live.  An empty site (even zero visible pages) publishes
// fine; only a missing site fails, with zero rows written.
func (p *Pipeline) Publish(ctx context.Context, tenantID, siteID uint64, actor string) (*Deployment, error) {
	dep, err := p.publish(ctx, tenantID, siteID, actor)
	if err != nil {
		metrics.PublishErrorsTotal.Inc()
		return nil, err
	}
	metrics.PublishTotal.Inc()
	return dep, nil
}

func (p *Pipeline) publish(ctx context.Context, tenantID, siteID uint64, actor string) (*Deployment, error) {
	site, err := p.store.SiteByID(ctx, tenantID, siteID)
	if err != nil {
		return nil, err
	}
	snap, err := p.Assemble(ctx, tenantID, site)
	if err != nil {
		return nil, err
	}

	// Persist first, promote second.  The insert commits on its own so the
	// flip below only ever points reads at a fully durable row.
	res, err := p.db.ExecContext(ctx, `
	    INSERT INTO deployment (site_id, snapshot, is_live, deployed_by)
	    VALUES (?, ?, FALSE, ?)`,
		siteID, *snap, actor)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := p.promote(ctx, siteID, uint64(id)); err != nil {
		return nil, fmt.Errorf("deployment %d persisted but not promoted; previous live deployment still serves: %w", id, err)
	}
	return p.deploymentByID(ctx, tenantID, uint64(id))
}

// promote flips the live flag in one transaction: clear all, set one, stamp
// the site.  All-or-nothing, so there is never a moment with two live rows.
func (p *Pipeline) promote(ctx context.Context, siteID, deploymentID uint64) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE deployment SET is_live = FALSE WHERE site_id = ? AND is_live = TRUE`, siteID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE deployment SET is_live = TRUE WHERE id = ?`, deploymentID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE site SET status = ?, last_deployed_at = NOW() WHERE id = ?`,
		content.SitePublished, siteID); err != nil {
		return err
	}
	return tx.Commit()
}

// Assemble builds the snapshot document from the live tree: non-hidden
// pages in navigation order, each with its visible blocks in key order.
// Locked blocks publish like any other; locking restricts editing, not
// publication.  Also used directly by the preview path.
func (p *Pipeline) Assemble(ctx context.Context, tenantID uint64, site *content.Site) (*SiteSnapshot, error) {
	pages, err := p.store.ListPages(ctx, tenantID, site.ID)
	if err != nil {
		return nil, err
	}

	included := make([]content.Page, 0, len(pages))
	for _, pg := range pages {
		if pg.Status != content.PageHidden {
			included = append(included, pg)
		}
	}

	blocksByPage := make([][]content.Block, len(included))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(assembleConcurrency)
	for i, pg := range included {
		i, pg := i, pg
		g.Go(func() error {
			blocks, err := p.store.ListBlocks(gctx, tenantID, pg.ID)
			if err != nil {
				return err
			}
			blocksByPage[i] = blocks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buildSnapshot(site, included, blocksByPage), nil
}

// buildSnapshot is the pure assembly step: no I/O, fully deterministic.
func buildSnapshot(site *content.Site, pages []content.Page, blocksByPage [][]content.Block) *SiteSnapshot {
	snap := &SiteSnapshot{
		SiteID:    site.ID,
		Name:      site.Name,
		Subdomain: site.Subdomain,
		Branding: Branding{
			PrimaryColor:   site.PrimaryColor,
			SecondaryColor: site.SecondaryColor,
			AccentColor:    site.AccentColor,
			HeadingFont:    site.HeadingFont,
			BodyFont:       site.BodyFont,
		},
		SEOTitle:       site.SEOTitle,
		SEODescription: site.SEODescription,
		FaviconURL:     site.FaviconURL,
		Pages:          make([]PageSnapshot, 0, len(pages)),
	}

	for i, pg := range pages {
		ps := PageSnapshot{
			PageID:         pg.ID,
			Title:          pg.Title,
			Slug:           pg.Slug,
			IsHome:         pg.IsHome,
			ShowInNav:      pg.ShowInNav,
			NavLabel:       pg.NavLabel,
			NavOrder:       pg.NavOrder,
			SEOTitle:       pg.SEOTitle,
			SEODescription: pg.SEODescription,
			Blocks:         make([]BlockSnapshot, 0, len(blocksByPage[i])),
		}
		for _, b := range blocksByPage[i] {
			if !b.IsVisible {
				continue
			}
			ps.Blocks = append(ps.Blocks, BlockSnapshot{
				Kind:  b.Kind,
				Props: b.Props.Clone(),
			})
		}
		snap.Pages = append(snap.Pages, ps)
	}
	return snap
}

// Live returns the site's live deployment for the public serving path,
// which has no tenant in hand; tenant scoping happened when the deployment
// was created.
func (p *Pipeline) Live(ctx context.Context, siteID uint64) (*Deployment, error) {
	const q = `
	    SELECT id, site_id, snapshot, is_live, deployed_by, deployed_at
	    FROM   deployment
	    WHERE  site_id = ? AND is_live = TRUE
	    ORDER  BY id DESC
	    LIMIT  1`
	var rec Deployment
	if err := p.db.GetContext(ctx, &rec, q, siteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoLiveDeployment
		}
		return nil, err
	}
	return &rec, nil
}

// History lists the site's deployments newest-first, without documents.
func (p *Pipeline) History(ctx context.Context, tenantID, siteID uint64) ([]Meta, error) {
	if _, err := p.store.SiteByID(ctx, tenantID, siteID); err != nil {
		return nil, err
	}
	const q = `
	    SELECT d.id, d.site_id, d.is_live, d.deployed_by, d.deployed_at
	    FROM   deployment d
	    JOIN   site s ON s.id = d.site_id
	    WHERE  d.site_id = ? AND s.tenant_id = ?
	    ORDER  BY d.id DESC`
	var rows []Meta
	if err := p.db.SelectContext(ctx, &rows, q, siteID, tenantID); err != nil {
		return nil, err
	}
	return rows, nil
}

// deploymentByID fetches one deployment with its document, tenant-scoped.
func (p *Pipeline) deploymentByID(ctx context.Context, tenantID, id uint64) (*Deployment, error) {
	const q = `
	    SELECT d.id, d.site_id, d.snapshot, d.is_live, d.deployed_by, d.deployed_at
	    FROM   deployment d
	    JOIN   site s ON s.id = d.site_id
	    WHERE  d.id = ? AND s.tenant_id = ?`
	var rec Deployment
	if err := p.db.GetContext(ctx, &rec, q, id, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: deployment %d", content.ErrNotFound, id)
		}
		return nil, err
	}
	return &rec, nil
}
