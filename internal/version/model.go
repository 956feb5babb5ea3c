// internal/version/model.go
//
// Version rows and the snapshot document.
//
// A Version is an immutable, denormalised copy of one page's ordered block
// list.  The document stores values, never references: mutating or deleting
// the live blocks afterwards cannot change a snapshot already taken.
package version

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yanizio/stanza/internal/content"
)

// Trigger records why a snapshot was taken.
type Trigger string

const (
	TriggerManual     Trigger = "manual"
	TriggerAuto       Trigger = "auto"
	TriggerPreAI      Trigger = "pre_ai"
	TriggerPreRestore Trigger = "pre_restore"
	TriggerPrePublish Trigger = "pre_publish"
)

// KnownTrigger reports whether t is a declared trigger value.  The column
// is an ENUM, so anything else would only fail at insert time.
func KnownTrigger(t Trigger) bool {
	switch t {
	case TriggerManual, TriggerAuto, TriggerPreAI, TriggerPreRestore, TriggerPrePublish:
		return true
	}
	return false
}

// Version mirrors one row in `page_version`.  Snapshot is only populated by
// Get; listings leave it nil because documents can be large.
type Version struct {
	ID       uint64      `db:"id"`
	PageID   uint64      `db:"page_id"`
	Label    string      `db:"label"`
	Trigger  Trigger     `db:"trigger"`
	SavedBy  string      `db:"saved_by"`
	SavedAt  time.Time   `db:"saved_at"`
	Snapshot SnapshotDoc `db:"content_snapshot"`
}

// Meta is the listing shape: everything except the document body.
type Meta struct {
	ID      uint64    `db:"id"`
	PageID  uint64    `db:"page_id"`
	Label   string    `db:"label"`
	Trigger Trigger   `db:"trigger"`
	SavedBy string    `db:"saved_by"`
	SavedAt time.Time `db:"saved_at"`
}

// BlockSnapshot is one denormalised block inside a snapshot document.
type BlockSnapshot struct {
	Kind      string        `json:"kind"`
	Props     content.Props `json:"props"`
	OrderKey  string        `json:"order_key"`
	IsVisible bool          `json:"is_visible"`
	IsLocked  bool          `json:"is_locked"`
}

// SnapshotDoc is the ordered block list as stored in the JSON column.
type SnapshotDoc []BlockSnapshot

// Value implements driver.Valuer.
func (d SnapshotDoc) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *SnapshotDoc) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = SnapshotDoc{}
		return nil
	case []byte:
		if len(v) == 0 {
			*d = SnapshotDoc{}
			return nil
		}
		return json.Unmarshal(v, d)
	case string:
		if v == "" {
			*d = SnapshotDoc{}
			return nil
		}
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("version: cannot scan %T into SnapshotDoc", src)
	}
}

// snapshotBlocks deep-copies the live rows into a document.
func snapshotBlocks(blocks []content.Block) SnapshotDoc {
	doc := make(SnapshotDoc, 0, len(blocks))
	for _, b := range blocks {
		doc = append(doc, BlockSnapshot{
			Kind:      b.Kind,
			Props:     b.Props.Clone(),
			OrderKey:  b.OrderKey,
			IsVisible: b.IsVisible,
			IsLocked:  b.IsLocked,
		})
	}
	return doc
}
