package leadcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leads-manager/pkg/models"
)

func sampleLeads() []models.Lead {
	return []models.Lead{
		{ID: "rec1", CreatedTime: "2025-08-01T10:00:00.000Z", Name: "Ada", Status: "New",
			Raw: models.Record{ID: "rec1", Fields: map[string]interface{}{"Name": "Ada"}}},
		{ID: "rec2", CreatedTime: "2025-08-02T10:00:00.000Z", Name: "Grace", Status: "Contacted",
			Raw: models.Record{ID: "rec2", Fields: map[string]interface{}{"Name": "Grace"}}},
	}
}

func TestApplyReturnsPreEditSnapshot(t *testing.T) {
	c := New()
	c.Replace(sampleLeads())

	prev, ok := c.Apply("rec1", func(l *models.Lead) { l.Status = "Won" })
	require.True(t, ok)

	assert.Equal(t, "New", prev.Leads[0].Status, "snapshot must predate the edit")
	assert.Equal(t, "Won", c.Leads()[0].Status, "cache must reflect the edit immediately")
	assert.Greater(t, c.Version(), prev.Version)
}

func TestApplyUnknownIDLeavesCacheUntouched(t *testing.T) {
	c := New()
	c.Replace(sampleLeads())
	before := c.Version()

	_, ok := c.Apply("rec999", func(l *models.Lead) { l.Status = "Won" })

	assert.False(t, ok)
	assert.Equal(t, before, c.Version())
}

func TestRestoreReturnsExactPreEditState(t *testing.T) {
	c := New()
	c.Replace(sampleLeads())
	want := c.Leads()

	prev, ok := c.Apply("rec2", func(l *models.Lead) {
		l.Notes = "optimistic guess"
		l.Raw.Fields["Notes"] = "optimistic guess"
	})
	require.True(t, ok)

	c.Restore(prev)

	assert.Equal(t, want, c.Leads(), "restore must deep-equal the pre-edit snapshot")
}

func TestSnapshotIsIsolatedFromLaterWrites(t *testing.T) {
	c := New()
	c.Replace(sampleLeads())

	snap := c.Snapshot()
	c.Apply("rec1", func(l *models.Lead) {
		l.Name = "changed"
		l.Raw.Fields["Name"] = "changed"
	})

	assert.Equal(t, "Ada", snap.Leads[0].Name)
	assert.Equal(t, "Ada", snap.Leads[0].Raw.Fields["Name"], "raw field bag must be deep-copied")
}

func TestCompareAndReplace(t *testing.T) {
	c := New()
	c.Replace(sampleLeads())
	seen := c.Version()

	// A write lands after the version was observed.
	c.Apply("rec1", func(l *models.Lead) { l.Status = "Qualified" })

	assert.False(t, c.CompareAndReplace(seen, nil), "stale swap must be refused")
	assert.Equal(t, "Qualified", c.Leads()[0].Status)

	assert.True(t, c.CompareAndReplace(c.Version(), sampleLeads()))
	assert.Equal(t, "New", c.Leads()[0].Status)
}

func TestLeadsReturnsCopies(t *testing.T) {
	c := New()
	c.Replace(sampleLeads())

	got := c.Leads()
	got[0].Status = "mutated"
	got[0].Raw.Fields["Name"] = "mutated"

	assert.Equal(t, "New", c.Leads()[0].Status)
	assert.Equal(t, "Ada", c.Leads()[0].Raw.Fields["Name"])
}
