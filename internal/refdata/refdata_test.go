package refdata_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-merit/internal/db"
	"github.com/mind-engage/mindengage-merit/internal/refdata"
	"github.com/mind-engage/mindengage-merit/internal/storage"
)

func TestDefaultDatasetIsValid(t *testing.T) {
	ds, err := refdata.Default()
	require.NoError(t, err)
	assert.NotEmpty(t, ds.Version)
	assert.NotEmpty(t, ds.Universities)
	assert.NotEmpty(t, ds.MeritTables)

	_, err = refdata.Validate(ds)
	assert.NoError(t, err)
}

func TestDecode_PercentFormulaBecomesFraction(t *testing.T) {
	ds, err := refdata.Default()
	require.NoError(t, err)
	_, p, ok := refdata.NewCatalog(ds).Program("pu", "bscs")
	require.True(t, ok)
	assert.Equal(t, refdata.Formula{Matriculation: 0.2, Intermediate: 0.3, EntryTest: 0.5}, p.Formula)
}

func TestMerit_JSON(t *testing.T) {
	var entries []refdata.MeritEntry
	raw := `[{"name":"A","merit":75},{"name":"B","merit":"80-82"},{"name":"C","merit":"#324"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))

	require.Len(t, entries, 3)
	require.True(t, entries[0].Merit.IsNumber())
	assert.Equal(t, 75.0, *entries[0].Merit.Number)
	assert.Equal(t, "80-82", entries[1].Merit.Text)
	assert.Equal(t, "#324", entries[2].Merit.String())

	out, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))

	var bad refdata.Merit
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &bad))
}

func TestMerit_NullIsMissingNotZero(t *testing.T) {
	var e refdata.MeritEntry
	require.NoError(t, json.Unmarshal([]byte(`{"name":"CS","merit":null}`), &e))
	assert.False(t, e.Merit.IsNumber())
	assert.Empty(t, e.Merit.Text)

	ds := refdata.Dataset{MeritTables: []refdata.UniversityMeritTable{{
		ID: "x", Name: "X",
		Campuses: []refdata.CampusMeritGroup{{Campus: "Main", Programs: []refdata.MeritEntry{e}}},
	}}}
	_, err := refdata.Validate(ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CS has no merit value")
}

func TestValidate(t *testing.T) {
	ds := refdata.Dataset{
		Universities: []refdata.University{
			{ID: "x", Programs: []refdata.Program{
				{
					ID:      "p",
					Formula: refdata.Formula{Matriculation: 0.5, Intermediate: 0.5, EntryTest: 0.5},
					AdmissionChances: []refdata.AdmissionChanceBand{
						{Min: 50, Max: 80, Rating: refdata.RatingHigh},
						{Min: 70, Max: 100, Rating: refdata.RatingVeryHigh},
					},
				},
				{ID: "P", Formula: refdata.Formula{EntryTest: 1.5}},
				{ID: "q", Formula: refdata.Formula{EntryTest: 1},
					AdmissionChances: []refdata.AdmissionChanceBand{{Min: 90, Max: 10, Rating: "Great"}}},
			}},
			{ID: "X"},
		},
	}
	warnings, err := refdata.Validate(ds)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "duplicate university id: X")
	assert.Contains(t, msg, "duplicate program id P")
	assert.Contains(t, msg, "formula.entryTest must be in [0,1]")
	assert.Contains(t, msg, "min 90 > max 10")
	assert.Contains(t, msg, `unknown rating "Great"`)

	joined := strings.Join(warnings, "\n")
	assert.Contains(t, joined, "x/p: formula weights sum to 1.5")
	assert.Contains(t, joined, "overlap")
}

func TestCatalog(t *testing.T) {
	ds, err := refdata.Default()
	require.NoError(t, err)
	c := refdata.NewCatalog(ds)

	u, ok := c.University(" NUST ")
	require.True(t, ok)
	assert.Equal(t, "nust", u.ID)

	_, p, ok := c.Program("fast", "CS")
	require.True(t, ok)
	assert.Equal(t, "Computing Programs", p.Name)

	_, _, ok = c.Program("fast", "medicine")
	assert.False(t, ok)
	_, ok = c.University("nope")
	assert.False(t, ok)

	assert.Len(t, c.MeritTables("giki"), 1)
	assert.Len(t, c.MeritTables(""), len(ds.MeritTables))
	assert.Empty(t, c.MeritTables("nope"))

	// returned slices are copies
	all := c.Universities()
	all[0].Name = "changed"
	again, _ := c.University(all[0].ID)
	assert.NotEqual(t, "changed", again.Name)
}

func TestCatalog_ProgramsAreNotShared(t *testing.T) {
	ds, err := refdata.Default()
	require.NoError(t, err)
	c := refdata.NewCatalog(ds)
	_, before, ok := c.Program("fast", "cs")
	require.True(t, ok)

	all := c.Universities()
	all[0].Programs[0].Formula.Matriculation = 9
	all[0].Programs[0].AdmissionChances[0].Rating = refdata.RatingVeryLow
	all[0].Programs[0].TestOptions[0] = "changed"

	u, _ := c.University("fast")
	u.Programs[0].Formula.EntryTest = 9

	_, p, _ := c.Program("fast", "cs")
	p.AdmissionChances[0].Min = -1

	// the source dataset is not aliased either
	ds.Universities[0].Programs[0].Formula.Intermediate = 9

	_, after, ok := c.Program("fast", "cs")
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Equal(t, refdata.Formula{Matriculation: 0.10, Intermediate: 0.40, EntryTest: 0.50}, after.Formula)
}

func TestLoadBlob(t *testing.T) {
	ds, err := refdata.Default()
	require.NoError(t, err)
	b, err := json.Marshal(ds)
	require.NoError(t, err)

	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	key, err := bs.Put("merit/2025.json", bytes.NewReader(b))
	require.NoError(t, err)

	got, err := refdata.LoadBlob(context.Background(), bs, key)
	require.NoError(t, err)
	assert.Equal(t, ds, got)

	_, err = refdata.LoadBlob(context.Background(), bs, "missing.json")
	assert.Error(t, err)
}

func TestSQLRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:refdata_roundtrip?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	ds, err := refdata.Default()
	require.NoError(t, err)

	require.NoError(t, refdata.SeedSQL(ctx, dbh, ds))
	// seeding twice replaces rather than duplicates
	require.NoError(t, refdata.SeedSQL(ctx, dbh, ds))

	got, err := refdata.LoadSQL(ctx, dbh)
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}

func TestSeedSQL_EncodeErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:refdata_seed_err?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	ds, err := refdata.Default()
	require.NoError(t, err)
	require.NoError(t, refdata.SeedSQL(ctx, dbh, ds))

	broken, err := refdata.Default()
	require.NoError(t, err)
	broken.Version = "broken"
	broken.Universities[0].Programs[0].Formula.Matriculation = math.NaN()

	err = refdata.SeedSQL(ctx, dbh, broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program fast/cs")

	got, err := refdata.LoadSQL(ctx, dbh)
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}
