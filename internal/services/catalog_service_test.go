package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalaur/internal/domain"
	"kalaur/internal/repos"
	"kalaur/internal/services"
	"kalaur/internal/validate"
)

type memStore struct {
	doc     any
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(context.Context) (any, error) { return m.doc, m.loadErr }

func (m *memStore) Save(_ context.Context, o []domain.CatalogOverride) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	b, _ := json.Marshal(o)
	var v any
	_ = json.Unmarshal(b, &v)
	m.doc = v
	return nil
}

func jsonValue(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func sptr(s string) *string { return &s }
func bptr(b bool) *bool     { return &b }
func iptr(i int) *int       { return &i }

func TestMergePreservesOrderCardinalityAndPrice(t *testing.T) {
	base := repos.DefaultParts()
	overrides := []domain.CatalogOverride{
		{ID: "used-turbo", Name: sptr("Turbo Garrett"), InStock: bptr(false), StockQty: iptr(0)},
		{ID: "new-oil-filter", SKU: sptr("OC-90"), Description: sptr("Mahle")},
		{ID: "ghost", Name: sptr("Phantom")},
	}
	merged := services.Merge(base, overrides)

	require.Len(t, merged, len(base))
	for i := range base {
		assert.Equal(t, base[i].ID, merged[i].ID)
		assert.Equal(t, *base[i].PriceUAH, *merged[i].PriceUAH)
	}
	turbo := merged[6]
	assert.Equal(t, "Turbo Garrett", turbo.Name)
	assert.False(t, turbo.InStock)
	assert.Equal(t, 0, *turbo.StockQty)
	assert.Equal(t, domain.ConditionUsed, turbo.Condition)
	assert.Equal(t, "OC-90", merged[0].SKU)
	assert.Equal(t, "Mahle", merged[0].Description)
	assert.Equal(t, base[1], merged[1])
}

func TestMergeIsIdempotent(t *testing.T) {
	base := repos.DefaultParts()
	overrides := []domain.CatalogOverride{{ID: "used-ecu", Name: sptr("ECU"), StockQty: iptr(2)}}
	once := services.Merge(base, overrides)
	twice := services.Merge(once, overrides)
	assert.True(t, reflect.DeepEqual(once, twice))
}

func TestPriceCannotBeOverridden(t *testing.T) {
	parts := repos.NewPartsRepo(repos.DefaultParts())
	raw := jsonValue(t, `[{"id":"new-oil-filter","priceUah":1,"price":1,"unitAmountUah":1}]`)
	merged := services.Merge(parts.List(), validate.Overrides(raw, parts.Has))
	assert.Equal(t, int64(450), *merged[0].PriceUAH)
}

func TestUnknownOverrideNeverAddsProduct(t *testing.T) {
	parts := repos.NewPartsRepo(repos.DefaultParts())
	store := &memStore{}
	svc := services.NewCatalogService(parts, store)

	view, err := svc.Replace(context.Background(), jsonValue(t, `[{"id":"ghost","name":"Phantom","inStock":true}]`))
	require.NoError(t, err)
	assert.Empty(t, view.Overrides)
	assert.Len(t, view.Catalog, 10)
	for _, p := range view.Catalog {
		assert.NotEqual(t, "ghost", p.ID)
	}
}

func TestEffectiveSanitizesStoredDocument(t *testing.T) {
	parts := repos.NewPartsRepo(repos.DefaultParts())
	store := &memStore{doc: jsonValue(t, `[{"id":"used-ecu","name":"ECU","stockQty":-1},{"id":"nope"},"junk"]`)}
	svc := services.NewCatalogService(parts, store)

	view, err := svc.Effective(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Overrides, 1)
	assert.Nil(t, view.Overrides[0].StockQty)
	assert.Equal(t, "ECU", view.Catalog[8].Name)
}

func TestEffectiveDegradesOnStoreFailure(t *testing.T) {
	parts := repos.NewPartsRepo(repos.DefaultParts())
	svc := services.NewCatalogService(parts, &memStore{loadErr: errors.New("disk gone")})

	view, err := svc.Effective(context.Background())
	require.Error(t, err)
	assert.Equal(t, parts.List(), view.Catalog)
	assert.NotNil(t, view.Overrides)
}

func TestReplaceAndReset(t *testing.T) {
	parts := repos.NewPartsRepo(repos.DefaultParts())
	store := &memStore{}
	svc := services.NewCatalogService(parts, store)
	ctx := context.Background()

	_, err := svc.Replace(ctx, jsonValue(t, `[{"id":"used-ecu","inStock":false}]`))
	require.NoError(t, err)
	view, err := svc.Effective(ctx)
	require.NoError(t, err)
	assert.False(t, view.Catalog[8].InStock)

	view, err = svc.Reset(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Overrides)
	assert.True(t, view.Catalog[8].InStock)
	assert.Equal(t, 2, store.saves)

	store.saveErr = errors.New("readonly")
	_, err = svc.Replace(ctx, jsonValue(t, `[]`))
	require.Error(t, err)
}
