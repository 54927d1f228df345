package catalog

import (
	"path/filepath"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinedecor/catalogo/internal/domain"
	"github.com/vitrinedecor/catalogo/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	records, err := store.Open(filepath.Join(t.TempDir(), "catalogo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = records.Close() })
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewService(records, node, nil, "Olá! Gostei do item {label}. Quero um desse.")
}

func TestUpsertRoundtrip(t *testing.T) {
	svc := newTestService(t)

	saved, err := svc.UpsertProduct(domain.Product{
		Label:       "0001",
		Name:        "Cabeceira Paris",
		Description: "Estofada em veludo",
		Price:       499,
		Tags:        []string{"cabeceira", "quarto"},
		Class:       "Quarto",
		Colors:      []string{"Azul", "Bege"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.True(t, saved.Available)
	assert.NotEmpty(t, saved.CreatedAt)

	all, err := svc.Products()
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Cabeceira Paris", got.Name)
	assert.Equal(t, "Estofada em veludo", got.Description)
	assert.Equal(t, 499.0, got.Price)
	assert.Equal(t, []string{"cabeceira", "quarto"}, got.Tags)
	assert.Equal(t, []string{"Azul", "Bege"}, got.Colors)
	assert.Equal(t, "Quarto", got.Class)
}

func TestUpsertCarriesOverCreatedAtAndAvailable(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.UpsertProduct(domain.Product{Name: "Cabeceira Lisboa"})
	require.NoError(t, err)

	suspended, err := svc.ToggleAvailability(created.ID)
	require.NoError(t, err)
	require.False(t, suspended.Available)

	// an edit must not resurrect availability or move createdAt
	edited, err := svc.UpsertProduct(domain.Product{ID: created.ID, Name: "Cabeceira Lisboa II", Price: 120})
	require.NoError(t, err)
	assert.False(t, edited.Available)
	assert.Equal(t, created.CreatedAt, edited.CreatedAt)
	assert.Equal(t, "Cabeceira Lisboa II", edited.Name)
}

func TestUpsertRequiresName(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpsertProduct(domain.Product{Name: "   "})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpsertAppliesDefaultTemplate(t *testing.T) {
	svc := newTestService(t)
	saved, err := svc.UpsertProduct(domain.Product{Name: "Cabeceira Porto"})
	require.NoError(t, err)
	assert.Equal(t, "Olá! Gostei do item {label}. Quero um desse.", saved.WhatsappTemplate)
}

func TestDeleteProduct(t *testing.T) {
	svc := newTestService(t)
	saved, err := svc.UpsertProduct(domain.Product{Name: "Cabeceira Minho"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(saved.ID))
	all, err := svc.Products()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteCategoryCascadesClassClear(t *testing.T) {
	svc := newTestService(t)

	cat, err := svc.CreateCategory("Quarto")
	require.NoError(t, err)
	_, err = svc.CreateCategory("Sala")
	require.NoError(t, err)

	for _, name := range []string{"Cabeceira A", "Cabeceira B", "Cabeceira C"} {
		_, err := svc.UpsertProduct(domain.Product{Name: name, Class: "Quarto"})
		require.NoError(t, err)
	}
	other, err := svc.UpsertProduct(domain.Product{Name: "Sofá", Class: "Sala"})
	require.NoError(t, err)

	name, cleared, err := svc.DeleteCategory(cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quarto", name)
	assert.Equal(t, 3, cleared)

	products, err := svc.Products()
	require.NoError(t, err)
	for _, p := range products {
		assert.NotEqual(t, "Quarto", p.Class)
	}
	got, err := svc.GetProduct(other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sala", got.Class)

	categories, err := svc.Categories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Sala", categories[0].Name)
}

func TestImportRejectsNonArrayAndLeavesDataUntouched(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpsertProduct(domain.Product{Name: "Cabeceira Existente"})
	require.NoError(t, err)

	_, err = svc.Import([]byte(`{"not":"an array"}`))
	require.ErrorIs(t, err, ErrValidation)

	all, err := svc.Products()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Cabeceira Existente", all[0].Name)
}

func TestImportReplacesCollectionAndFillsMissingFields(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpsertProduct(domain.Product{Name: "Vai Sumir"})
	require.NoError(t, err)

	payload := []byte(`[
		{"name": "Importado 1", "price": "não é número", "tags": ["a", "b"]},
		{"id": "fixo", "name": "Importado 2", "price": 80, "available": false, "createdAt": "2022-02-02T00:00:00Z"}
	]`)
	count, err := svc.Import(payload)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := svc.Products()
	require.NoError(t, err)
	require.Len(t, all, 2)

	byName := map[string]domain.Product{}
	for _, p := range all {
		byName[p.Name] = p
	}
	first := byName["Importado 1"]
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.CreatedAt)
	assert.Equal(t, 0.0, first.Price)
	assert.True(t, first.Available)

	second := byName["Importado 2"]
	assert.Equal(t, "fixo", second.ID)
	assert.Equal(t, "2022-02-02T00:00:00Z", second.CreatedAt)
	assert.False(t, second.Available)
}

func TestExportIsAnArrayOfFullRecords(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpsertProduct(domain.Product{Name: "Cabeceira Export", Price: 150})
	require.NoError(t, err)

	data, err := svc.Export()
	require.NoError(t, err)

	var decoded []domain.Product
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Cabeceira Export", decoded[0].Name)
	assert.Equal(t, 150.0, decoded[0].Price)
}

func TestNextLabelSkipsUsedNumbers(t *testing.T) {
	products := []domain.Product{{Label: "0001"}, {Label: "0002"}, {Label: "0004"}}
	assert.Equal(t, "0003", NextLabel(products))
	assert.Equal(t, "0001", NextLabel(nil))
}

func TestSeedIfEmpty(t *testing.T) {
	svc := newTestService(t)

	n, err := svc.SeedIfEmpty([]string{"a.jpeg", "b.jpeg"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := svc.Products()
	require.NoError(t, err)
	require.Len(t, all, 2)
	labels := map[string]bool{}
	for _, p := range all {
		labels[p.Label] = true
		assert.True(t, p.Available)
		assert.Contains(t, p.ImageURL, "img/produtos/")
	}
	assert.True(t, labels["0001"])
	assert.True(t, labels["0002"])

	// a non-empty catalog is never reseeded
	n, err = svc.SeedIfEmpty([]string{"c.jpeg"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRenameCameraRollProducts(t *testing.T) {
	svc := newTestService(t)

	stale, err := svc.UpsertProduct(domain.Product{
		Name:     "WhatsApp Image 2023-05-01",
		Label:    "0003",
		ImageURL: "img/produtos/WhatsApp Image 2023-05-01 at 10.00.00.jpeg",
	})
	require.NoError(t, err)
	untouched, err := svc.UpsertProduct(domain.Product{
		Name:     "Cabeceira Paris",
		Label:    "0001",
		ImageURL: "img/produtos/paris.jpeg",
	})
	require.NoError(t, err)
	noLabel, err := svc.UpsertProduct(domain.Product{
		Name:     "Sem Label",
		ImageURL: "img/produtos/WhatsApp Image 2023-06-01 at 09.00.00.jpeg",
	})
	require.NoError(t, err)

	changed, err := svc.RenameCameraRollProducts()
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got, err := svc.GetProduct(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cabeceira 3", got.Name)

	got, err = svc.GetProduct(untouched.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cabeceira Paris", got.Name)

	got, err = svc.GetProduct(noLabel.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sem Label", got.Name)

	// second run is a no-op
	changed, err = svc.RenameCameraRollProducts()
	require.NoError(t, err)
	assert.Zero(t, changed)
}
