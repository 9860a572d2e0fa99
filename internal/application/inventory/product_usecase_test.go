package inventory_test

import (
	"context"
	"testing"

	"github.com/saif-farmacia/saif-api/internal/application/apptest"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/inventory"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductUseCase(store *apptest.Store) *inventory.ProductUseCase {
	return inventory.NewProductUseCase(store.TxRunner(), store.ProductRepo(), store.LotRepo())
}

func TestProductCreate_AltaActiva(t *testing.T) {
	store := apptest.NewStore()
	uc := newProductUseCase(store)

	producto, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Codigo:       "MED-001",
		Nombre:       "Paracetamol 500mg",
		UnidadMedida: "tableta",
		StockMinimo:  10,
		RequiereRx:   false,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStateActivo, producto.State)
	assert.Equal(t, "MED-001", producto.Code)
}

func TestProductCreate_CodigoDuplicado(t *testing.T) {
	store := apptest.NewStore()
	uc := newProductUseCase(store)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Codigo: "MED-001", Nombre: "A", UnidadMedida: "tableta",
	})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), dto.CreateProductRequest{
		Codigo: "MED-001", Nombre: "B", UnidadMedida: "tableta",
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductDeactivate_BloqueadoConStock(t *testing.T) {
	store := apptest.NewStore()
	uc := newProductUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	store.SeedLot(producto.ID, "L-1", 3, nil)

	err := uc.Deactivate(context.Background(), producto.ID)
	require.ErrorIs(t, err, domain.ErrProductHasStock)
	assert.Equal(t, entity.ProductStateActivo, store.Products[producto.ID].State)
}

func TestProductDeactivate_SinStock(t *testing.T) {
	store := apptest.NewStore()
	uc := newProductUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	store.SeedLot(producto.ID, "L-1", 0, nil)

	require.NoError(t, uc.Deactivate(context.Background(), producto.ID))
	assert.Equal(t, entity.ProductStateInactivo, store.Products[producto.ID].State)
}

func TestProductReactivate_RequiereCamposCompletos(t *testing.T) {
	store := apptest.NewStore()
	uc := newProductUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	producto.State = entity.ProductStateInactivo
	producto.Presentation = "" // campo de referencia faltante

	err := uc.Reactivate(context.Background(), producto.ID)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	producto.Presentation = "caja x 20"
	require.NoError(t, uc.Reactivate(context.Background(), producto.ID))
	assert.Equal(t, entity.ProductStateActivo, store.Products[producto.ID].State)
}

func TestProductSearchActive_IgnoraInactivos(t *testing.T) {
	store := apptest.NewStore()
	uc := newProductUseCase(store)

	activo := store.SeedProduct("Paracetamol 500mg")
	inactivo := store.SeedProduct("Paracetamol forte")
	inactivo.State = entity.ProductStateInactivo

	encontrados, err := uc.SearchActive("paracetamol", 10)
	require.NoError(t, err)
	require.Len(t, encontrados, 1)
	assert.Equal(t, activo.ID, encontrados[0].ID)
}

func TestProductUpdate_ProductoInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newProductUseCase(store)

	nombre := "Nuevo nombre"
	_, err := uc.Update(context.Background(), "no-existe", dto.UpdateProductRequest{
		Nombre: &nombre,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
