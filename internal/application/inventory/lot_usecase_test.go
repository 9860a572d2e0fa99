package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/saif-farmacia/saif-api/internal/application/apptest"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/inventory"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLotUseCase(store *apptest.Store) *inventory.LotUseCase {
	return inventory.NewLotUseCase(store.TxRunner(), store.LotRepo(), 30)
}

func TestLotCreate_AplicaReglaDeCaducidad(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)
	producto := store.SeedProduct("Paracetamol 500mg")

	// Caducidad dentro de la ventana de 30 días: nace Próximo a Vencer.
	cercana := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	lote, err := uc.Create(context.Background(), dto.CreateLotRequest{
		ProductoID:     producto.ID,
		NumeroLote:     "L-PROX",
		FechaCaducidad: cercana,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LotStateProximo, lote.State)
	assert.Equal(t, 0, lote.Available)

	vencida := "2020-01-01"
	lote2, err := uc.Create(context.Background(), dto.CreateLotRequest{
		ProductoID:     producto.ID,
		NumeroLote:     "L-VENC",
		FechaCaducidad: vencida,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LotStateVencido, lote2.State)
}

func TestLotCreate_NumeroDuplicadoPorProducto(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)
	producto := store.SeedProduct("Paracetamol 500mg")
	store.SeedLot(producto.ID, "L-1", 0, nil)

	_, err := uc.Create(context.Background(), dto.CreateLotRequest{
		ProductoID: producto.ID,
		NumeroLote: "L-1",
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLotUpdate_RecalculaEstado(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)
	producto := store.SeedProduct("Paracetamol 500mg")
	exp := time.Now().AddDate(0, 0, 5)
	lote := store.SeedLot(producto.ID, "L-1", 4, &exp)
	lote.State = entity.LotStateProximo

	// Se corrige la caducidad a un año: el estado automático se revierte.
	lejana := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	actualizado, err := uc.Update(context.Background(), lote.ID, dto.UpdateLotRequest{
		FechaCaducidad: &lejana,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LotStateDisponible, actualizado.State)
	assert.Equal(t, 4, actualizado.Available)
}

func TestLotChangeState_SoloEstadosDeUsuario(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)
	producto := store.SeedProduct("Paracetamol 500mg")
	lote := store.SeedLot(producto.ID, "L-1", 4, nil)

	require.NoError(t, uc.ChangeState(context.Background(), lote.ID, entity.LotStateCuarentena))
	assert.Equal(t, entity.LotStateCuarentena, store.Lots[lote.ID].State)

	err := uc.ChangeState(context.Background(), lote.ID, entity.LotStateVencido)
	require.ErrorIs(t, err, domain.ErrUnknownState)
}

func TestLotChangeState_EstadoFuerteBloqueado(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)
	producto := store.SeedProduct("Paracetamol 500mg")
	lote := store.SeedLot(producto.ID, "L-1", 0, nil)
	lote.State = entity.LotStateRetirado

	err := uc.ChangeState(context.Background(), lote.ID, entity.LotStateDisponible)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestLotDelete_BloqueadoPorHistoria(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)
	producto := store.SeedProduct("Paracetamol 500mg")
	lote := store.SeedLot(producto.ID, "L-1", 0, nil)

	store.Movements = append(store.Movements, &entity.Movement{
		ID:    "m-1",
		LotID: lote.ID,
		Type:  entity.MovementTypeREC,
		State: entity.MovementStateCompletado,
	})

	err := uc.Delete(context.Background(), lote.ID)
	require.ErrorIs(t, err, domain.ErrLotInUse)
	assert.Contains(t, store.Lots, lote.ID)
}

func TestLotDelete_BloqueadoConStock(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)
	producto := store.SeedProduct("Paracetamol 500mg")
	lote := store.SeedLot(producto.ID, "L-1", 2, nil)

	err := uc.Delete(context.Background(), lote.ID)
	require.ErrorIs(t, err, domain.ErrLotInUse)
}

func TestLotDelete_SinRelaciones(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)
	producto := store.SeedProduct("Paracetamol 500mg")
	lote := store.SeedLot(producto.ID, "L-1", 0, nil)

	require.NoError(t, uc.Delete(context.Background(), lote.ID))
	assert.NotContains(t, store.Lots, lote.ID)
}

func TestLotSearchSellable_FiltraEstados(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)
	producto := store.SeedProduct("Paracetamol 500mg")
	vendible := store.SeedLot(producto.ID, "L-1", 5, nil)
	vencido := store.SeedLot(producto.ID, "L-2", 5, nil)
	vencido.State = entity.LotStateVencido

	lotes, err := uc.SearchSellable(producto.ID, "", 20)
	require.NoError(t, err)
	require.Len(t, lotes, 1)
	assert.Equal(t, vendible.ID, lotes[0].ID)
}

func TestLotCreate_ProductoInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)

	_, err := uc.Create(context.Background(), dto.CreateLotRequest{
		ProductoID: "no-existe",
		NumeroLote: "L-1",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Lots)
}

func TestLotUpdate_LoteInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)

	ubicacion := "B-2"
	_, err := uc.Update(context.Background(), "no-existe", dto.UpdateLotRequest{
		Ubicacion: &ubicacion,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLotGetByID_Inexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newLotUseCase(store)

	_, err := uc.GetByID("no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
