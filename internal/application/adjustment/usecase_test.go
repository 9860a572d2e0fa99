package adjustment_test

import (
	"context"
	"testing"

	"github.com/saif-farmacia/saif-api/internal/application/adjustment"
	"github.com/saif-farmacia/saif-api/internal/application/apptest"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(store *apptest.Store) *adjustment.UseCase {
	return adjustment.NewUseCase(store.TxRunner(), store.AdjustmentRepo(), 30)
}

func TestCreateIngreso_SumaStockYAsientaMovimiento(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	lote := store.SeedLot(producto.ID, "L-001", 10, nil)

	id, err := uc.Create(context.Background(), "user-1", dto.CreateAdjustmentRequest{
		FormData: dto.AdjustmentForm{Tipo: entity.AdjustmentKindIngreso},
		Detalles: []dto.AdjustmentLine{
			{ProductoID: producto.ID, LoteID: lote.ID, CantidadAjustada: 5},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Equal(t, 15, store.Lots[lote.ID].Available)

	require.Len(t, store.AdjustmentDetails, 1)
	det := store.AdjustmentDetails[0]
	assert.Equal(t, 10, det.SystemQty)
	assert.Equal(t, 15, det.CountedQty)
	assert.Equal(t, 5, det.Difference)

	require.Len(t, store.Movements, 1)
	mov := store.Movements[0]
	assert.Equal(t, entity.MovementTypeAJI, mov.Type)
	assert.Equal(t, 5, mov.Quantity)
	assert.Equal(t, "AJUSTE-"+id, mov.Reference)
	assert.Equal(t, entity.MovementStateCompletado, mov.State)
}

func TestCreateIngreso_CreaLoteNuevo(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Ibuprofeno 400mg")

	_, err := uc.Create(context.Background(), "user-1", dto.CreateAdjustmentRequest{
		FormData: dto.AdjustmentForm{Tipo: entity.AdjustmentKindIngreso},
		Detalles: []dto.AdjustmentLine{
			{ProductoID: producto.ID, NumeroLote: "NUEVO-7", CantidadAjustada: 12},
		},
	})
	require.NoError(t, err)

	require.Len(t, store.Lots, 1)
	for _, lote := range store.Lots {
		assert.Equal(t, "NUEVO-7", lote.LotNumber)
		assert.Equal(t, 12, lote.Available)
		assert.Equal(t, entity.LotStateDisponible, lote.State)
	}
}

func TestCreateSalida_RechazaStockInsuficiente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Amoxicilina 500mg")
	lote := store.SeedLot(producto.ID, "L-001", 3, nil)

	_, err := uc.Create(context.Background(), "user-1", dto.CreateAdjustmentRequest{
		FormData: dto.AdjustmentForm{Tipo: entity.AdjustmentKindSalida},
		Detalles: []dto.AdjustmentLine{
			{ProductoID: producto.ID, LoteID: lote.ID, CantidadAjustada: 5},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La transacción se revierte entera: ni cabecera, ni asientos, ni stock.
	assert.Equal(t, 3, store.Lots[lote.ID].Available)
	assert.Empty(t, store.Adjustments)
	assert.Empty(t, store.Movements)
}

func TestCreateSalida_DescuentaYAsientaNegativo(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Loratadina 10mg")
	lote := store.SeedLot(producto.ID, "L-001", 10, nil)

	_, err := uc.Create(context.Background(), "user-1", dto.CreateAdjustmentRequest{
		FormData: dto.AdjustmentForm{Tipo: entity.AdjustmentKindSalida},
		Detalles: []dto.AdjustmentLine{
			{ProductoID: producto.ID, LoteID: lote.ID, CantidadAjustada: 4},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, store.Lots[lote.ID].Available)
	require.Len(t, store.AdjustmentDetails, 1)
	assert.Equal(t, -4, store.AdjustmentDetails[0].Difference)
	require.Len(t, store.Movements, 1)
	assert.Equal(t, entity.MovementTypeAJS, store.Movements[0].Type)
	assert.Equal(t, -4, store.Movements[0].Quantity)
}

func TestCreate_SinDetalles(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	_, err := uc.Create(context.Background(), "user-1", dto.CreateAdjustmentRequest{
		FormData: dto.AdjustmentForm{Tipo: entity.AdjustmentKindIngreso},
	})
	require.ErrorIs(t, err, domain.ErrNoDetails)
}

func TestCancelIngreso_RoundTrip(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Omeprazol 20mg")
	lote := store.SeedLot(producto.ID, "L-001", 10, nil)

	id, err := uc.Create(context.Background(), "user-1", dto.CreateAdjustmentRequest{
		FormData: dto.AdjustmentForm{Tipo: entity.AdjustmentKindIngreso},
		Detalles: []dto.AdjustmentLine{
			{ProductoID: producto.ID, LoteID: lote.ID, CantidadAjustada: 5},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 15, store.Lots[lote.ID].Available)

	err = uc.Cancel(context.Background(), "user-1", id, "conteo erróneo")
	require.NoError(t, err)

	assert.Equal(t, 10, store.Lots[lote.ID].Available)
	assert.Equal(t, entity.AdjustmentStateCancelado, store.Adjustments[id].State)
	require.Len(t, store.Movements, 1)
	assert.Equal(t, entity.MovementStateCancelado, store.Movements[0].State)
}

func TestCancelIngreso_BloqueaSiRevertirDejaNegativo(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Diclofenaco 50mg")
	lote := store.SeedLot(producto.ID, "L-001", 0, nil)

	id, err := uc.Create(context.Background(), "user-1", dto.CreateAdjustmentRequest{
		FormData: dto.AdjustmentForm{Tipo: entity.AdjustmentKindIngreso},
		Detalles: []dto.AdjustmentLine{
			{ProductoID: producto.ID, LoteID: lote.ID, CantidadAjustada: 5},
		},
	})
	require.NoError(t, err)

	// Parte del ingreso ya se consumió: revertirlo dejaría el lote negativo.
	store.Lots[lote.ID].Available = 2

	err = uc.Cancel(context.Background(), "user-1", id, "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, store.Lots[lote.ID].Available)
	assert.Equal(t, entity.AdjustmentStateCompletado, store.Adjustments[id].State)
}

func TestCancel_YaCancelado(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Aspirina 100mg")
	lote := store.SeedLot(producto.ID, "L-001", 10, nil)

	id, err := uc.Create(context.Background(), "user-1", dto.CreateAdjustmentRequest{
		FormData: dto.AdjustmentForm{Tipo: entity.AdjustmentKindSalida},
		Detalles: []dto.AdjustmentLine{
			{ProductoID: producto.ID, LoteID: lote.ID, CantidadAjustada: 2},
		},
	})
	require.NoError(t, err)
	require.NoError(t, uc.Cancel(context.Background(), "user-1", id, ""))

	err = uc.Cancel(context.Background(), "user-1", id, "")
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestCreateIngreso_ProductoInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	_, err := uc.Create(context.Background(), "user-1", dto.CreateAdjustmentRequest{
		FormData: dto.AdjustmentForm{Tipo: entity.AdjustmentKindIngreso},
		Detalles: []dto.AdjustmentLine{
			{ProductoID: "no-existe", NumeroLote: "L-1", CantidadAjustada: 2},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Adjustments)
	assert.Empty(t, store.Movements)
}

func TestCancel_AjusteInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	err := uc.Cancel(context.Background(), "user-1", "no-existe", "")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
