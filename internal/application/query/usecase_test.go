package query_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saif-farmacia/saif-api/internal/application/apptest"
	"github.com/saif-farmacia/saif-api/internal/application/query"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
)

func TestAdjustmentDetail_ResuelveNombresDeProductoYLote(t *testing.T) {
	store := apptest.NewStore()
	p := store.SeedProduct("Paracetamol 500mg")
	l := store.SeedLot(p.ID, "L-001", 10, nil)
	store.Adjustments["aj-1"] = &entity.Adjustment{
		ID:     "aj-1",
		Date:   time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
		UserID: "u-1",
		Kind:   entity.AdjustmentKindIngreso,
		State:  entity.AdjustmentStateCompletado,
	}
	store.AdjustmentDetails = append(store.AdjustmentDetails, &entity.AdjustmentDetail{
		ID:           "det-1",
		AdjustmentID: "aj-1",
		LotID:        l.ID,
		SystemQty:    10,
		CountedQty:   12,
		Difference:   2,
	})

	uc := query.NewUseCase(store.Repos())
	out, err := uc.AdjustmentDetail("aj-1")
	require.NoError(t, err)

	assert.Equal(t, "aj-1", out.ID)
	assert.Equal(t, entity.AdjustmentKindIngreso, out.Tipo)
	require.Len(t, out.Detalles, 1)
	assert.Equal(t, "Paracetamol 500mg", out.Detalles[0].Producto)
	assert.Equal(t, "L-001", out.Detalles[0].NumeroLote)
	assert.Equal(t, 2, out.Detalles[0].Diferencia)
}

func TestAdjustmentDetail_NoExiste(t *testing.T) {
	uc := query.NewUseCase(apptest.NewStore().Repos())

	_, err := uc.AdjustmentDetail("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionDetail_AgrupaMovimientosDeLaFactura(t *testing.T) {
	store := apptest.NewStore()
	p := store.SeedProduct("Ibuprofeno 400mg")
	caducidad := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	l := store.SeedLot(p.ID, "L-77", 5, &caducidad)
	fecha := time.Date(2025, 4, 2, 16, 0, 0, 0, time.UTC)
	store.Movements = append(store.Movements,
		&entity.Movement{
			ID: "m-1", LotID: l.ID, Type: entity.MovementTypeVEN, Quantity: -3,
			Date: fecha, UserID: "u-1", Reference: "F-100",
			State: entity.MovementStateCompletado,
		},
		&entity.Movement{
			ID: "m-2", LotID: l.ID, Type: entity.MovementTypeDEV, Quantity: 1,
			Date: fecha.Add(time.Hour), UserID: "u-2", Reference: "F-100",
			State: entity.MovementStateCompletado,
		},
	)

	uc := query.NewUseCase(store.Repos())
	out, err := uc.TransactionDetail("F-100", entity.MovementTypeVEN)
	require.NoError(t, err)

	assert.Equal(t, "F-100", out.Referencia)
	assert.Equal(t, entity.MovementStateCompletado, out.Estado)
	require.Len(t, out.Detalles, 1, "sólo los movimientos del tipo pedido")
	assert.Equal(t, "L-77", out.Detalles[0].NumeroLote)
	assert.Equal(t, "Ibuprofeno 400mg", out.Detalles[0].Producto)
	assert.Equal(t, "2026-01-15", out.Detalles[0].FechaCaducidad)
	assert.Equal(t, -3, out.Detalles[0].Cantidad)
}

func TestTransactionDetail_TodosCancelados_EstadoCancelado(t *testing.T) {
	store := apptest.NewStore()
	p := store.SeedProduct("Amoxicilina 500mg")
	l := store.SeedLot(p.ID, "L-9", 5, nil)
	store.Movements = append(store.Movements, &entity.Movement{
		ID: "m-1", LotID: l.ID, Type: entity.MovementTypeVEN, Quantity: -1,
		Date: time.Now(), Reference: "F-200",
		State: entity.MovementStateCancelado,
	})

	uc := query.NewUseCase(store.Repos())
	out, err := uc.TransactionDetail("F-200", entity.MovementTypeVEN)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStateCancelado, out.Estado)
}

func TestTransactionDetail_ReferenciaDesconocida(t *testing.T) {
	uc := query.NewUseCase(apptest.NewStore().Repos())

	_, err := uc.TransactionDetail("F-999", entity.MovementTypeVEN)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSoldLots_MapeaLotesVendidos(t *testing.T) {
	store := apptest.NewStore()
	p := store.SeedProduct("Loratadina 10mg")
	caducidad := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	l := store.SeedLot(p.ID, "L-30", 4, &caducidad)
	store.Movements = append(store.Movements, &entity.Movement{
		ID: "m-1", LotID: l.ID, Type: entity.MovementTypeVEN, Quantity: -6,
		Date: time.Now(), Reference: "F-300",
		State: entity.MovementStateCompletado,
	})

	uc := query.NewUseCase(store.Repos())
	out, err := uc.SoldLots("F-300", p.ID)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "L-30", out[0].NumeroLote)
	assert.Equal(t, 6, out[0].CantidadVendida)
	assert.Equal(t, 4, out[0].Disponible)
	assert.Equal(t, "2025-12-01", out[0].FechaCaducidad)
}

func TestRestockDetail_IncluyeNombreDeProducto(t *testing.T) {
	store := apptest.NewStore()
	p := store.SeedProduct("Omeprazol 20mg")
	store.Requests["sol-1"] = &entity.RestockRequest{
		ID:       "sol-1",
		Date:     time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC),
		Document: "SOL-2025-05",
		UserID:   "u-1",
		State:    entity.RestockStatePendiente,
	}
	store.RequestDetails = append(store.RequestDetails, &entity.RestockRequestDetail{
		ID:        "rd-1",
		RequestID: "sol-1",
		ProductID: p.ID,
		Quantity:  30,
		Urgent:    true,
	})

	uc := query.NewUseCase(store.Repos())
	out, err := uc.RestockDetail("sol-1")
	require.NoError(t, err)

	assert.Equal(t, "SOL-2025-05", out.Documento)
	require.Len(t, out.Detalles, 1)
	assert.Equal(t, "Omeprazol 20mg", out.Detalles[0].Producto)
	assert.True(t, out.Detalles[0].Urgente)
}
