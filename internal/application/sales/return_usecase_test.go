package sales_test

import (
	"context"
	"testing"

	"github.com/saif-farmacia/saif-api/internal/application/apptest"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/sales"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// venderParaDevolver deja una venta de 5 unidades registrada bajo FAC-200.
func venderParaDevolver(t *testing.T, store *apptest.Store, uc *sales.UseCase) (*entity.Product, *entity.Lot) {
	t.Helper()
	producto := store.SeedProduct("Paracetamol 500mg")
	lote := store.SeedLot(producto.ID, "L-1", 10, nil)
	_, err := uc.CreateVenta(context.Background(), "user-1", dto.CreateSaleRequest{
		FormData: dto.SaleForm{NumeroFactura: "FAC-200"},
		Detalles: []dto.SaleLine{{ProductoID: producto.ID, Cantidad: 5}},
	})
	require.NoError(t, err)
	require.Equal(t, 5, store.Lots[lote.ID].Available)
	return producto, lote
}

func TestCreateDevolucion_ReacreditaYAsientaDEV(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)
	producto, lote := venderParaDevolver(t, store, uc)

	err := uc.CreateDevolucion(context.Background(), "user-2", dto.CreateReturnRequest{
		FormData: dto.ReturnForm{NumeroFactura: "FAC-200", Motivo: "producto dañado"},
		Detalles: []dto.ReturnLine{{ProductoID: producto.ID, LoteID: lote.ID, Cantidad: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, 8, store.Lots[lote.ID].Available)

	var dev *entity.Movement
	for _, mov := range store.Movements {
		if mov.Type == entity.MovementTypeDEV {
			dev = mov
		}
	}
	require.NotNil(t, dev)
	assert.Equal(t, 3, dev.Quantity)
	assert.Equal(t, "FAC-200", dev.Reference)
	assert.Equal(t, "producto dañado", dev.Comment)
	assert.Equal(t, entity.MovementStateCompletado, dev.State)
}

func TestCreateDevolucion_LoteNoVendidoEnLaFactura(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)
	producto, _ := venderParaDevolver(t, store, uc)

	otro := store.SeedLot(producto.ID, "L-OTRO", 4, nil)

	err := uc.CreateDevolucion(context.Background(), "user-2", dto.CreateReturnRequest{
		FormData: dto.ReturnForm{NumeroFactura: "FAC-200", Motivo: "error"},
		Detalles: []dto.ReturnLine{{ProductoID: producto.ID, LoteID: otro.ID, Cantidad: 1}},
	})
	require.ErrorIs(t, err, domain.ErrLotNotSold)
	assert.Equal(t, 4, store.Lots[otro.ID].Available)
}

func TestCreateDevolucion_LoteDeOtroProducto(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)
	_, lote := venderParaDevolver(t, store, uc)

	otroProducto := store.SeedProduct("Ibuprofeno 400mg")

	err := uc.CreateDevolucion(context.Background(), "user-2", dto.CreateReturnRequest{
		FormData: dto.ReturnForm{NumeroFactura: "FAC-200", Motivo: "error"},
		Detalles: []dto.ReturnLine{{ProductoID: otroProducto.ID, LoteID: lote.ID, Cantidad: 1}},
	})
	require.ErrorIs(t, err, domain.ErrLotProductMismatch)
}

func TestCreateDevolucion_NoSuperaLoVendido(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)
	producto, lote := venderParaDevolver(t, store, uc)

	// Se vendieron 5: devolver 6 de una vez se rechaza.
	err := uc.CreateDevolucion(context.Background(), "user-2", dto.CreateReturnRequest{
		FormData: dto.ReturnForm{NumeroFactura: "FAC-200", Motivo: "x"},
		Detalles: []dto.ReturnLine{{ProductoID: producto.ID, LoteID: lote.ID, Cantidad: 6}},
	})
	require.ErrorIs(t, err, domain.ErrReturnExceedsSold)

	// Y también en acumulado: 3 + 3 > 5.
	require.NoError(t, uc.CreateDevolucion(context.Background(), "user-2", dto.CreateReturnRequest{
		FormData: dto.ReturnForm{NumeroFactura: "FAC-200", Motivo: "x"},
		Detalles: []dto.ReturnLine{{ProductoID: producto.ID, LoteID: lote.ID, Cantidad: 3}},
	}))
	err = uc.CreateDevolucion(context.Background(), "user-2", dto.CreateReturnRequest{
		FormData: dto.ReturnForm{NumeroFactura: "FAC-200", Motivo: "x"},
		Detalles: []dto.ReturnLine{{ProductoID: producto.ID, LoteID: lote.ID, Cantidad: 3}},
	})
	require.ErrorIs(t, err, domain.ErrReturnExceedsSold)
	assert.Equal(t, 8, store.Lots[lote.ID].Available)
}

func TestCreateDevolucion_SinMotivo(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	err := uc.CreateDevolucion(context.Background(), "user-2", dto.CreateReturnRequest{
		FormData: dto.ReturnForm{NumeroFactura: "FAC-1"},
		Detalles: []dto.ReturnLine{{ProductoID: "p", LoteID: "l", Cantidad: 1}},
	})
	require.ErrorIs(t, err, domain.ErrMissingReason)
}

func TestCancelDevolucion_RoundTrip(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)
	producto, lote := venderParaDevolver(t, store, uc)

	require.NoError(t, uc.CreateDevolucion(context.Background(), "user-2", dto.CreateReturnRequest{
		FormData: dto.ReturnForm{NumeroFactura: "FAC-200", Motivo: "x"},
		Detalles: []dto.ReturnLine{{ProductoID: producto.ID, LoteID: lote.ID, Cantidad: 3}},
	}))
	require.Equal(t, 8, store.Lots[lote.ID].Available)

	err := uc.CancelDevolucion(context.Background(), "user-1", "FAC-200", "devolución errónea")
	require.NoError(t, err)

	assert.Equal(t, 5, store.Lots[lote.ID].Available)
	for _, mov := range store.Movements {
		if mov.Type == entity.MovementTypeDEV {
			assert.Equal(t, entity.MovementStateCancelado, mov.State)
		}
	}
}

func TestCancelDevolucion_BloqueaSinStockParaRedebitar(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)
	producto, lote := venderParaDevolver(t, store, uc)

	require.NoError(t, uc.CreateDevolucion(context.Background(), "user-2", dto.CreateReturnRequest{
		FormData: dto.ReturnForm{NumeroFactura: "FAC-200", Motivo: "x"},
		Detalles: []dto.ReturnLine{{ProductoID: producto.ID, LoteID: lote.ID, Cantidad: 3}},
	}))

	// Lo devuelto volvió a venderse: no queda stock para re-debitar.
	store.Lots[lote.ID].Available = 1

	err := uc.CancelDevolucion(context.Background(), "user-1", "FAC-200", "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, store.Lots[lote.ID].Available)
}

func TestLotesVendidos_ResumenPorLote(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)
	producto, lote := venderParaDevolver(t, store, uc)

	vendidos, err := uc.LotesVendidos("FAC-200", producto.ID)
	require.NoError(t, err)
	require.Len(t, vendidos, 1)
	assert.Equal(t, lote.ID, vendidos[0].LotID)
	assert.Equal(t, 5, vendidos[0].Sold)
	assert.Equal(t, 5, vendidos[0].Available)
}

func TestCreateDevolucion_LoteInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")

	err := uc.CreateDevolucion(context.Background(), "user-1", dto.CreateReturnRequest{
		FormData: dto.ReturnForm{NumeroFactura: "F-1", Motivo: "empaque dañado"},
		Detalles: []dto.ReturnLine{{ProductoID: producto.ID, LoteID: "no-existe", Cantidad: 1}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Movements)
}
