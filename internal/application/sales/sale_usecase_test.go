package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/saif-farmacia/saif-api/internal/application/apptest"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/sales"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(store *apptest.Store) *sales.UseCase {
	return sales.NewUseCase(store.TxRunner(), store.MovementRepo())
}

func fecha(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestCreateVenta_ConsumoFIFOPorCaducidad(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	l1 := store.SeedLot(producto.ID, "L-1", 5, fecha("2030-01-01"))
	l2 := store.SeedLot(producto.ID, "L-2", 10, fecha("2030-06-01"))

	ref, err := uc.CreateVenta(context.Background(), "user-1", dto.CreateSaleRequest{
		FormData: dto.SaleForm{NumeroFactura: "FAC-100"},
		Detalles: []dto.SaleLine{{ProductoID: producto.ID, Cantidad: 8}},
	})
	require.NoError(t, err)
	require.Equal(t, "FAC-100", ref)

	// El lote más cercano a vencer se agota primero.
	assert.Equal(t, 0, store.Lots[l1.ID].Available)
	assert.Equal(t, 7, store.Lots[l2.ID].Available)

	require.Len(t, store.Movements, 2)
	assert.Equal(t, l1.ID, store.Movements[0].LotID)
	assert.Equal(t, -5, store.Movements[0].Quantity)
	assert.Equal(t, l2.ID, store.Movements[1].LotID)
	assert.Equal(t, -3, store.Movements[1].Quantity)
	for _, mov := range store.Movements {
		assert.Equal(t, entity.MovementTypeVEN, mov.Type)
		assert.Equal(t, "FAC-100", mov.Reference)
		assert.Equal(t, entity.MovementStateCompletado, mov.State)
	}
}

func TestCreateVenta_SinFechaDeCaducidadAlFinal(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Suero fisiológico")
	sinFecha := store.SeedLot(producto.ID, "L-A", 10, nil)
	conFecha := store.SeedLot(producto.ID, "L-B", 10, fecha("2031-01-01"))

	_, err := uc.CreateVenta(context.Background(), "user-1", dto.CreateSaleRequest{
		FormData: dto.SaleForm{NumeroFactura: "FAC-101"},
		Detalles: []dto.SaleLine{{ProductoID: producto.ID, Cantidad: 10}},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, store.Lots[conFecha.ID].Available)
	assert.Equal(t, 10, store.Lots[sinFecha.ID].Available)
}

func TestCreateVenta_PreCheckAgregadoRechazaTodo(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Amoxicilina 500mg")
	l1 := store.SeedLot(producto.ID, "L-1", 2, fecha("2030-01-01"))
	l2 := store.SeedLot(producto.ID, "L-2", 3, fecha("2030-06-01"))

	_, err := uc.CreateVenta(context.Background(), "user-1", dto.CreateSaleRequest{
		FormData: dto.SaleForm{NumeroFactura: "FAC-102"},
		Detalles: []dto.SaleLine{{ProductoID: producto.ID, Cantidad: 6}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortfall *domain.StockShortfallError
	require.ErrorAs(t, err, &shortfall)
	require.Len(t, shortfall.Shortfalls, 1)
	assert.Equal(t, 6, shortfall.Shortfalls[0].Requested)
	assert.Equal(t, 5, shortfall.Shortfalls[0].Available)

	// Ningún lote se tocó.
	assert.Equal(t, 2, store.Lots[l1.ID].Available)
	assert.Equal(t, 3, store.Lots[l2.ID].Available)
	assert.Empty(t, store.Movements)
}

func TestCreateVenta_UnErrorPorProductoFaltante(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	p1 := store.SeedProduct("Producto A")
	p2 := store.SeedProduct("Producto B")
	store.SeedLot(p1.ID, "L-1", 1, nil)
	store.SeedLot(p2.ID, "L-2", 1, nil)

	_, err := uc.CreateVenta(context.Background(), "user-1", dto.CreateSaleRequest{
		FormData: dto.SaleForm{NumeroFactura: "FAC-103"},
		Detalles: []dto.SaleLine{
			{ProductoID: p1.ID, Cantidad: 5},
			{ProductoID: p2.ID, Cantidad: 9},
		},
	})
	var shortfall *domain.StockShortfallError
	require.ErrorAs(t, err, &shortfall)
	assert.Len(t, shortfall.Shortfalls, 2)
	assert.Len(t, shortfall.Messages(), 2)
}

func TestCreateVenta_SinFactura(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	_, err := uc.CreateVenta(context.Background(), "user-1", dto.CreateSaleRequest{
		FormData: dto.SaleForm{NumeroFactura: " "},
		Detalles: []dto.SaleLine{{ProductoID: "x", Cantidad: 1}},
	})
	require.ErrorIs(t, err, domain.ErrMissingReference)
}

func TestCreateVenta_RegistraRecetas(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Tramadol 50mg")
	producto.RequiresRx = true
	store.SeedLot(producto.ID, "L-1", 10, nil)

	_, err := uc.CreateVenta(context.Background(), "user-1", dto.CreateSaleRequest{
		FormData: dto.SaleForm{NumeroFactura: "FAC-104"},
		Detalles: []dto.SaleLine{{ProductoID: producto.ID, Cantidad: 2, NumeroReceta: "RX-889"}},
	})
	require.NoError(t, err)

	require.Len(t, store.Prescriptions, 1)
	receta := store.Prescriptions[0]
	assert.Equal(t, "FAC-104", receta.InvoiceReference)
	assert.Equal(t, "RX-889", receta.RxReference)
	assert.Equal(t, producto.ID, receta.ProductID)
}

func TestCancelVenta_RoundTrip(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	l1 := store.SeedLot(producto.ID, "L-1", 5, fecha("2030-01-01"))
	l2 := store.SeedLot(producto.ID, "L-2", 10, fecha("2030-06-01"))

	_, err := uc.CreateVenta(context.Background(), "user-1", dto.CreateSaleRequest{
		FormData: dto.SaleForm{NumeroFactura: "FAC-105"},
		Detalles: []dto.SaleLine{{ProductoID: producto.ID, Cantidad: 8}},
	})
	require.NoError(t, err)

	err = uc.CancelVenta(context.Background(), "user-1", "FAC-105", "cliente desistió")
	require.NoError(t, err)

	// Cada lote vuelve a su cantidad previa a la venta.
	assert.Equal(t, 5, store.Lots[l1.ID].Available)
	assert.Equal(t, 10, store.Lots[l2.ID].Available)

	// Originales cancelados más un asiento compensatorio por lote.
	require.Len(t, store.Movements, 4)
	for _, mov := range store.Movements {
		assert.Equal(t, entity.MovementStateCancelado, mov.State)
	}
}

func TestCancelVenta_YaCancelada(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	store.SeedLot(producto.ID, "L-1", 5, nil)

	_, err := uc.CreateVenta(context.Background(), "user-1", dto.CreateSaleRequest{
		FormData: dto.SaleForm{NumeroFactura: "FAC-106"},
		Detalles: []dto.SaleLine{{ProductoID: producto.ID, Cantidad: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, uc.CancelVenta(context.Background(), "user-1", "FAC-106", ""))

	err = uc.CancelVenta(context.Background(), "user-1", "FAC-106", "")
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestCancelVenta_ReferenciaInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	err := uc.CancelVenta(context.Background(), "user-1", "FAC-NADA", "")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateVenta_ProductoInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	_, err := uc.CreateVenta(context.Background(), "user-1", dto.CreateSaleRequest{
		FormData: dto.SaleForm{NumeroFactura: "F-404"},
		Detalles: []dto.SaleLine{{ProductoID: "no-existe", Cantidad: 1}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Movements)
}
