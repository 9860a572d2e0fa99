package restock_test

import (
	"context"
	"testing"

	"github.com/saif-farmacia/saif-api/internal/application/apptest"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/restock"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(store *apptest.Store) *restock.UseCase {
	return restock.NewUseCase(store.TxRunner(), store.RestockRepo(), store.ProductRepo(), 1.5)
}

func TestSuggestions_ProductosBajoElUmbral(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	bajo := store.SeedProduct("Paracetamol 500mg")
	bajo.MinStock = 10
	store.SeedLot(bajo.ID, "L-1", 8, nil) // 8 < 10*1.5

	sano := store.SeedProduct("Ibuprofeno 400mg")
	sano.MinStock = 10
	store.SeedLot(sano.ID, "L-2", 20, nil)

	sinMinimo := store.SeedProduct("Suero fisiológico")
	sinMinimo.MinStock = 0
	store.SeedLot(sinMinimo.ID, "L-3", 0, nil)

	sugerencias, err := uc.Suggestions()
	require.NoError(t, err)
	require.Len(t, sugerencias, 1)

	s := sugerencias[0]
	assert.Equal(t, bajo.ID, s.ProductoID)
	assert.Equal(t, 8, s.StockDisponible)
	// Objetivo 15 (10 * 1.5), faltan 7.
	assert.Equal(t, 7, s.CantidadSugerida)
}

func TestSuggestions_OrdenPorDeficitRelativo(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	medio := store.SeedProduct("Producto medio")
	medio.MinStock = 10
	store.SeedLot(medio.ID, "L-1", 8, nil)

	critico := store.SeedProduct("Producto crítico")
	critico.MinStock = 10
	store.SeedLot(critico.ID, "L-2", 1, nil)

	sugerencias, err := uc.Suggestions()
	require.NoError(t, err)
	require.Len(t, sugerencias, 2)
	assert.Equal(t, critico.ID, sugerencias[0].ProductoID)
	assert.Equal(t, medio.ID, sugerencias[1].ProductoID)
}

func TestCreate_RegistraSolicitudPendiente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")

	id, err := uc.Create(context.Background(), "user-1", dto.CreateRestockRequest{
		FormData: dto.RestockForm{NombreDocumento: "Solicitud enero"},
		Detalles: []dto.RestockLine{
			{ProductoID: producto.ID, Cantidad: 30, Urgente: true, Observaciones: "se agota rápido"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RestockStatePendiente, store.Requests[id].State)
	require.Len(t, store.RequestDetails, 1)
	det := store.RequestDetails[0]
	assert.Equal(t, 30, det.Quantity)
	assert.True(t, det.Urgent)
}

func TestCreate_ProductoInexistenteRevierteTodo(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")

	_, err := uc.Create(context.Background(), "user-1", dto.CreateRestockRequest{
		FormData: dto.RestockForm{NombreDocumento: "Solicitud"},
		Detalles: []dto.RestockLine{
			{ProductoID: producto.ID, Cantidad: 5},
			{ProductoID: "no-existe", Cantidad: 2},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Requests)
	assert.Empty(t, store.RequestDetails)
}

func TestChangeState_TransicionesPermitidas(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	id, err := uc.Create(context.Background(), "user-1", dto.CreateRestockRequest{
		FormData: dto.RestockForm{NombreDocumento: "Solicitud"},
		Detalles: []dto.RestockLine{{ProductoID: producto.ID, Cantidad: 5}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.ChangeState(context.Background(), id, entity.RestockStateEnviada))
	require.NoError(t, uc.ChangeState(context.Background(), id, entity.RestockStateAtendida))

	// Atendida es terminal.
	err = uc.ChangeState(context.Background(), id, entity.RestockStateCancelada)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestChangeState_CancelarSoloPendiente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	id, err := uc.Create(context.Background(), "user-1", dto.CreateRestockRequest{
		FormData: dto.RestockForm{NombreDocumento: "Solicitud"},
		Detalles: []dto.RestockLine{{ProductoID: producto.ID, Cantidad: 5}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.ChangeState(context.Background(), id, entity.RestockStateCancelada))
	assert.Equal(t, entity.RestockStateCancelada, store.Requests[id].State)
}

func TestChangeState_SolicitudInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	err := uc.ChangeState(context.Background(), "no-existe", entity.RestockStateEnviada)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
