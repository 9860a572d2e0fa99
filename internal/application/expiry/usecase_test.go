package expiry_test

import (
	"context"
	"testing"
	"time"

	"github.com/saif-farmacia/saif-api/internal/application/apptest"
	"github.com/saif-farmacia/saif-api/internal/application/dto"
	"github.com/saif-farmacia/saif-api/internal/application/expiry"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(store *apptest.Store) *expiry.UseCase {
	return expiry.NewUseCase(store.TxRunner(), store.ReportRepo(), store.LotRepo(), 30)
}

func fecha(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestReconcile_VentanaDeCaducidad(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)
	hoy, _ := time.Parse("2006-01-02", "2025-01-01")

	producto := store.SeedProduct("Paracetamol 500mg")
	vencido := store.SeedLot(producto.ID, "L-VENC", 5, fecha("2024-12-01"))
	proximo := store.SeedLot(producto.ID, "L-PROX", 5, fecha("2025-01-20"))
	lejano := store.SeedLot(producto.ID, "L-LEJOS", 5, fecha("2025-03-01"))
	lejano.State = entity.LotStateProximo // quedó marcado de una corrida vieja
	retirado := store.SeedLot(producto.ID, "L-RET", 0, fecha("2024-01-01"))
	retirado.State = entity.LotStateRetirado

	result, err := uc.Reconcile(context.Background(), hoy)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Vencidos)
	assert.Equal(t, int64(1), result.ProximosAVencer)
	assert.Equal(t, int64(1), result.Revertidos)

	assert.Equal(t, entity.LotStateVencido, store.Lots[vencido.ID].State)
	assert.Equal(t, entity.LotStateProximo, store.Lots[proximo.ID].State)
	assert.Equal(t, entity.LotStateDisponible, store.Lots[lejano.ID].State)
	// Los estados fuertes nunca se pisan.
	assert.Equal(t, entity.LotStateRetirado, store.Lots[retirado.ID].State)

	// Las cantidades no se tocan.
	assert.Equal(t, 5, store.Lots[vencido.ID].Available)

	// Idempotencia: una segunda corrida sin cambios no mueve nada.
	again, err := uc.Reconcile(context.Background(), hoy)
	require.NoError(t, err)
	assert.Equal(t, dto.ReconcileResultDTO{}, again)
}

func TestCreateReporte_RetiraLotesVencidos(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	lote := store.SeedLot(producto.ID, "L-1", 7, fecha("2020-01-01"))
	lote.State = entity.LotStateVencido

	id, err := uc.CreateReporte(context.Background(), "user-1", dto.CreateExpiryReportRequest{
		FormData: dto.ExpiryReportForm{Documento: "Baja trimestral"},
		Detalles: []dto.ExpiryReportLine{{LoteID: lote.ID}},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, store.Lots[lote.ID].Available)
	assert.Equal(t, entity.LotStateDevuelto, store.Lots[lote.ID].State)

	require.Len(t, store.ReportDetails, 1)
	assert.Equal(t, 7, store.ReportDetails[0].Quantity)

	require.Len(t, store.Movements, 1)
	mov := store.Movements[0]
	assert.Equal(t, entity.MovementTypeRET, mov.Type)
	assert.Equal(t, -7, mov.Quantity)
	assert.Equal(t, "VENC-"+id, mov.Reference)
}

func TestCreateReporte_RechazaLoteNoVencido(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	vigente := store.SeedLot(producto.ID, "L-OK", 5, fecha("2030-01-01"))

	_, err := uc.CreateReporte(context.Background(), "user-1", dto.CreateExpiryReportRequest{
		Detalles: []dto.ExpiryReportLine{{LoteID: vigente.ID}},
	})
	require.ErrorIs(t, err, domain.ErrLotNotExpired)

	// Rollback completo: ni reporte ni asientos.
	assert.Empty(t, store.Reports)
	assert.Empty(t, store.Movements)
	assert.Equal(t, 5, store.Lots[vigente.ID].Available)
}

func TestCreateReporte_RechazaLoteSinStock(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	agotado := store.SeedLot(producto.ID, "L-0", 0, fecha("2020-01-01"))

	_, err := uc.CreateReporte(context.Background(), "user-1", dto.CreateExpiryReportRequest{
		Detalles: []dto.ExpiryReportLine{{LoteID: agotado.ID}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestChangeState_CancelarRestauraLotes(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	lote := store.SeedLot(producto.ID, "L-1", 7, fecha("2020-01-01"))
	lote.State = entity.LotStateVencido

	id, err := uc.CreateReporte(context.Background(), "user-1", dto.CreateExpiryReportRequest{
		Detalles: []dto.ExpiryReportLine{{LoteID: lote.ID}},
	})
	require.NoError(t, err)

	err = uc.ChangeState(context.Background(), "user-1", id, entity.ExpiryReportStateCancelado)
	require.NoError(t, err)

	// Cantidad restaurada y estado recalculado por la regla (sigue vencido).
	assert.Equal(t, 7, store.Lots[lote.ID].Available)
	assert.Equal(t, entity.LotStateVencido, store.Lots[lote.ID].State)
	assert.Equal(t, entity.ExpiryReportStateCancelado, store.Reports[id].State)
	require.Len(t, store.Movements, 1)
	assert.Equal(t, entity.MovementStateCancelado, store.Movements[0].State)
}

func TestChangeState_CancelarBloqueadoSiElLoteCambio(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	lote := store.SeedLot(producto.ID, "L-1", 7, fecha("2020-01-01"))
	lote.State = entity.LotStateVencido

	id, err := uc.CreateReporte(context.Background(), "user-1", dto.CreateExpiryReportRequest{
		Detalles: []dto.ExpiryReportLine{{LoteID: lote.ID}},
	})
	require.NoError(t, err)

	// Alguien repuso stock al lote después del retiro.
	store.Lots[lote.ID].Available = 2

	err = uc.ChangeState(context.Background(), "user-1", id, entity.ExpiryReportStateCancelado)
	require.ErrorIs(t, err, domain.ErrLotModified)
	assert.Equal(t, 2, store.Lots[lote.ID].Available)
	assert.Equal(t, entity.ExpiryReportStateCompletado, store.Reports[id].State)
}

func TestChangeState_Transiciones(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	lote := store.SeedLot(producto.ID, "L-1", 7, fecha("2020-01-01"))
	lote.State = entity.LotStateVencido

	id, err := uc.CreateReporte(context.Background(), "user-1", dto.CreateExpiryReportRequest{
		Detalles: []dto.ExpiryReportLine{{LoteID: lote.ID}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.ChangeState(context.Background(), "user-1", id, entity.ExpiryReportStateEnviado))

	// Enviado es terminal: ni re-enviar ni cancelar.
	err = uc.ChangeState(context.Background(), "user-1", id, entity.ExpiryReportStateEnviado)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	err = uc.ChangeState(context.Background(), "user-1", id, entity.ExpiryReportStateCancelado)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestLotesVencidos_SoloConStock(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	producto := store.SeedProduct("Paracetamol 500mg")
	conStock := store.SeedLot(producto.ID, "L-1", 3, fecha("2020-01-01"))
	store.SeedLot(producto.ID, "L-2", 0, fecha("2020-01-01"))
	store.SeedLot(producto.ID, "L-3", 9, fecha("2030-01-01"))

	lotes, err := uc.LotesVencidos(producto.ID)
	require.NoError(t, err)
	require.Len(t, lotes, 1)
	assert.Equal(t, conStock.ID, lotes[0].ID)
}

func TestReconcile_LoteQueVenceHoyNoEstaVencido(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)
	// La corrida llega con hora del día; solo cuenta la fecha.
	ahora, _ := time.Parse("2006-01-02 15:04", "2025-01-01 10:30")

	producto := store.SeedProduct("Paracetamol 500mg")
	venceHoy := store.SeedLot(producto.ID, "L-HOY", 5, fecha("2025-01-01"))

	result, err := uc.Reconcile(context.Background(), ahora)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Vencidos)
	assert.Equal(t, int64(1), result.ProximosAVencer)
	assert.Equal(t, entity.LotStateProximo, store.Lots[venceHoy.ID].State)

	// Al día siguiente sí vence.
	manana, _ := time.Parse("2006-01-02 15:04", "2025-01-02 08:00")
	result, err = uc.Reconcile(context.Background(), manana)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Vencidos)
	assert.Equal(t, entity.LotStateVencido, store.Lots[venceHoy.ID].State)
}

func TestCreateReporte_LoteInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	_, err := uc.CreateReporte(context.Background(), "user-1", dto.CreateExpiryReportRequest{
		Detalles: []dto.ExpiryReportLine{{LoteID: "no-existe"}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Reports)
}

func TestChangeState_ReporteInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store)

	err := uc.ChangeState(context.Background(), "user-1", "no-existe", entity.ExpiryReportStateEnviado)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
