package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/inventory"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// Escenario base: hoy=2025-01-01, ventana=30 días.
func TestNextLotState_VentanaDeCaducidad(t *testing.T) {
	hoy := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	casos := []struct {
		nombre string
		actual string
		caduca *time.Time
		espera string
	}{
		{"caduca dentro de la ventana pasa a Próximo a Vencer", entity.LotStateDisponible, date(2025, 1, 20), entity.LotStateProximo},
		{"caduca fuera de la ventana se mantiene Disponible", entity.LotStateDisponible, date(2025, 3, 1), entity.LotStateDisponible},
		{"caduca fuera de la ventana revierte Próximo a Disponible", entity.LotStateProximo, date(2025, 3, 1), entity.LotStateDisponible},
		{"ya caducado pasa a Vencido", entity.LotStateDisponible, date(2024, 12, 31), entity.LotStateVencido},
		{"caduca exactamente hoy pasa a Próximo a Vencer", entity.LotStateDisponible, date(2025, 1, 1), entity.LotStateProximo},
		{"caduca el último día de la ventana pasa a Próximo a Vencer", entity.LotStateDisponible, date(2025, 1, 31), entity.LotStateProximo},
		{"Vencido fuera de ventana revierte a Disponible", entity.LotStateVencido, date(2025, 6, 1), entity.LotStateDisponible},
		{"Cuarentena dentro de ventana también se fuerza", entity.LotStateCuarentena, date(2025, 1, 10), entity.LotStateProximo},
		{"Cuarentena fuera de ventana se respeta", entity.LotStateCuarentena, date(2025, 12, 1), entity.LotStateCuarentena},
		{"sin fecha de caducidad se respeta el estado", entity.LotStateDisponible, nil, entity.LotStateDisponible},
		{"sin fecha revierte estado automático a Disponible", entity.LotStateProximo, nil, entity.LotStateDisponible},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			got := inventory.NextLotState(c.actual, c.caduca, hoy, 30)
			assert.Equal(t, c.espera, got)
		})
	}
}

// Los estados fuertes (Retirado/Devuelto) nunca se sobreescriben, ni siquiera
// con fecha vencida.
func TestNextLotState_EstadosFuertesNoSeTocan(t *testing.T) {
	hoy := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, estado := range []string{entity.LotStateRetirado, entity.LotStateDevuelto} {
		got := inventory.NextLotState(estado, date(2020, 1, 1), hoy, 30)
		assert.Equal(t, estado, got, "el estado fuerte %q debe conservarse", estado)
	}
}

// Aplicar la regla dos veces seguidas no produce más transiciones.
func TestNextLotState_Idempotente(t *testing.T) {
	hoy := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	estados := []string{
		entity.LotStateDisponible, entity.LotStateCuarentena,
		entity.LotStateProximo, entity.LotStateVencido,
		entity.LotStateRetirado, entity.LotStateDevuelto,
	}
	fechas := []*time.Time{nil, date(2024, 6, 1), date(2025, 1, 15), date(2026, 1, 1)}

	for _, e := range estados {
		for _, f := range fechas {
			una := inventory.NextLotState(e, f, hoy, 30)
			dos := inventory.NextLotState(una, f, hoy, 30)
			assert.Equal(t, una, dos, "estado %q fecha %v", e, f)
		}
	}
}
