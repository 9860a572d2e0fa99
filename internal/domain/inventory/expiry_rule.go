package inventory

import (
	"time"

	"github.com/saif-farmacia/saif-api/internal/domain/entity"
)

// NextLotState implementa la regla automática de estado por fecha de
// caducidad (servicio de dominio). Es función pura de
// (estado actual, fecha de caducidad, hoy, ventana en días) e idempotente:
//
//   - Retirado/Devuelto (estados fuertes) nunca se tocan.
//   - caducidad < hoy                      → Vencido
//   - caducidad <= hoy + ventana           → Próximo a Vencer
//   - fuera de ventana y el estado actual era automático → Disponible
//   - en cualquier otro caso se respeta el estado elegido por el usuario.
//
// Nunca modifica cantidades, solo calcula el estado siguiente.
func NextLotState(current string, expiry *time.Time, today time.Time, windowDays int) string {
	if entity.IsStrongState(current) {
		return current
	}

	auto := autoStateFor(expiry, today, windowDays)
	if auto != "" {
		return auto
	}

	// Ya no aplica estado automático: si venía de uno, vuelve a Disponible.
	if entity.IsAutoState(current) {
		return entity.LotStateDisponible
	}
	return current
}

// autoStateFor devuelve Vencido/Próximo a Vencer según la fecha, o "" si
// la fecha no cae en ninguna ventana (o no hay fecha).
func autoStateFor(expiry *time.Time, today time.Time, windowDays int) string {
	if expiry == nil {
		return ""
	}
	day := dateOnly(*expiry)
	hoy := dateOnly(today)
	if day.Before(hoy) {
		return entity.LotStateVencido
	}
	limit := hoy.AddDate(0, 0, windowDays)
	if !day.After(limit) {
		return entity.LotStateProximo
	}
	return ""
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
