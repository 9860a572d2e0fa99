// Package apptest provee fakes en memoria de los puertos de persistencia y
// un TxRunner con rollback por snapshot, para probar los casos de uso sin
// base de datos. Los getters de una sola fila siguen el contrato de los
// repos de pgx: fila ausente devuelve (nil, nil), no un error.
package apptest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saif-farmacia/saif-api/internal/application/ports"
	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

// Store estado compartido de todos los fakes.
type Store struct {
	Products          map[string]*entity.Product
	Lots              map[string]*entity.Lot
	Movements         []*entity.Movement
	Adjustments       map[string]*entity.Adjustment
	AdjustmentDetails []*entity.AdjustmentDetail
	Receptions        map[string]*entity.Reception
	ReceptionDetails  []*entity.ReceptionDetail
	Reports           map[string]*entity.ExpiryReport
	ReportDetails     []*entity.ExpiryReportDetail
	Requests          map[string]*entity.RestockRequest
	RequestDetails    []*entity.RestockRequestDetail
	Prescriptions     []*entity.Prescription
	Users             map[string]*entity.User
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		Products:    make(map[string]*entity.Product),
		Lots:        make(map[string]*entity.Lot),
		Adjustments: make(map[string]*entity.Adjustment),
		Receptions:  make(map[string]*entity.Reception),
		Reports:     make(map[string]*entity.ExpiryReport),
		Requests:    make(map[string]*entity.RestockRequest),
		Users:       make(map[string]*entity.User),
	}
}

// Repos devuelve los fakes atados a este estado.
func (s *Store) Repos() ports.Repos {
	return ports.Repos{
		Products:      &productRepo{s},
		Lots:          &lotRepo{s},
		Movements:     &movementRepo{s},
		Adjustments:   &adjustmentRepo{s},
		Receptions:    &receptionRepo{s},
		ExpiryReports: &reportRepo{s},
		Restocks:      &restockRepo{s},
		Prescriptions: &prescriptionRepo{s},
	}
}

// TxRunner devuelve un runner que simula transacciones: ante un error de fn
// restaura el snapshot previo, como haría un ROLLBACK.
func (s *Store) TxRunner() ports.TxRunner {
	return &txRunner{store: s}
}

type txRunner struct {
	store *Store
}

func (t *txRunner) Run(_ context.Context, fn func(r ports.Repos) error) error {
	snapshot := t.store.clone()
	if err := fn(t.store.Repos()); err != nil {
		*t.store = *snapshot
		return err
	}
	return nil
}

func (s *Store) clone() *Store {
	c := NewStore()
	for id, p := range s.Products {
		cp := *p
		c.Products[id] = &cp
	}
	for id, l := range s.Lots {
		cl := *l
		c.Lots[id] = &cl
	}
	for _, m := range s.Movements {
		cm := *m
		c.Movements = append(c.Movements, &cm)
	}
	for id, a := range s.Adjustments {
		ca := *a
		c.Adjustments[id] = &ca
	}
	for _, d := range s.AdjustmentDetails {
		cd := *d
		c.AdjustmentDetails = append(c.AdjustmentDetails, &cd)
	}
	for id, r := range s.Receptions {
		cr := *r
		c.Receptions[id] = &cr
	}
	for _, d := range s.ReceptionDetails {
		cd := *d
		c.ReceptionDetails = append(c.ReceptionDetails, &cd)
	}
	for id, r := range s.Reports {
		cr := *r
		c.Reports[id] = &cr
	}
	for _, d := range s.ReportDetails {
		cd := *d
		c.ReportDetails = append(c.ReportDetails, &cd)
	}
	for id, r := range s.Requests {
		cr := *r
		c.Requests[id] = &cr
	}
	for _, d := range s.RequestDetails {
		cd := *d
		c.RequestDetails = append(c.RequestDetails, &cd)
	}
	for _, p := range s.Prescriptions {
		cp := *p
		c.Prescriptions = append(c.Prescriptions, &cp)
	}
	for id, u := range s.Users {
		cu := *u
		c.Users[id] = &cu
	}
	return c
}

// SeedProduct inserta un producto activo mínimo y lo devuelve.
func (s *Store) SeedProduct(name string) *entity.Product {
	p := &entity.Product{
		ID:          uuid.New().String(),
		Code:        "P-" + name,
		Name:        name,
		UnitMeasure: "unidad",
		State:       entity.ProductStateActivo,
	}
	s.Products[p.ID] = p
	return p
}

// SeedLot inserta un lote disponible y lo devuelve.
func (s *Store) SeedLot(productID, number string, qty int, expiry *time.Time) *entity.Lot {
	l := &entity.Lot{
		ID:         uuid.New().String(),
		ProductID:  productID,
		LotNumber:  number,
		ExpiryDate: expiry,
		Available:  qty,
		State:      entity.LotStateDisponible,
	}
	s.Lots[l.ID] = l
	return l
}

// ────────────────────────────────────────────────────────────────────────────
// Productos
// ────────────────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

var _ repository.ProductRepository = (*productRepo)(nil)

func (r *productRepo) Create(p *entity.Product) error {
	r.s.Products[p.ID] = p
	return nil
}

func (r *productRepo) Update(p *entity.Product) error {
	if _, ok := r.s.Products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Products[p.ID] = p
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.Products[id], nil
}

func (r *productRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.s.Products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) List(limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.Products))
	for _, p := range r.s.Products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

func (r *productRepo) SearchActive(term string, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.Products {
		if p.State != entity.ProductStateActivo {
			continue
		}
		if term == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) ||
			strings.Contains(strings.ToLower(p.Code), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *productRepo) UpdateState(id, state string) error {
	p, ok := r.s.Products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.State = state
	return nil
}

func (r *productRepo) ListLowStock(multiplier float64) ([]repository.LowStockProduct, error) {
	var out []repository.LowStockProduct
	for _, p := range r.s.Products {
		if p.State != entity.ProductStateActivo || p.MinStock <= 0 {
			continue
		}
		total := 0
		for _, l := range r.s.Lots {
			if l.ProductID == p.ID {
				total += l.Available
			}
		}
		if float64(total) < float64(p.MinStock)*multiplier {
			out = append(out, repository.LowStockProduct{
				ProductID:      p.ID,
				Code:           p.Code,
				Name:           p.Name,
				MinStock:       p.MinStock,
				TotalAvailable: total,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Lotes
// ────────────────────────────────────────────────────────────────────────────

type lotRepo struct{ s *Store }

var _ repository.LotRepository = (*lotRepo)(nil)

func (r *lotRepo) Create(l *entity.Lot) error {
	r.s.Lots[l.ID] = l
	return nil
}

func (r *lotRepo) Update(l *entity.Lot) error {
	if _, ok := r.s.Lots[l.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Lots[l.ID] = l
	return nil
}

func (r *lotRepo) GetByID(id string) (*entity.Lot, error) {
	return r.s.Lots[id], nil
}

func (r *lotRepo) GetByProductAndNumber(productID, lotNumber string) (*entity.Lot, error) {
	for _, l := range r.s.Lots {
		if l.ProductID == productID && l.LotNumber == lotNumber {
			return l, nil
		}
	}
	return nil, nil
}

func (r *lotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	return r.GetByID(id)
}

// ListForUpdate omite ids inexistentes, como el ANY($1) del repo real.
func (r *lotRepo) ListForUpdate(ids []string) ([]*entity.Lot, error) {
	out := make([]*entity.Lot, 0, len(ids))
	for _, id := range ids {
		if l, ok := r.s.Lots[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *lotRepo) ListSellableForUpdate(productID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.s.Lots {
		if l.ProductID != productID || l.Available <= 0 {
			continue
		}
		for _, st := range entity.SellableLotStates {
			if l.State == st {
				out = append(out, l)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			return a.ID < b.ID
		case a.ExpiryDate == nil:
			return false
		case b.ExpiryDate == nil:
			return true
		case a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ID < b.ID
		default:
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
	})
	return out, nil
}

func (r *lotRepo) AddQuantity(id string, delta int) error {
	l, ok := r.s.Lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	if l.Available+delta < 0 {
		return domain.ErrInsufficientStock
	}
	l.Available += delta
	return nil
}

func (r *lotRepo) SetQuantityAndState(id string, quantity int, state string) error {
	l, ok := r.s.Lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Available = quantity
	l.State = state
	return nil
}

func (r *lotRepo) UpdateState(id, state string) error {
	l, ok := r.s.Lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.State = state
	return nil
}

func (r *lotRepo) ListByProduct(productID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.s.Lots {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LotNumber < out[j].LotNumber })
	return out, nil
}

func (r *lotRepo) SearchByProduct(productID, term string, states []string, limit int) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.s.Lots {
		if l.ProductID != productID {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(l.LotNumber), strings.ToLower(term)) {
			continue
		}
		if len(states) > 0 {
			match := false
			for _, st := range states {
				if l.State == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LotNumber < out[j].LotNumber })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *lotRepo) ListExpiredWithStock(productID string, today time.Time) ([]*entity.Lot, error) {
	hoy := dateOnly(today)
	var out []*entity.Lot
	for _, l := range r.s.Lots {
		if productID != "" && l.ProductID != productID {
			continue
		}
		if l.ExpiryDate != nil && dateOnly(*l.ExpiryDate).Before(hoy) && l.Available > 0 {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LotNumber < out[j].LotNumber })
	return out, nil
}

func (r *lotRepo) TotalAvailable(productID string) (int, error) {
	total := 0
	for _, l := range r.s.Lots {
		if l.ProductID == productID {
			total += l.Available
		}
	}
	return total, nil
}

func (r *lotRepo) MarkExpired(today time.Time) (int64, error) {
	hoy := dateOnly(today)
	var n int64
	for _, l := range r.s.Lots {
		if l.IsStrongState() || l.State == entity.LotStateVencido {
			continue
		}
		if l.ExpiryDate != nil && dateOnly(*l.ExpiryDate).Before(hoy) {
			l.State = entity.LotStateVencido
			n++
		}
	}
	return n, nil
}

func (r *lotRepo) MarkNearExpiry(today time.Time, windowDays int) (int64, error) {
	hoy := dateOnly(today)
	limite := hoy.AddDate(0, 0, windowDays)
	var n int64
	for _, l := range r.s.Lots {
		if l.IsStrongState() || l.State == entity.LotStateProximo {
			continue
		}
		if l.ExpiryDate == nil {
			continue
		}
		exp := dateOnly(*l.ExpiryDate)
		if !exp.Before(hoy) && !exp.After(limite) {
			l.State = entity.LotStateProximo
			n++
		}
	}
	return n, nil
}

func (r *lotRepo) RevertNearExpiry(today time.Time, windowDays int) (int64, error) {
	hoy := dateOnly(today)
	limite := hoy.AddDate(0, 0, windowDays)
	var n int64
	for _, l := range r.s.Lots {
		if !l.IsAutoState() {
			continue
		}
		if l.ExpiryDate == nil || dateOnly(*l.ExpiryDate).After(limite) {
			l.State = entity.LotStateDisponible
			n++
		}
	}
	return n, nil
}

func (r *lotRepo) Delete(id string) error {
	if _, ok := r.s.Lots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Lots, id)
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
