package apptest

import (
	"sort"
	"time"

	"github.com/saif-farmacia/saif-api/internal/domain"
	"github.com/saif-farmacia/saif-api/internal/domain/entity"
	"github.com/saif-farmacia/saif-api/internal/domain/repository"
)

// Accesos directos a los fakes, para los constructores de casos de uso que
// leen fuera de transacción.
func (s *Store) ProductRepo() repository.ProductRepository       { return &productRepo{s} }
func (s *Store) LotRepo() repository.LotRepository               { return &lotRepo{s} }
func (s *Store) MovementRepo() repository.MovementRepository     { return &movementRepo{s} }
func (s *Store) AdjustmentRepo() repository.AdjustmentRepository { return &adjustmentRepo{s} }
func (s *Store) ReceptionRepo() repository.ReceptionRepository   { return &receptionRepo{s} }
func (s *Store) ReportRepo() repository.ExpiryReportRepository   { return &reportRepo{s} }
func (s *Store) RestockRepo() repository.RestockRepository       { return &restockRepo{s} }
func (s *Store) UserRepo() repository.UserRepository             { return &userRepo{s} }

// ────────────────────────────────────────────────────────────────────────────
// Movimientos
// ────────────────────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

var _ repository.MovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Create(m *entity.Movement) error {
	r.s.Movements = append(r.s.Movements, m)
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.s.Movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) ListByReference(reference, movType string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.Movements {
		if m.Reference == reference && (movType == "" || m.Type == movType) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *movementRepo) ListByLot(lotID string, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.Movements {
		if m.LotID == lotID {
			out = append(out, m)
		}
	}
	return page(out, limit, offset), nil
}

func (r *movementRepo) ExistsByLot(lotID string) (bool, error) {
	for _, m := range r.s.Movements {
		if m.LotID == lotID {
			return true, nil
		}
	}
	return false, nil
}

func (r *movementRepo) ListReferences(movType string, limit, offset int) ([]repository.ReferenceSummary, error) {
	seen := make(map[string]*repository.ReferenceSummary)
	var order []string
	for _, m := range r.s.Movements {
		if m.Type != movType {
			continue
		}
		sum, ok := seen[m.Reference]
		if !ok {
			seen[m.Reference] = &repository.ReferenceSummary{
				Reference: m.Reference,
				Date:      m.Date,
				UserID:    m.UserID,
				State:     m.State,
			}
			order = append(order, m.Reference)
			continue
		}
		if m.State == entity.MovementStateCompletado {
			sum.State = entity.MovementStateCompletado
		}
	}
	out := make([]repository.ReferenceSummary, 0, len(order))
	for _, ref := range order {
		out = append(out, *seen[ref])
	}
	return page(out, limit, offset), nil
}

func (r *movementRepo) SumCompletedByReferenceAndLot(reference, movType, lotID string) (int, error) {
	total := 0
	for _, m := range r.s.Movements {
		if m.Reference == reference && m.Type == movType && m.LotID == lotID &&
			m.State == entity.MovementStateCompletado {
			total += m.Quantity
		}
	}
	return total, nil
}

func (r *movementRepo) SoldLotsByReference(reference, productID string) ([]repository.SoldLot, error) {
	porLote := make(map[string]int)
	var order []string
	for _, m := range r.s.Movements {
		if m.Reference != reference || m.Type != entity.MovementTypeVEN ||
			m.State != entity.MovementStateCompletado {
			continue
		}
		lot := r.s.Lots[m.LotID]
		if lot == nil || lot.ProductID != productID {
			continue
		}
		if _, ok := porLote[m.LotID]; !ok {
			order = append(order, m.LotID)
		}
		porLote[m.LotID] += -m.Quantity
	}
	out := make([]repository.SoldLot, 0, len(order))
	for _, lotID := range order {
		lot := r.s.Lots[lotID]
		out = append(out, repository.SoldLot{
			LotID:      lotID,
			LotNumber:  lot.LotNumber,
			ExpiryDate: lot.ExpiryDate,
			Sold:       porLote[lotID],
			Available:  lot.Available,
		})
	}
	return out, nil
}

func (r *movementRepo) FirstNegativeAfter(lotIDs []string, since time.Time) (*entity.Movement, error) {
	ids := make(map[string]bool, len(lotIDs))
	for _, id := range lotIDs {
		ids[id] = true
	}
	var first *entity.Movement
	for _, m := range r.s.Movements {
		if !ids[m.LotID] || m.State == entity.MovementStateCancelado {
			continue
		}
		if entity.MovementNature(m.Type) >= 0 {
			continue
		}
		if m.Date.Before(since) {
			continue
		}
		if first == nil || m.Date.Before(first.Date) {
			first = m
		}
	}
	return first, nil
}

func (r *movementRepo) CancelByReference(reference, movType, comment string) (int64, error) {
	var n int64
	for _, m := range r.s.Movements {
		if m.Reference == reference && m.Type == movType && m.State == entity.MovementStateCompletado {
			m.State = entity.MovementStateCancelado
			m.Comment = comment
			n++
		}
	}
	return n, nil
}

func (r *movementRepo) CancelByID(id, comment string) error {
	for _, m := range r.s.Movements {
		if m.ID == id {
			m.State = entity.MovementStateCancelado
			m.Comment = comment
			return nil
		}
	}
	return domain.ErrNotFound
}

// ────────────────────────────────────────────────────────────────────────────
// Ajustes
// ────────────────────────────────────────────────────────────────────────────

type adjustmentRepo struct{ s *Store }

var _ repository.AdjustmentRepository = (*adjustmentRepo)(nil)

func (r *adjustmentRepo) Create(a *entity.Adjustment) error {
	r.s.Adjustments[a.ID] = a
	return nil
}

func (r *adjustmentRepo) CreateDetail(d *entity.AdjustmentDetail) error {
	r.s.AdjustmentDetails = append(r.s.AdjustmentDetails, d)
	return nil
}

func (r *adjustmentRepo) GetByID(id string) (*entity.Adjustment, error) {
	return r.s.Adjustments[id], nil
}

func (r *adjustmentRepo) ListByKind(kind string, limit, offset int) ([]*entity.Adjustment, error) {
	var out []*entity.Adjustment
	for _, a := range r.s.Adjustments {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset), nil
}

func (r *adjustmentRepo) ListDetails(adjustmentID string) ([]*entity.AdjustmentDetail, error) {
	var out []*entity.AdjustmentDetail
	for _, d := range r.s.AdjustmentDetails {
		if d.AdjustmentID == adjustmentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *adjustmentRepo) ExistsDetailForLot(lotID string) (bool, error) {
	for _, d := range r.s.AdjustmentDetails {
		if d.LotID == lotID {
			return true, nil
		}
	}
	return false, nil
}

func (r *adjustmentRepo) UpdateState(id, state string) error {
	a, ok := r.s.Adjustments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.State = state
	return nil
}

// ────────────────────────────────────────────────────────────────────────────
// Recepciones
// ────────────────────────────────────────────────────────────────────────────

type receptionRepo struct{ s *Store }

var _ repository.ReceptionRepository = (*receptionRepo)(nil)

func (r *receptionRepo) Create(rec *entity.Reception) error {
	r.s.Receptions[rec.ID] = rec
	return nil
}

func (r *receptionRepo) CreateDetail(d *entity.ReceptionDetail) error {
	r.s.ReceptionDetails = append(r.s.ReceptionDetails, d)
	return nil
}

func (r *receptionRepo) GetByID(id string) (*entity.Reception, error) {
	return r.s.Receptions[id], nil
}

func (r *receptionRepo) List(limit, offset int) ([]*entity.Reception, error) {
	var out []*entity.Reception
	for _, rec := range r.s.Receptions {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	return page(out, limit, offset), nil
}

func (r *receptionRepo) ListDetails(receptionID string) ([]*entity.ReceptionDetail, error) {
	var out []*entity.ReceptionDetail
	for _, d := range r.s.ReceptionDetails {
		if d.ReceptionID == receptionID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *receptionRepo) ExistsDetailForLot(lotID string) (bool, error) {
	for _, d := range r.s.ReceptionDetails {
		if d.LotID == lotID {
			return true, nil
		}
	}
	return false, nil
}

func (r *receptionRepo) UpdateState(id, state string) error {
	rec, ok := r.s.Receptions[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.State = state
	return nil
}

// ────────────────────────────────────────────────────────────────────────────
// Reportes de vencimiento
// ────────────────────────────────────────────────────────────────────────────

type reportRepo struct{ s *Store }

var _ repository.ExpiryReportRepository = (*reportRepo)(nil)

func (r *reportRepo) Create(rep *entity.ExpiryReport) error {
	r.s.Reports[rep.ID] = rep
	return nil
}

func (r *reportRepo) CreateDetail(d *entity.ExpiryReportDetail) error {
	r.s.ReportDetails = append(r.s.ReportDetails, d)
	return nil
}

func (r *reportRepo) GetByID(id string) (*entity.ExpiryReport, error) {
	return r.s.Reports[id], nil
}

func (r *reportRepo) List(limit, offset int) ([]*entity.ExpiryReport, error) {
	var out []*entity.ExpiryReport
	for _, rep := range r.s.Reports {
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset), nil
}

func (r *reportRepo) ListDetails(reportID string) ([]*entity.ExpiryReportDetail, error) {
	var out []*entity.ExpiryReportDetail
	for _, d := range r.s.ReportDetails {
		if d.ReportID == reportID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *reportRepo) ExistsDetailForLot(lotID string) (bool, error) {
	for _, d := range r.s.ReportDetails {
		if d.LotID == lotID {
			return true, nil
		}
	}
	return false, nil
}

func (r *reportRepo) UpdateState(id, state string) error {
	rep, ok := r.s.Reports[id]
	if !ok {
		return domain.ErrNotFound
	}
	rep.State = state
	return nil
}

// ────────────────────────────────────────────────────────────────────────────
// Solicitudes de faltantes
// ────────────────────────────────────────────────────────────────────────────

type restockRepo struct{ s *Store }

var _ repository.RestockRepository = (*restockRepo)(nil)

func (r *restockRepo) Create(req *entity.RestockRequest) error {
	r.s.Requests[req.ID] = req
	return nil
}

func (r *restockRepo) CreateDetail(d *entity.RestockRequestDetail) error {
	r.s.RequestDetails = append(r.s.RequestDetails, d)
	return nil
}

func (r *restockRepo) GetByID(id string) (*entity.RestockRequest, error) {
	return r.s.Requests[id], nil
}

func (r *restockRepo) List(limit, offset int) ([]*entity.RestockRequest, error) {
	var out []*entity.RestockRequest
	for _, req := range r.s.Requests {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, limit, offset), nil
}

func (r *restockRepo) ListDetails(requestID string) ([]*entity.RestockRequestDetail, error) {
	var out []*entity.RestockRequestDetail
	for _, d := range r.s.RequestDetails {
		if d.RequestID == requestID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *restockRepo) UpdateState(id, state string) error {
	req, ok := r.s.Requests[id]
	if !ok {
		return domain.ErrNotFound
	}
	req.State = state
	return nil
}

// ────────────────────────────────────────────────────────────────────────────
// Recetas y usuarios
// ────────────────────────────────────────────────────────────────────────────

type prescriptionRepo struct{ s *Store }

var _ repository.PrescriptionRepository = (*prescriptionRepo)(nil)

func (r *prescriptionRepo) Create(p *entity.Prescription) error {
	r.s.Prescriptions = append(r.s.Prescriptions, p)
	return nil
}

func (r *prescriptionRepo) ListByReference(invoiceReference string) ([]*entity.Prescription, error) {
	var out []*entity.Prescription
	for _, p := range r.s.Prescriptions {
		if p.InvoiceReference == invoiceReference {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *prescriptionRepo) List(limit, offset int) ([]*entity.Prescription, error) {
	return page(r.s.Prescriptions, limit, offset), nil
}

type userRepo struct{ s *Store }

var _ repository.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(u *entity.User) error {
	r.s.Users[u.ID] = u
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	return r.s.Users[id], nil
}

func (r *userRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
