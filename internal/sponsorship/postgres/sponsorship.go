package postgres

import (
	"gorm.io/gorm"

	sponsorshipDatamodel "github.com/beledshul/sponsorship/internal/core/datamodel/sponsorship"
	"github.com/beledshul/sponsorship/internal/sponsorship"
)

// SponsorshipRepository implements the sponsorship.Repository interface
// using GORM. It also satisfies expense.LedgerAccess for cascade deletes
// and the period aggregates.
type SponsorshipRepository struct {
	db *gorm.DB
}

func NewSponsorshipRepository(db *gorm.DB) *SponsorshipRepository {
	return &SponsorshipRepository{db: db}
}

func (r *SponsorshipRepository) Create(s *sponsorship.Sponsorship) error {
	return r.db.Create(sponsorship.ToDataModel(s)).Error
}

func (r *SponsorshipRepository) GetByID(id string) (*sponsorship.Sponsorship, error) {
	var record sponsorshipDatamodel.Sponsorship
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, sponsorship.ErrNotFound
		}
		return nil, err
	}
	return sponsorship.FromDataModel(&record), nil
}

func (r *SponsorshipRepository) List(filter sponsorship.ListFilter) ([]*sponsorship.Sponsorship, error) {
	query := r.db.Order("created_at DESC")
	if filter.ExpenseID != "" {
		query = query.Where("expense_id = ?", filter.ExpenseID)
	}
	if filter.Month != nil {
		query = query.Where("month = ?", *filter.Month)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}

	var records []*sponsorshipDatamodel.Sponsorship
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return sponsorship.FromDataModelSlice(records), nil
}

func (r *SponsorshipRepository) ListForSlot(expenseID string, month, year int) ([]*sponsorship.Sponsorship, error) {
	var records []*sponsorshipDatamodel.Sponsorship
	err := r.db.
		Where("expense_id = ? AND month = ? AND year = ?", expenseID, month, year).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return sponsorship.FromDataModelSlice(records), nil
}

func (r *SponsorshipRepository) IDsByExpenseID(expenseID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&sponsorshipDatamodel.Sponsorship{}).
		Where("expense_id = ?", expenseID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *SponsorshipRepository) DistinctMemberNames() ([]string, error) {
	var names []string
	err := r.db.Model(&sponsorshipDatamodel.Sponsorship{}).
		Distinct("member_name").
		Order("member_name ASC").
		Pluck("member_name", &names).Error
	return names, err
}

func (r *SponsorshipRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&sponsorshipDatamodel.Sponsorship{}).Error
}

func (r *SponsorshipRepository) SumForSlot(expenseID string, month, year int) (int64, error) {
	var total int64
	err := r.db.Model(&sponsorshipDatamodel.Sponsorship{}).
		Where("expense_id = ? AND month = ? AND year = ?", expenseID, month, year).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}
