package postgres

import (
	"gorm.io/gorm"

	expenseDatamodel "github.com/beledshul/sponsorship/internal/core/datamodel/expense"
	"github.com/beledshul/sponsorship/internal/expense"
)

// ExpenseRepository implements the expense.Repository interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(exp *expense.Expense) error {
	return r.db.Create(expense.ToDataModel(exp)).Error
}

func (r *ExpenseRepository) GetByID(id string) (*expense.Expense, error) {
	var record expenseDatamodel.Expense
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, expense.ErrNotFound
		}
		return nil, err
	}
	return expense.FromDataModel(&record), nil
}

func (r *ExpenseRepository) GetAll() ([]*expense.Expense, error) {
	var records []*expenseDatamodel.Expense
	err := r.db.Order("position ASC, name ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return expense.FromDataModelSlice(records), nil
}

func (r *ExpenseRepository) Update(exp *expense.Expense) error {
	return r.db.Save(expense.ToDataModel(exp)).Error
}

func (r *ExpenseRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&expenseDatamodel.Expense{}).Error
}
