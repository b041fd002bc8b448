package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"venue_pos/model"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrTableTaken    = errors.New("table already exists")
)

// AccountByUsername returns nil, nil when no account has the username.
func (s *Store) AccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	if err := s.db.WithContext(ctx).Where(&model.Account{Username: username}).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// AccountByTable returns nil, nil when no account sits at the table.
func (s *Store) AccountByTable(ctx context.Context, table int) (*model.Account, error) {
	var account model.Account
	if err := s.db.WithContext(ctx).Where("table_number = ?", table).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (s *Store) Accounts(ctx context.Context) (model.Accounts, error) {
	var accounts model.Accounts
	if err := s.db.WithContext(ctx).Order("id").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// CreateAccount inserts the account unless its username or table is already used.
func (s *Store) CreateAccount(ctx context.Context, account *model.Account) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Account{}).Where("username = ?", account.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}
		if account.TableNumber != nil {
			if err := tx.Model(&model.Account{}).Where("table_number = ?", *account.TableNumber).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrTableTaken
			}
		}
		return tx.Create(account).Error
	})
}

// DeleteTable removes the table's account. Orders placed from it are kept.
func (s *Store) DeleteTable(ctx context.Context, table int) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("table_number = ? AND role = ?", table, model.RoleTable).
		Delete(&model.Account{})
	if res.Error != nil {
		return false, fmt.Errorf("delete table %d: %w", table, res.Error)
	}
	return res.RowsAffected > 0, nil
}
