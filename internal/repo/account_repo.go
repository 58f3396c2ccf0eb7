package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/licx/authgate/internal/model"
	"github.com/licx/authgate/internal/pkg/dbutil"
	appErr "github.com/licx/authgate/internal/pkg/errors"
)

var accountFields = []string{"id", "username", "email", "password", "role", "register_time"}

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// Create inserts the account and fills in the store-assigned id.
func (r *AccountRepo) Create(ctx context.Context, account *model.Account) error {
	data := map[string]interface{}{
		"username":      account.Username,
		"email":         account.Email,
		"password":      account.Password,
		"role":          account.Role,
		"register_time": account.RegisterTime,
	}
	sqlStr, args, err := builder.BuildInsert("account", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	sqlStr += " RETURNING id"
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&account.ID); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

// FindByUsernameOrEmail matches the login identifier against both the
// username and email columns.
func (r *AccountRepo) FindByUsernameOrEmail(ctx context.Context, text string) (*model.Account, error) {
	where := map[string]interface{}{
		"_or": []map[string]interface{}{
			{"username": text},
			{"email": text},
		},
	}
	return r.queryOne(ctx, where)
}

func (r *AccountRepo) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	return r.queryOne(ctx, map[string]interface{}{"id": id})
}

func (r *AccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, map[string]interface{}{"email": email})
}

func (r *AccountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, map[string]interface{}{"username": username})
}

// UpdatePassword replaces the stored hash for the account owning email.
func (r *AccountRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	where := map[string]interface{}{"email": email}
	update := map[string]interface{}{"password": passwordHash}
	sqlStr, args, err := builder.BuildUpdate("account", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *AccountRepo) queryOne(ctx context.Context, where map[string]interface{}) (*model.Account, error) {
	sqlStr, args, err := builder.BuildSelect("account", where, accountFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var account model.Account
	if err := rows.Scan(&account.ID, &account.Username, &account.Email, &account.Password, &account.Role, &account.RegisterTime); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepo) exists(ctx context.Context, where map[string]interface{}) (bool, error) {
	sqlStr, args, err := builder.BuildSelect("account", where, []string{"id"})
	if err != nil {
		return false, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()
	return rows.Next(), nil
}
