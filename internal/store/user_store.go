package store

import (
	"context"

	"blogapi/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	return u.db.WithContext(ctx).Create(usr).Error
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ? AND deleted_at IS NULL", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (u *UserStore) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "login = ? AND deleted_at IS NULL", login).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ? AND deleted_at IS NULL", email).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// LoginsByIDs resolves display logins for a set of users in one query. Used
// when rebuilding the newest-likers cache.
func (u *UserStore) LoginsByIDs(ctx context.Context, ids []domain.UserID) (map[domain.UserID]string, error) {
	out := make(map[domain.UserID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.User
	if err := u.db.WithContext(ctx).
		Select("id", "login").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r.Login
	}
	return out, nil
}
