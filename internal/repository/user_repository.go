package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"task-planner/internal/model"
)

// TelegramProfile is the sender info the bot sees on every update.
type TelegramProfile struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

func (p TelegramProfile) matches(u *model.User) bool {
	return u.FirstName == p.FirstName && u.LastName == p.LastName && u.Username == p.Username
}

// UserRepository maps Telegram accounts onto planner owners.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertFromTelegram returns the owner for a Telegram account, creating it on
// first contact. Profile columns are written only when they changed.
func (r *UserRepository) UpsertFromTelegram(ctx context.Context, profile TelegramProfile) (*model.User, error) {
	user, err := r.findByTelegramID(ctx, profile.ID)
	if errors.Is(err, model.ErrNotFound) {
		user = &model.User{
			TelegramID: profile.ID,
			FirstName:  profile.FirstName,
			LastName:   profile.LastName,
			Username:   profile.Username,
		}
		err = storeErr("create user", r.db.WithContext(ctx).Create(user).Error)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, model.ErrConflict) {
			return nil, err
		}
		// Two updates from the same account raced on the unique telegram id.
		user, err = r.findByTelegramID(ctx, profile.ID)
	}
	if err != nil {
		return nil, err
	}
	if profile.matches(user) {
		return user, nil
	}

	updates := map[string]any{
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"username":   profile.Username,
	}
	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, storeErr("update user", err)
	}
	user.FirstName, user.LastName, user.Username = profile.FirstName, profile.LastName, profile.Username
	return user, nil
}

func (r *UserRepository) findByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, storeErr("find user", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, storeErr("find user", err)
	}
	return &user, nil
}

// ListAll returns every owner; the daily report iterates them.
func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}
