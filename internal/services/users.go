package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/utils"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserUpdate is a partial update. Username and Role are honored only for admins.
type UserUpdate struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Password    *string `json:"password"`
	Role        *string `json:"role"`
}

type UserPage struct {
	TotalUsers int64         `json:"total_users"`
	Users      []models.User `json:"users"`
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, skip, limit int) (*UserPage, error) {
	if err := checkPage(skip, limit); err != nil {
		return nil, err
	}

	page := &UserPage{Users: []models.User{}}
	db := s.db.WithContext(ctx).Model(&models.User{})
	if err := db.Count(&page.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Order("id").Offset(skip).Limit(limit).Find(&page.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

// UpdateProfile lets a user change their own email, phone number and password.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in UserUpdate) (*models.User, error) {
	in.Username = nil
	in.Role = nil
	return s.update(ctx, id, in)
}

// Update is the admin variant and may also rename or change the role.
func (s *UserService) Update(ctx context.Context, id uint, in UserUpdate) (*models.User, error) {
	if in.Role != nil && !models.IsValidRole(*in.Role) {
		return nil, invalid("Invalid role: %s", *in.Role)
	}
	return s.update(ctx, id, in)
}

func (s *UserService) update(ctx context.Context, id uint, in UserUpdate) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	var username, email, phone string

	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, invalid("Username cannot be empty")
		}
		updates["username"] = username
	}
	if in.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*in.Email))
		if err := validate.Var(email, "required,email"); err != nil {
			return nil, invalid("Invalid email address")
		}
		updates["email"] = email
	}
	if in.PhoneNumber != nil {
		phone = strings.TrimSpace(*in.PhoneNumber)
		if phone == "" {
			return nil, invalid("Phone number cannot be empty")
		}
		updates["phone_number"] = phone
	}
	if in.Password != nil {
		if len(*in.Password) < MinPasswordLength {
			return nil, invalid("Password must be at least %d characters", MinPasswordLength)
		}
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["hashed_password"] = hash
	}
	if in.Role != nil {
		updates["role"] = *in.Role
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := checkUserUnique(s.db.WithContext(ctx), id, username, email, phone); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Username or email already registered")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the account with its cart and wishlist. Orders and reviews are kept.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("User not found")
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.WishlistItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear wishlist: %w", err)
		}
		return nil
	})
}

const MaxPageSize = 100

func checkPage(skip, limit int) error {
	if skip < 0 {
		return invalid("skip must be non-negative")
	}
	if limit < 1 || limit > MaxPageSize {
		return invalid("limit must be between 1 and %d", MaxPageSize)
	}
	return nil
}
