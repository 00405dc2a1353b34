package repository

import (
	"devtrack_backend/internal/model"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByIDs(ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// UpdateHandles 只更新三个平台账号字段
func (r *UserRepository) UpdateHandles(userID uint, h model.PlatformHandles) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"codeforces_handle": strings.TrimSpace(h.Codeforces),
			"leetcode_handle":   strings.TrimSpace(h.LeetCode),
			"github_handle":     strings.TrimSpace(h.GitHub),
		}).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint, at time.Time) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("last_seen", at).Error
}

var handleColumns = map[model.Platform]string{
	model.PlatformCodeforces: "codeforces_handle",
	model.PlatformLeetCode:   "leetcode_handle",
	model.PlatformGitHub:     "github_handle",
}

// FindDueForSync 按平台逐个判断：已绑定的平台从未同步、换过账号、或最近同步早于 before，用户即到期。
// 已解绑平台遗留的同步状态不参与判断
func (r *UserRepository) FindDueForSync(before time.Time, limit int) ([]uint, error) {
	query := r.DB.Table("users").Select("users.id").Where("users.deleted_at IS NULL")

	conds := make([]string, 0, len(model.Platforms))
	args := make([]interface{}, 0, len(model.Platforms))
	for _, p := range model.Platforms {
		alias := "ss_" + strings.ToLower(string(p))
		handle := "users." + handleColumns[p]
		query = query.Joins(fmt.Sprintf(
			"LEFT JOIN sync_states %[1]s ON %[1]s.user_id = users.id AND %[1]s.platform = ? AND %[1]s.deleted_at IS NULL",
			alias), string(p))
		conds = append(conds, fmt.Sprintf(
			"(%[2]s <> '' AND (%[1]s.id IS NULL OR COALESCE(%[1]s.handle, '') <> %[2]s OR %[1]s.last_synced_at < ?))",
			alias, handle))
		args = append(args, before)
	}

	var ids []uint
	err := query.
		Where(strings.Join(conds, " OR "), args...).
		Order("users.id").
		Limit(limit).
		Pluck("users.id", &ids).Error
	return ids, err
}
