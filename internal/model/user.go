package model

import (
	"strings"
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name             string    `gorm:"size:100;not null" json:"name"`
	Email            string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"size:100;not null" json:"-"`
	Role             UserRole  `gorm:"size:20;default:'student'" json:"role"`
	CodeforcesHandle string    `gorm:"size:64" json:"codeforcesHandle"`
	LeetCodeHandle   string    `gorm:"column:leetcode_handle;size:64" json:"leetcodeHandle"`
	GitHubHandle     string    `gorm:"column:github_handle;size:64" json:"githubHandle"`
	LastSeen         time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// Handle 返回某个平台上配置的用户名（已去除首尾空白）
func (u *User) Handle(p Platform) string {
	switch p {
	case PlatformCodeforces:
		return strings.TrimSpace(u.CodeforcesHandle)
	case PlatformLeetCode:
		return strings.TrimSpace(u.LeetCodeHandle)
	case PlatformGitHub:
		return strings.TrimSpace(u.GitHubHandle)
	}
	return ""
}

// PlatformHandles 平台账号绑定请求/响应
type PlatformHandles struct {
	Codeforces string `json:"codeforces"`
	LeetCode   string `json:"leetcode"`
	GitHub     string `json:"github"`
}

func (h PlatformHandles) Get(p Platform) string {
	switch p {
	case PlatformCodeforces:
		return strings.TrimSpace(h.Codeforces)
	case PlatformLeetCode:
		return strings.TrimSpace(h.LeetCode)
	case PlatformGitHub:
		return strings.TrimSpace(h.GitHub)
	}
	return ""
}

func (u *User) Handles() PlatformHandles {
	return PlatformHandles{
		Codeforces: u.Handle(PlatformCodeforces),
		LeetCode:   u.Handle(PlatformLeetCode),
		GitHub:     u.Handle(PlatformGitHub),
	}
}
