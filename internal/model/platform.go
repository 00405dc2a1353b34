package model

type Platform string

const (
	PlatformCodeforces Platform = "CF"
	PlatformLeetCode   Platform = "LC"
	PlatformGitHub     Platform = "GH"
)

// Platforms 固定的抓取顺序
var Platforms = []Platform{PlatformCodeforces, PlatformLeetCode, PlatformGitHub}

func (p Platform) Valid() bool {
	return p == PlatformCodeforces || p == PlatformLeetCode || p == PlatformGitHub
}

func (p Platform) DisplayName() string {
	switch p {
	case PlatformCodeforces:
		return "Codeforces"
	case PlatformLeetCode:
		return "LeetCode"
	case PlatformGitHub:
		return "GitHub"
	}
	return string(p)
}
