// file: dto/user.go
package dto

import "strings"

type RegisterReq struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Email          string `json:"email"`
	GithubUsername string `json:"github_username"`

	// 兼容旧客户端
	GithubUsernameCamel string `json:"githubUsername"`
}

func (r *RegisterReq) Normalize() {
	if r.GithubUsername == "" && r.GithubUsernameCamel != "" {
		r.GithubUsername = r.GithubUsernameCamel
	}
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.GithubUsername = strings.TrimSpace(r.GithubUsername)
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResp struct {
	ID             uint32 `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	GithubUsername string `json:"github_username,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Role           string `json:"role"`
}
