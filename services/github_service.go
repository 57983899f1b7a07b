// file: services/github_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// 只抓这些后缀的文件参与评审
var fetchableExtensions = map[string]bool{
	".go": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".py": true, ".java": true, ".rb": true, ".rs": true, ".c": true,
	".cpp": true, ".h": true, ".cs": true, ".php": true, ".vue": true,
	".md": true, ".json": true, ".yml": true, ".yaml": true,
}

// GitHubFetcher 通过 GitHub REST API 抓取仓库元数据和有限量的源文件。
// 单个文件抓取失败只跳过（允许部分内容），仓库级接口失败才算整体失败。
type GitHubFetcher struct {
	BaseURL  string
	Token    string
	MaxFiles int
	MaxBytes int64
	Client   *http.Client
}

func NewGitHubFetcher(token string, maxFiles int, maxBytes int64) *GitHubFetcher {
	if maxFiles <= 0 {
		maxFiles = 12
	}
	if maxBytes <= 0 {
		maxBytes = 200 * 1024
	}
	return &GitHubFetcher{
		BaseURL:  "https://api.github.com",
		Token:    token,
		MaxFiles: maxFiles,
		MaxBytes: maxBytes,
		Client:   &http.Client{Timeout: 20 * time.Second},
	}
}

// ParseRepoURL 从 github.com 仓库链接解析 owner/repo
func ParseRepoURL(raw string) (owner string, repo string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("无法解析仓库链接: %w", err)
	}
	if !strings.HasSuffix(u.Hostname(), "github.com") {
		return "", "", fmt.Errorf("不是 GitHub 仓库链接: %s", raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("仓库链接缺少 owner/repo: %s", raw)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// Fetch 抓取仓库默认分支下的源文件，受 MaxFiles / MaxBytes 双上限约束。
func (f *GitHubFetcher) Fetch(ctx context.Context, githubURL string) (*RepoSource, error) {
	owner, repo, err := ParseRepoURL(githubURL)
	if err != nil {
		return nil, err
	}

	var meta struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := f.getJSON(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &meta); err != nil {
		return nil, fmt.Errorf("仓库元数据获取失败: %w", err)
	}
	if meta.DefaultBranch == "" {
		meta.DefaultBranch = "main"
	}

	var tree struct {
		Truncated bool `json:"truncated"`
		Tree      []struct {
			Path string `json:"path"`
			Type string `json:"type"`
			Size int64  `json:"size"`
		} `json:"tree"`
	}
	err = f.getJSON(ctx,
		fmt.Sprintf("/repos/%s/%s/git/trees/%s?recursive=1", owner, repo, meta.DefaultBranch), &tree)
	if err != nil {
		return nil, fmt.Errorf("仓库文件树获取失败: %w", err)
	}

	src := &RepoSource{
		Owner:         owner,
		Repo:          repo,
		DefaultBranch: meta.DefaultBranch,
		Truncated:     tree.Truncated,
	}

	var totalBytes int64
	for _, entry := range tree.Tree {
		if len(src.Files) >= f.MaxFiles || totalBytes >= f.MaxBytes {
			src.Truncated = true
			break
		}
		if entry.Type != "blob" || !fetchableExtensions[strings.ToLower(path.Ext(entry.Path))] {
			continue
		}
		if entry.Size > f.MaxBytes-totalBytes {
			src.Truncated = true
			continue
		}

		content, err := f.getRaw(ctx,
			fmt.Sprintf("/repos/%s/%s/contents/%s?ref=%s", owner, repo, entry.Path, meta.DefaultBranch))
		if err != nil {
			// 单文件失败不终止整体抓取
			continue
		}
		src.Files = append(src.Files, SourceFile{Path: entry.Path, Content: string(content)})
		totalBytes += int64(len(content))
	}
	return src, nil
}

func (f *GitHubFetcher) getJSON(ctx context.Context, p string, out interface{}) error {
	body, err := f.get(ctx, p, "application/vnd.github+json")
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (f *GitHubFetcher) getRaw(ctx context.Context, p string) ([]byte, error) {
	return f.get(ctx, p, "application/vnd.github.raw+json")
}

func (f *GitHubFetcher) get(ctx context.Context, p string, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+p, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API 返回 %d: %s", resp.StatusCode, p)
	}
	// 双倍于配额的读取上限，防御异常响应体
	return io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes*2))
}
