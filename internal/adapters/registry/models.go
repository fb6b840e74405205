package registry

import "time"

// Repo is a partial hosting-API repository document with the fields we use
type Repo struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Owner         Owner     `json:"owner"`
	HTMLURL       string    `json:"html_url"`
	Description   *string   `json:"description"`
	Stargazers    int       `json:"stargazers_count"`
	Language      *string   `json:"language"`
	Topics        []string  `json:"topics"`
	DefaultBranch string    `json:"default_branch"`
	Private       bool      `json:"private"`
	Fork          bool      `json:"fork"`
	Archived      bool      `json:"archived"`
	PushedAt      time.Time `json:"pushed_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Owner is the slice of the owner document we care about
type Owner struct {
	Login string `json:"login"`
}

// SearchResult is one page of repository search hits
type SearchResult struct {
	TotalCount        int    `json:"total_count"`
	IncompleteResults bool   `json:"incomplete_results"`
	Items             []Repo `json:"items"`
}

// Entry is one contents-API directory entry
type Entry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"` // "file" | "dir" | "symlink" | "submodule"
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// IsDir reports whether the entry is traversable
func (e Entry) IsDir() bool { return e.Type == "dir" }

// IsFile reports whether the entry carries downloadable content
func (e Entry) IsFile() bool { return e.Type == "file" || e.Type == "symlink" }
