package nix

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bianoble/flakewatch/internal/model"
)

// Lock data structures as emitted by `nix flake metadata --json`.
// Unknown fields are ignored to stay compatible across nix versions.

type flakeMetadata struct {
	Description string    `json:"description"`
	Locks       flakeLock `json:"locks"`
}

type flakeLock struct {
	Nodes map[string]lockNode `json:"nodes"`
	Root  string              `json:"root"`
}

type lockNode struct {
	Inputs   map[string]json.RawMessage `json:"inputs"`
	Locked   *lockedRef                 `json:"locked"`
	Original *originalRef               `json:"original"`
}

type lockedRef struct {
	Type         string `json:"type"`
	Owner        string `json:"owner"`
	Repo         string `json:"repo"`
	Rev          string `json:"rev"`
	LastModified int64  `json:"lastModified"`
	URL          string `json:"url"`
	Path         string `json:"path"`
	Host         string `json:"host"`
}

type originalRef struct {
	Type  string `json:"type"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Ref   string `json:"ref"`
	URL   string `json:"url"`
	Path  string `json:"path"`
	Host  string `json:"host"`
}

// parseMetadata maps the nix lock graph onto the input list: the root
// node's input edges name the nodes to convert. Inputs come back sorted
// case-insensitively by name.
func parseMetadata(path string, raw []byte) (*model.FlakeData, error) {
	var meta flakeMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, &ParseError{Err: err}
	}

	data := &model.FlakeData{Path: path, Description: meta.Description}

	root, ok := meta.Locks.Nodes[meta.Locks.Root]
	if !ok {
		return data, nil
	}

	for name, edge := range root.Inputs {
		nodeName, ok := resolveEdge(edge)
		if !ok {
			continue
		}
		node, ok := meta.Locks.Nodes[nodeName]
		if !ok {
			continue
		}
		if input, ok := parseInput(name, node); ok {
			data.Inputs = append(data.Inputs, input)
		}
	}

	sort.Slice(data.Inputs, func(i, j int) bool {
		return strings.ToLower(data.Inputs[i].Name()) < strings.ToLower(data.Inputs[j].Name())
	})

	return data, nil
}

// resolveEdge handles input edges that are either a node name or a path
// of names (follows-style); only the first element matters here.
func resolveEdge(edge json.RawMessage) (string, bool) {
	var name string
	if err := json.Unmarshal(edge, &name); err == nil {
		return name, true
	}
	var path []string
	if err := json.Unmarshal(edge, &path); err == nil && len(path) > 0 {
		return path[0], true
	}
	return "", false
}

func parseInput(name string, node lockNode) (model.FlakeInput, bool) {
	locked := node.Locked
	if locked == nil {
		return model.FlakeInput{}, false
	}
	orig := node.Original

	lockType := locked.Type
	if lockType == "" && orig != nil {
		lockType = orig.Type
	}
	if lockType == "" {
		lockType = "other"
	}

	switch lockType {
	case "github", "gitlab", "sourcehut", "git":
		g := &model.GitInput{
			Name:         name,
			Owner:        firstOf(locked.Owner, origOwner(orig)),
			Repo:         firstOf(locked.Repo, origRepo(orig)),
			Host:         firstOf(locked.Host, origHost(orig)),
			Rev:          locked.Rev,
			LastModified: locked.LastModified,
		}
		if orig != nil {
			g.Reference = orig.Ref
		}
		rawURL := firstOf(locked.URL, origURL(orig))
		g.Forge = model.DetectForge(lockType, rawURL)
		g.URL = displayURL(lockType, g, rawURL)

		// Generic git inputs often carry only a URL; recover owner/repo
		// from it, or degrade to Other when that fails.
		if g.Owner == "" || g.Repo == "" {
			owner, repo, ok := model.ParseOwnerRepo(rawURL)
			if !ok {
				return model.FlakeInput{
					Kind: model.KindOther,
					Other: &model.OtherInput{
						Name:         name,
						URL:          firstOf(rawURL, "unknown"),
						Rev:          locked.Rev,
						LastModified: locked.LastModified,
					},
				}, true
			}
			g.Owner, g.Repo = owner, repo
		}

		return model.FlakeInput{Kind: model.KindGit, Git: g}, true

	case "path":
		p := firstOf(locked.Path, origPath(orig))
		return model.FlakeInput{
			Kind: model.KindPath,
			Path: &model.PathInput{Name: name, Path: p},
		}, true

	default:
		return model.FlakeInput{
			Kind: model.KindOther,
			Other: &model.OtherInput{
				Name:         name,
				URL:          firstOf(locked.URL, origURL(orig), "unknown"),
				Rev:          locked.Rev,
				LastModified: locked.LastModified,
			},
		}, true
	}
}

// displayURL builds the short locator shown in the list view.
func displayURL(lockType string, g *model.GitInput, rawURL string) string {
	switch lockType {
	case "github":
		return fmt.Sprintf("github:%s/%s", g.Owner, g.Repo)
	case "gitlab":
		if g.Host != "" && g.Host != "gitlab.com" {
			return fmt.Sprintf("gitlab:%s/%s (%s)", g.Owner, g.Repo, g.Host)
		}
		return fmt.Sprintf("gitlab:%s/%s", g.Owner, g.Repo)
	case "sourcehut":
		owner := g.Owner
		if !strings.HasPrefix(owner, "~") {
			owner = "~" + owner
		}
		return fmt.Sprintf("sourcehut:%s/%s", owner, g.Repo)
	case "git":
		if rawURL != "" {
			return rawURL
		}
		return fmt.Sprintf("git:%s/%s", g.Owner, g.Repo)
	default:
		return "unknown"
	}
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func origOwner(o *originalRef) string {
	if o == nil {
		return ""
	}
	return o.Owner
}

func origRepo(o *originalRef) string {
	if o == nil {
		return ""
	}
	return o.Repo
}

func origHost(o *originalRef) string {
	if o == nil {
		return ""
	}
	return o.Host
}

func origURL(o *originalRef) string {
	if o == nil {
		return ""
	}
	return o.URL
}

func origPath(o *originalRef) string {
	if o == nil {
		return ""
	}
	return o.Path
}
