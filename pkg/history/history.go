// Package history encodes viewer positions as navigable history entries.
package history

import (
	"regexp"
	"strconv"
	"strings"
)

// Token is the state stored with a history entry. A nil Index means that no
// photo is selected and the viewer is closed.
type Token struct {
	Index *int `json:"index"`
}

// Selected returns a token for the photo at index i.
func Selected(i int) Token {
	return Token{Index: &i}
}

// None returns the "no selection" token.
func None() Token {
	return Token{}
}

// Selection returns the selected index, if any.
func (t Token) Selection() (int, bool) {
	if t.Index == nil {
		return 0, false
	}
	return *t.Index, true
}

// Title is the 1-based position as shown in history menus, or "" when closed.
func (t Token) Title() string {
	if i, ok := t.Selection(); ok {
		return strconv.Itoa(i + 1)
	}
	return ""
}

// Sink receives history entries produced by viewer navigation.
type Sink interface {
	Push(t Token)
}

// PhotoPath matches the trailing 1-based photo position of a URL path.
var PhotoPath = regexp.MustCompile(`/([0-9]+)/?$`)

// PathFor returns path with its trailing photo position replaced to match t.
func PathFor(path string, t Token) string {
	base := PhotoPath.ReplaceAllString(path, "")
	i, ok := t.Selection()
	if !ok {
		if base == "" {
			return "/"
		}
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strconv.Itoa(i+1)
}

// IndexFromPath returns the 0-based photo index encoded at the end of path.
func IndexFromPath(path string) (int, bool) {
	m := PhotoPath.FindStringSubmatch(path)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}
