package browser

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/bubbles/list"

	"github.com/mattjoyce/mp3edit/internal/dispatch"
)

// item is one directory entry in the list.
type item struct {
	name string
	dir  bool
}

func (i item) Title() string {
	if i.dir {
		return i.name + "/"
	}
	return i.name
}

func (i item) Description() string {
	if i.dir {
		return "directory"
	}
	return "file"
}

func (i item) FilterValue() string { return i.name }

// entity is the menu-query target for this entry.
func (i item) entity() dispatch.Entity {
	if i.dir {
		return dispatch.Entity{Type: "dir", Name: i.name}
	}
	return dispatch.Entity{Type: dispatch.EntityFile, Name: i.name}
}

// readEntries lists dir with directories first, each group sorted by name.
func readEntries(dir string) ([]list.Item, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	entries := make([]item, 0, len(des))
	for _, de := range des {
		entries = append(entries, item{name: de.Name(), dir: de.IsDir()})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].dir != entries[b].dir {
			return entries[a].dir
		}
		return entries[a].name < entries[b].name
	})

	out := make([]list.Item, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out, nil
}
