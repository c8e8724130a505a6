package cardrepo

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StoredNode is one entry in the stored-card directory tree.
type StoredNode struct {
	Name     string       `json:"name"`
	Kind     string       `json:"kind"` // sector, sub_sector, facility, card
	Ref      string       `json:"ref,omitempty"`
	Children []StoredNode `json:"children,omitempty"`
}

// Tree walks the repository and returns the sector/subSector/facility
// hierarchy of everything persisted so far.
func (r *FSRepository) Tree(ctx context.Context) ([]StoredNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sectors, err := readDirNames(r.root)
	if err != nil {
		return nil, err
	}

	var nodes []StoredNode
	for _, sector := range sectors {
		sn := StoredNode{Name: sector, Kind: "sector"}
		subs, err := readDirNames(filepath.Join(r.root, sector))
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			ssn := StoredNode{Name: sub, Kind: "sub_sector"}
			facs, err := readDirNames(filepath.Join(r.root, sector, sub))
			if err != nil {
				return nil, err
			}
			for _, fac := range facs {
				fn := StoredNode{Name: fac, Kind: "facility"}
				entries, err := os.ReadDir(filepath.Join(r.root, sector, sub, fac))
				if err != nil {
					return nil, err
				}
				for _, e := range entries {
					if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
						continue
					}
					fn.Children = append(fn.Children, StoredNode{
						Name: strings.TrimSuffix(e.Name(), ".yaml"),
						Kind: "card",
						Ref:  filepath.ToSlash(filepath.Join(sector, sub, fac, e.Name())),
					})
				}
				ssn.Children = append(ssn.Children, fn)
			}
			sn.Children = append(sn.Children, ssn)
		}
		nodes = append(nodes, sn)
	}
	return nodes, nil
}

func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
