package changelog

import (
	"fmt"
	"sort"
	"strings"
)

// SortLatestSection reorders the entries of the latest section by category
// (API Change, Feature, Fix, Doc) and returns the full document text. Entries
// of the same category keep their relative order. Only the bytes of the
// reordered items move: blank lines between items stay where they were and
// everything outside the list is copied unchanged. A section that is empty
// or already sorted yields the source as is.
func (d *Document) SortLatestSection() (string, error) {
	section, err := d.LatestSection()
	if err != nil {
		return "", err
	}
	if section.List == nil || len(section.Entries) < 2 {
		return d.Source, nil
	}

	for _, e := range section.Entries {
		if e.Err != nil {
			return "", fmt.Errorf("cannot sort latest section: %w", e.Err)
		}
	}

	order := make([]int, len(section.Entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return section.Entries[order[a]].Category < section.Entries[order[b]].Category
	})
	if isIdentity(order) {
		return d.Source, nil
	}

	return d.reorderItems(section.List, order)
}

// reorderItems rewrites list so that item k of the result is item order[k]
// of the source.
func (d *Document) reorderItems(list *List, order []int) (string, error) {
	src := d.Source
	items := list.Items

	bodies := make([]string, len(items))
	gaps := make([]string, len(items))
	for i, item := range items {
		if !item.Pos.Known() {
			return "", &ParseError{Message: fmt.Sprintf("cannot locate entry %d of the latest section in the source", i+1)}
		}
		end := list.Pos.End
		if i+1 < len(items) {
			end = items[i+1].Pos.Start
		}
		if end < item.Pos.Start || end > len(src) {
			return "", &ParseError{Message: fmt.Sprintf("cannot locate entry %d of the latest section in the source", i+1)}
		}
		bodies[i], gaps[i] = splitTrailingBlank(src[item.Pos.Start:end])
	}

	// The last body may lack a newline when the list ends the file. Moved
	// bodies need one, and the body that ends up last must not gain one.
	last := len(items) - 1
	missingNewline := !strings.HasSuffix(bodies[last], "\n")
	if missingNewline {
		bodies[last] += "\n"
	}

	var b strings.Builder
	b.Grow(len(src) + 1)
	b.WriteString(src[:items[0].Pos.Start])
	for k, idx := range order {
		body := bodies[idx]
		if k == last && missingNewline {
			body = strings.TrimSuffix(body, "\n")
		}
		b.WriteString(body)
		b.WriteString(gaps[k])
	}
	b.WriteString(src[list.Pos.End:])

	return b.String(), nil
}

// splitTrailingBlank separates chunk into its content and the blank lines
// that follow it.
func splitTrailingBlank(chunk string) (string, string) {
	end := len(chunk)
	for end > 0 && chunk[end-1] == '\n' {
		start := strings.LastIndexByte(chunk[:end-1], '\n') + 1
		if strings.TrimSpace(chunk[start:end]) != "" {
			break
		}
		end = start
	}
	return chunk[:end], chunk[end:]
}

func isIdentity(order []int) bool {
	for i, v := range order {
		if i != v {
			return false
		}
	}
	return true
}
