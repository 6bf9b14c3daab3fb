package planner

import (
	"slices"

	"git.home.luguber.info/inful/htmltags/internal/options"
)

// Entry is one concrete tag produced from a TagSpec. A globbed TagSpec
// yields one Entry per matched file.
type Entry struct {
	Spec *options.TagSpec

	// Path is the destination path before public path and hash are applied.
	Path string

	// URL is the final src or href.
	URL string

	// Source is the local file to register at Path, if any.
	Source string

	Append bool
}

// Buckets holds the entries spliced before and after the host's own entries.
type Buckets struct {
	Prepend []*Entry
	Append  []*Entry
}

// Len returns the number of entries in both buckets.
func (b Buckets) Len() int {
	return len(b.Prepend) + len(b.Append)
}

// URLs returns the URLs of entries in declaration order.
func urls(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.URL
	}
	return out
}

// DocumentPlan is the per-document result of the before phase. It is handed
// to the after phase explicitly and records everything needed to find the
// generated tags again.
type DocumentPlan struct {
	Document string
	JS       Buckets
	CSS      Buckets

	// Metas are the meta attribute sets handed to the host, split the same way.
	MetasPrepend []map[string]any
	MetasAppend  []map[string]any
}

// partition splits entries into prepend and append buckets, preserving
// declaration order. When externalsFirst is set, entries backed by an
// external come before the others inside each bucket; otherwise after.
func partition(entries []*Entry, externalsFirst bool) Buckets {
	var b Buckets
	for _, e := range entries {
		if e.Append {
			b.Append = append(b.Append, e)
		} else {
			b.Prepend = append(b.Prepend, e)
		}
	}
	order := func(list []*Entry) []*Entry {
		slices.SortStableFunc(list, func(x, y *Entry) int {
			xe, ye := x.Spec.External != nil, y.Spec.External != nil
			switch {
			case xe == ye:
				return 0
			case xe == externalsFirst:
				return -1
			default:
				return 1
			}
		})
		return list
	}
	b.Prepend = order(b.Prepend)
	b.Append = order(b.Append)
	return b
}

// splice returns prepend + existing + append without modifying existing.
func splice[T any](prepend, existing, appendList []T) []T {
	out := make([]T, 0, len(prepend)+len(existing)+len(appendList))
	out = append(out, prepend...)
	out = append(out, existing...)
	out = append(out, appendList...)
	return out
}
