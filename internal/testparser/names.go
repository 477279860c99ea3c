package testparser

import "strings"

// NameFields lists the fields probed when resolving a display name.
type NameFields struct {
	// Qualified fields already hold a complete name; the first non-empty wins.
	Qualified []string
	// Title fields hold the leaf's own title, combined with ancestor titles.
	Title []string
	// Ancestors fields hold the enclosing group titles, as a list or a string.
	Ancestors []string
	// Separator joins ancestor titles and the leaf title.
	Separator string
}

// DefaultNameFields returns the field names used by Jest-style reporters.
func DefaultNameFields() NameFields {
	return NameFields{
		Qualified: []string{"fullName", "full_name", "name", "title"},
		Title:     []string{"title", "name"},
		Ancestors: []string{"ancestorTitles", "ancestor_titles"},
		Separator: " :: ",
	}
}

type nameResolver struct {
	qualified []accessor
	title     []accessor
	ancestors []string
	sep       string
}

func newNameResolver(nf NameFields) *nameResolver {
	return &nameResolver{
		qualified: stringFields(nf.Qualified),
		title:     stringFields(nf.Title),
		ancestors: nf.Ancestors,
		sep:       nf.Separator,
	}
}

// resolve returns the best display name for a leaf-like node, or fallback,
// or the empty string.
func (r *nameResolver) resolve(f Fields, fallback string) string {
	if name, ok := firstOf(f, r.qualified); ok {
		return name
	}

	prefix := r.ancestorPrefix(f)
	title, _ := firstOf(f, r.title)

	switch {
	case prefix != "" && title != "":
		return prefix + r.sep + title
	case title != "":
		return title
	case fallback != "":
		return fallback
	}
	return ""
}

func (r *nameResolver) ancestorPrefix(f Fields) string {
	v, ok := truthyField(f, r.ancestors)
	if !ok {
		return ""
	}
	list, isList := v.([]any)
	if !isList {
		s, _ := scalarText(v)
		return s
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := scalarText(item); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, r.sep)
}
