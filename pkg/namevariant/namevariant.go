package namevariant

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	reParen        = regexp.MustCompile(`\([^)]*\)`)
	reParenContent = regexp.MustCompile(`\(([^)]*)\)`)
)

// Generate produces spelling and formatting variants of a company or
// person name to broaden search recall against registers that index
// names inconsistently. The result is sorted and free of duplicates,
// and always contains the input itself.
func Generate(name string) []string {
	variants := make(map[string]struct{})
	add := func(v string) {
		if v != "" {
			variants[v] = struct{}{}
		}
	}

	titler := cases.Title(language.English)

	add(name)
	add(strings.ToUpper(name))
	add(strings.ToLower(name))
	add(titler.String(strings.ToLower(name)))

	if strings.Contains(name, " ") {
		parts := strings.Fields(name)

		var initials strings.Builder
		for _, p := range parts {
			r := []rune(p)
			initials.WriteString(strings.ToUpper(string(r[0])))
		}
		add(initials.String())

		add(parts[0])
		add(parts[len(parts)-1])
		add(strings.Join(parts, ""))
		add(strings.Join(parts, "_"))
		add(strings.Join(parts, "-"))
	}

	// "Last, First" style names also get the inverted form.
	if strings.Contains(name, ",") {
		parts := strings.Split(name, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) >= 2 && parts[0] != "" && parts[1] != "" {
			add(parts[1] + " " + parts[0])
			add(parts[1] + ", " + parts[0])
		}
	}

	noParen := strings.TrimSpace(reParen.ReplaceAllString(name, ""))
	if noParen != name {
		add(noParen)
		for _, match := range reParenContent.FindAllStringSubmatch(name, -1) {
			add(strings.TrimSpace(match[1]))
		}
	}

	out := make([]string, 0, len(variants))
	for v := range variants {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
