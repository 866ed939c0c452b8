package typedef

// Database is the ordered collection of typedefs extracted from one header.
type Database []Typedef

// Lookup returns the single typedef introducing alias. Zero or several
// matches is an error; the first match is never chosen silently.
func (db Database) Lookup(alias string) (*Typedef, error) {
	var found []int
	for i := range db {
		if db[i].Alias == alias {
			found = append(found, i)
		}
	}
	switch len(found) {
	case 1:
		return &db[found[0]], nil
	case 0:
		return nil, NotFound(alias)
	default:
		return nil, Ambiguous(alias, len(found))
	}
}

// Aliases returns every alias in database order, duplicates included.
func (db Database) Aliases() []string {
	out := make([]string, len(db))
	for i, td := range db {
		out[i] = td.Alias
	}
	return out
}
