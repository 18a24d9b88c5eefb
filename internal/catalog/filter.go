package catalog

import "strings"

// Tokenize implements the filter grammar shared by list_songs, list_artists
// and list_albums: embedded double-quotes are stripped from the raw input,
// the result is split on whitespace, and empty words are dropped. Every
// surviving word must appear (case-insensitive substring) in the target
// column for a row to match — an AND-of-substring-contains.
func Tokenize(raw string) []string {
	raw = strings.ReplaceAll(raw, `"`, "")
	fields := strings.Fields(raw)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		words = append(words, f)
	}
	return words
}

// filterClauseOn builds a "LOWER(col) LIKE ?" AND-chain (without a leading
// AND/WHERE) for every token of raw, plus its bound arguments.
func filterClauseOn(raw, column string) (string, []any) {
	words := Tokenize(raw)
	if len(words) == 0 {
		return "", nil
	}
	clauses := make([]string, len(words))
	args := make([]any, len(words))
	for i, w := range words {
		clauses[i] = "LOWER(" + column + ") LIKE ?"
		args[i] = "%" + strings.ToLower(w) + "%"
	}
	return strings.Join(clauses, " AND "), args
}

// songFilterClause builds the WHERE clause for list_songs: every token of
// raw must appear (case-insensitive substring) in the title column. This is
// the plain single-column AND-of-substring-contains grammar; the Query
// Engine's richer "title OR album OR artist, each all-tokens" search3 song
// filter is built separately by SongSearchClause, since it applies across
// three columns rather than one.
func songFilterClause(raw, column string) (string, []any) {
	clause, args := filterClauseOn(raw, column)
	if clause == "" {
		return "", nil
	}
	return "WHERE " + clause, args
}

// SongSearchClause builds the search3 song filter: a row matches if ANY of
// the given columns contains ALL tokens of raw (case-insensitive
// substring). Returns an empty clause when raw has no tokens, meaning "no
// filter" per the Query Engine's empty-query behaviour.
func SongSearchClause(raw string, columns ...string) (string, []any) {
	words := Tokenize(raw)
	if len(words) == 0 {
		return "", nil
	}
	var args []any
	colClauses := make([]string, len(columns))
	for i, c := range columns {
		perTokenClauses := make([]string, len(words))
		for j, w := range words {
			perTokenClauses[j] = "LOWER(COALESCE(" + c + ", '')) LIKE ?"
			args = append(args, "%"+strings.ToLower(w)+"%")
		}
		colClauses[i] = "(" + strings.Join(perTokenClauses, " AND ") + ")"
	}
	return "WHERE " + strings.Join(colClauses, " OR "), args
}

// andPrefix turns a bare AND-chain into a standalone "AND (...)" clause
// suitable for appending after an existing WHERE.
func andPrefix(clause string) string {
	if clause == "" {
		return ""
	}
	return "AND (" + clause + ")"
}
