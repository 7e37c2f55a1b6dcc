package hashprefix

import "strings"

// candidateSet splits a range response into discrete hex tokens. Anything
// that is not a hex digit separates tokens, so newline, comma and JSON array
// bodies all parse. A run longer than size whose length is an exact multiple
// of it is a concatenation of digests and is cut into size-long chunks.
func candidateSet(body string, size int) map[string]struct{} {
	tokens := strings.FieldsFunc(body, func(r rune) bool { return !isHexDigit(r) })
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.ToLower(token)
		if size <= 0 || len(token) <= size || len(token)%size != 0 {
			set[token] = struct{}{}
			continue
		}
		for start := 0; start < len(token); start += size {
			set[token[start:start+size]] = struct{}{}
		}
	}
	return set
}

// containsDigest reports whether digest is one of the candidates. A token
// that merely starts with digest does not match.
func containsDigest(body, digest string, size int) bool {
	_, ok := candidateSet(body, size)[strings.ToLower(digest)]
	return ok
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
